package services

import (
	"errors"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/utils"
	"strings"
)

var (
	ErrEmptyBody = errors.New("comment body is empty")
	ErrBadParent = errors.New("parent comment not on this post")
	ErrNotOwner  = errors.New("not the author")
)

// ListComments returns all comments on a post, oldest first, each carrying
// its parent id.
func ListComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Preload("Profile").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// AddComment inserts a comment or reply. The body is stripped of markup
// and must not be blank; a parent, when given, must be a comment on the
// same post.
func AddComment(actor Actor, postID uint, body string, parentID *uint) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthRequired
	}

	body = strings.TrimSpace(utils.SanitizeText(body))
	if body == "" {
		return nil, ErrEmptyBody
	}

	var post models.ImagePost
	if err := db.DB.First(&post, postID).Error; err != nil {
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *parentID).Error; err != nil {
			return nil, ErrBadParent
		}
		if parent.PostID != postID {
			return nil, ErrBadParent
		}
	}

	comment := models.Comment{
		PostID:    postID,
		ProfileID: actor.Profile.ID,
		ParentID:  parentID,
		Body:      body,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment hard-deletes the actor's own comment. Replies keep their
// parent_id and simply stop appearing in the rendered tree.
func DeleteComment(actor Actor, commentID uint) error {
	if !actor.Authenticated() {
		return ErrAuthRequired
	}

	var comment models.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		return err
	}
	if comment.ProfileID != actor.Profile.ID {
		return ErrNotOwner
	}
	return db.DB.Delete(&comment).Error
}

// CommentNode is a comment with its attached replies.
type CommentNode struct {
	models.Comment
	Children []*CommentNode `json:"children"`
}

// BuildTree groups a flat comment list into a forest: roots are comments
// with a nil parent id, children attach under their parent at any depth.
// Input order is preserved among siblings. A comment whose parent row no
// longer exists attaches nowhere and is dropped from the result.
func BuildTree(flat []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(flat))
	for i := range flat {
		nodes[flat[i].ID] = &CommentNode{Comment: flat[i]}
	}

	var roots []*CommentNode
	for i := range flat {
		node := nodes[flat[i].ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}
