package services

import (
	"errors"
	"mojiboard/internal/db"
	"mojiboard/internal/models"

	"gorm.io/gorm"
)

// CountLikes returns the number of likes on a post.
func CountLikes(postID uint) int64 {
	var count int64
	db.DB.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count)
	return count
}

// HasLiked reports whether the actor has liked the post. Anonymous actors
// cannot like, so for them this is always false.
func HasLiked(actor Actor, postID uint) bool {
	if !actor.Authenticated() {
		return false
	}
	var like models.Like
	err := db.DB.Where("profile_id = ? AND post_id = ?", actor.Profile.ID, postID).
		First(&like).Error
	return err == nil
}

// ToggleLike flips the actor's like on a post and returns the new state
// plus the fresh count. The (profile_id, post_id) unique index keeps a
// profile at one like per post; a duplicate insert from a double-click
// race is treated as already liked rather than an error.
func ToggleLike(actor Actor, postID uint) (liked bool, count int64, err error) {
	if !actor.Authenticated() {
		return false, 0, ErrAuthRequired
	}

	var post models.ImagePost
	if err := db.DB.First(&post, postID).Error; err != nil {
		return false, 0, err
	}

	var existing models.Like
	findErr := db.DB.Where("profile_id = ? AND post_id = ?", actor.Profile.ID, postID).
		First(&existing).Error
	if findErr == nil {
		if err := db.DB.Delete(&existing).Error; err != nil {
			return false, 0, err
		}
		liked = false
	} else {
		like := models.Like{
			ProfileID: actor.Profile.ID,
			PostID:    postID,
		}
		if err := db.DB.Create(&like).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, 0, err
		}
		liked = true
	}

	return liked, CountLikes(postID), nil
}

type countRow struct {
	PostID uint
	Count  int64
}

// CountLikesBatch returns like counts for many posts in one grouped query.
// List views must use this instead of one CountLikes round trip per item.
func CountLikesBatch(postIDs []uint) map[uint]int64 {
	counts := make(map[uint]int64)
	if len(postIDs) == 0 {
		return counts
	}
	var rows []countRow
	db.DB.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows)
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts
}

// CountCommentsBatch is CountLikesBatch for comments.
func CountCommentsBatch(postIDs []uint) map[uint]int64 {
	counts := make(map[uint]int64)
	if len(postIDs) == 0 {
		return counts
	}
	var rows []countRow
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows)
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts
}

// FillEngagementCounts populates LikeCount and CommentCount on a post list
// with two grouped queries.
func FillEngagementCounts(posts []models.ImagePost) {
	if len(posts) == 0 {
		return
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	likes := CountLikesBatch(postIDs)
	comments := CountCommentsBatch(postIDs)
	for i := range posts {
		posts[i].LikeCount = int(likes[posts[i].ID])
		posts[i].CommentCount = int(comments[posts[i].ID])
	}
}
