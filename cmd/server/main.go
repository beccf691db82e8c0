package main

import (
	"log"
	"mojiboard/internal/db"
	"mojiboard/internal/handlers"
	"mojiboard/internal/middleware"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("mojiboard_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	boardHandler := handlers.NewBoardHandler()
	postHandler := handlers.NewPostHandler()
	likeHandler := handlers.NewLikeHandler()
	commentHandler := handlers.NewCommentHandler()
	generateHandler := handlers.NewGenerateHandler()
	uploadHandler := handlers.NewUploadHandler()
	meHandler := handlers.NewMeHandler()

	// Public Routes
	r.POST("/api/signup", authHandler.Signup)
	r.POST("/api/login", authHandler.Login)
	r.POST("/api/logout", authHandler.Logout)
	r.POST("/api/check-nickname", authHandler.CheckNickname)
	r.GET("/api/locale", authHandler.GetLocale)
	r.PUT("/api/locale", authHandler.SetLocale)

	r.GET("/api/boards", boardHandler.List)
	r.GET("/api/boards/:id", boardHandler.Detail)
	r.GET("/api/posts", postHandler.Feed)
	r.GET("/api/posts/:id", postHandler.Detail)
	r.GET("/api/posts/:id/comments", commentHandler.List)

	// Anonymous visitors may generate too, capped at one per day
	r.POST("/api/generate", generateHandler.Generate)

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/boards", boardHandler.Create)
		authorized.POST("/posts", postHandler.Create)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/posts/:id/like", likeHandler.Toggle)
		authorized.POST("/posts/:id/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
		authorized.POST("/upload", uploadHandler.Upload)
		authorized.GET("/uploads", uploadHandler.ListUploads)

		authorized.GET("/me", meHandler.Me)
		authorized.GET("/me/posts", meHandler.MyPosts)
		authorized.GET("/me/likes", meHandler.LikedPosts)
		authorized.PUT("/me/settings", meHandler.UpdateSettings)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("mojiboard server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
