package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 3,
	})
	limitRate := limitRateForPasswordReset(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", limitRate, s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())
	apirouter.GET("/genres", s.handleGetAllGenres())
	apirouter.GET("/news", s.handleGetAllNews())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditUserProfile())
	authorized.POST("/users/:userID/follow", s.handleFollowUser())
	authorized.DELETE("/users/:userID/follow", s.handleUnfollowUser())

	authorized.GET("/notifications/my", s.handleGetMyNotifications())
	authorized.GET("/notifications/unread-count", s.handleGetUnreadCount())
	authorized.PATCH("/notifications/:id/mark-as-read", s.handleMarkNotificationAsRead())

	authorized.POST("/books", s.handleCreateBook())
	authorized.GET("/books", s.handleGetAllBooks())
	authorized.GET("/books/my", s.handleGetMyBooks())
	authorized.GET("/books/:id", s.handleGetBook())
	authorized.PUT("/books/:id", s.handleUpdateBook())
	authorized.PATCH("/books/:id/cover", s.handleUpdateBookCover())
	authorized.DELETE("/books/:id", s.handleDeleteBook())

	authorized.POST("/books/:id/comments", s.handleCreateComment())
	authorized.GET("/books/:id/comments", s.handleGetBookComments())
	authorized.DELETE("/comments/:id", s.handleDeleteComment())

	authorized.POST("/bookmarks", s.handleCreateBookmark())
	authorized.GET("/bookmarks", s.handleGetMyBookmarks())
	authorized.GET("/books/:id/bookmarks", s.handleGetBookBookmarks())
	authorized.PUT("/bookmarks/:id", s.handleUpdateBookmark())
	authorized.DELETE("/bookmarks/:id", s.handleDeleteBookmark())

	authorized.POST("/folders", s.handleCreateFolder())
	authorized.GET("/folders", s.handleGetMyFolders())
	authorized.PUT("/folders/:id", s.handleRenameFolder())
	authorized.DELETE("/folders/:id", s.handleDeleteFolder())
	authorized.POST("/folders/:id/books/:bookID", s.handleAddBookToFolder())
	authorized.DELETE("/folders/:id/books/:bookID", s.handleRemoveBookFromFolder())

	authorized.GET("/shelves", s.handleGetMyShelves())
	authorized.POST("/shelves/books", s.handleMoveBookToShelf())
	authorized.DELETE("/shelves/books/:bookID", s.handleRemoveBookFromShelves())

	authorized.GET("/chat", s.handleGetMyChat())
	authorized.POST("/chat/messages", s.handleCreateChatMessage())

	authorized.GET("/ws/notifications", s.handleNotificationSocket())
	authorized.GET("/ws/chat", s.handleChatSocket())

	admin := authorized.Group("/")
	admin.Use(s.AdminOnly())
	admin.GET("/users/all", s.handleGetAllUsers())
	admin.PATCH("/users/:userID/role", s.handleChangeUserRole())
	admin.POST("/notifications", s.handleCreateNotification())
	admin.GET("/notifications", s.handleGetAllNotifications())
	admin.DELETE("/notifications/:id", s.handleDeleteNotification())
	admin.POST("/news", s.handleCreateNews())
	admin.PUT("/news/:id", s.handleUpdateNews())
	admin.DELETE("/news/:id", s.handleDeleteNews())
	admin.GET("/chat/users", s.handleListChatUsers())
	admin.GET("/chat/users/:userID", s.handleGetUserChat())
}
