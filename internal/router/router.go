package router

import (
	"Uni_Hub/internal/handler"
	"Uni_Hub/internal/middleware"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Services struct {
	User         *service.UserService
	Email        *service.EmailService
	Community    *service.CommunityService
	Event        *service.EventService
	Notification *service.NotificationService
	Post         *service.PostService
	PostLike     *service.PostLikeService
}

func InitRouter(db *gorm.DB, svc Services) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(svc.User)
	email := handler.NewEmailHandler(svc.Email)
	community := handler.NewCommunityHandler(svc.Community)
	event := handler.NewEventHandler(svc.Event)
	notification := handler.NewNotificationHandler(svc.Notification)
	post := handler.NewPostHandler(svc.Post, svc.PostLike)

	api := r.Group("/api/v1")

	// 用户认证接口，无需登录
	authGroup := api.Group("/users/auth")
	{
		authGroup.POST("/code/:scope", email.SendCode)
		authGroup.POST("/register", user.Register)
		authGroup.POST("/login", user.Login)
		authGroup.POST("/reset", user.ResetPassword)
		authGroup.POST("/refresh", user.TokenRefresh)
	}

	// 用户相关接口，登录态
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(db))
	{
		userGroup.POST("/logout", user.Logout)
		userGroup.POST("/change-password", user.ChangePassword)
		userGroup.GET("/profile", user.Profile)
		userGroup.PUT("/profile", user.UpdateProfile)
	}

	// 社区读接口对游客开放，写接口需要登录
	communityRead := api.Group("/communities")
	communityRead.Use(middleware.OptionalAuthMiddleware(db))
	{
		communityRead.GET("", community.List)
		communityRead.GET("/:id", community.Get)
		communityRead.GET("/:id/members", community.Members)
		communityRead.GET("/:id/posts", post.ListByCommunity)
	}

	communityGroup := api.Group("/communities")
	communityGroup.Use(middleware.AuthMiddleware(db))
	{
		communityGroup.POST("", community.Create)
		communityGroup.PUT("/:id", community.Update)
		communityGroup.DELETE("/:id", community.Delete)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
		communityGroup.POST("/:id/members", community.AddMember)
		communityGroup.PATCH("/:id/members/:member_id", community.ChangeRole)
		communityGroup.DELETE("/:id/members/:member_id", community.RemoveMember)
	}

	// 活动相关接口
	eventGroup := api.Group("/events")
	eventGroup.Use(middleware.AuthMiddleware(db))
	{
		eventGroup.POST("", event.Create)
		eventGroup.GET("", event.List)
		eventGroup.GET("/:id", event.Get)
		eventGroup.PUT("/:id", event.Update)
		eventGroup.DELETE("/:id", event.Delete)
		eventGroup.POST("/:id/status", event.ChangeStatus)
		eventGroup.POST("/:id/join", event.Join)
		eventGroup.POST("/:id/leave", event.Leave)
		eventGroup.GET("/:id/participants", event.Participants)
		eventGroup.POST("/:id/participants/:user_id/attend", event.MarkAttended)
	}

	// 通知相关接口
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware(db))
	{
		notificationGroup.GET("", notification.List)
		notificationGroup.GET("/unread-count", notification.UnreadCount)
		notificationGroup.POST("/:id/read", notification.MarkRead)
	}

	// 帖子相关接口
	postGroup := api.Group("/posts")
	postGroup.Use(middleware.AuthMiddleware(db))
	{
		postGroup.POST("", post.Create)
		postGroup.GET("/mine", post.ListMine)
		postGroup.GET("/:id", post.Get)
		postGroup.DELETE("/:id", post.Delete)
		postGroup.POST("/:id/like", post.Like)
		postGroup.DELETE("/:id/like", post.Unlike)
		postGroup.GET("/:id/likes", post.LikeCount)
	}

	return r
}
