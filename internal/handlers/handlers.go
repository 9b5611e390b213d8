package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"openwonder/api/internal/config"
	"openwonder/api/internal/events"
	"openwonder/api/internal/middleware"
	"openwonder/api/internal/notify"
	"openwonder/api/internal/policy"
	"openwonder/api/internal/repository"
	"openwonder/api/internal/service"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	followService *service.FollowService
	blockService  *service.BlockService
	postService   *service.PostService
	db            *pgxpool.Pool
	cache         *redis.Client
	publisher     *events.Publisher
	users         *repository.UserRepository
	sessions      *repository.SessionRepository
	notifications *repository.NotificationRepository
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	publisher *events.Publisher,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	postRepo := repository.NewPostRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	variant := policy.Variant(cfg.Policy.Variant)
	oracle := policy.NewPGOracle(db, variant)
	fanout := notify.NewFanout(notificationRepo, cache, publisher, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   service.NewAuthService(userRepo, sessionRepo, cfg, log),
		followService: service.NewFollowService(followRepo, blockRepo, fanout),
		blockService:  service.NewBlockService(blockRepo),
		postService:   service.NewPostService(postRepo, oracle, variant, fanout, log),
		db:            db,
		cache:         cache,
		publisher:     publisher,
		users:         userRepo,
		sessions:      sessionRepo,
		notifications: notificationRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	authed := middleware.Auth(h.sessions, h.users)

	session := v1.Group("/auth")
	session.Use(authed)
	session.POST("/logout", h.Logout)
	session.POST("/password", h.ChangePassword)
	session.GET("/me", h.Me)
	session.GET("/sessions", h.ListSessions)
	session.DELETE("/sessions/:id", h.RevokeSession)

	users := v1.Group("/users")
	users.Use(authed)
	users.POST("/:id/follow", h.Follow)
	users.DELETE("/:id/follow", h.Unfollow)
	users.GET("/:id/followers", h.Followers)
	users.GET("/:id/following", h.Following)
	users.POST("/:id/block", h.Block)
	users.DELETE("/:id/block", h.Unblock)
	users.GET("/:id/posts", h.ListUserPosts)

	requests := v1.Group("/follow-requests")
	requests.Use(authed)
	requests.GET("", h.ListFollowRequests)
	requests.POST("/:id/accept", h.AcceptFollowRequest)
	requests.POST("/:id/decline", h.DeclineFollowRequest)

	blocks := v1.Group("/blocks")
	blocks.Use(authed)
	blocks.GET("", h.ListBlocks)

	posts := v1.Group("/posts")
	posts.Use(authed)
	posts.POST("", h.CreatePost)
	posts.GET("/:id", h.GetPost)
	posts.DELETE("/:id", h.DeletePost)
	posts.POST("/:id/comments", h.AddComment)
	posts.GET("/:id/comments", h.ListComments)
	posts.POST("/:id/reactions", h.ToggleReaction)

	comments := v1.Group("/comments")
	comments.Use(authed)
	comments.DELETE("/:id", h.DeleteComment)

	notifications := v1.Group("/notifications")
	notifications.Use(authed)
	notifications.GET("", h.ListNotifications)
	notifications.POST("/seen", h.MarkNotificationsSeen)
}
