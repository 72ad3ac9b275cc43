package forum

import (
	"errors"
	"time"

	"svu_forum/internal/domain/forum/handler"
	"svu_forum/internal/domain/forum/repository"
	"svu_forum/internal/domain/forum/service"
	savedRepo "svu_forum/internal/domain/saved/repository"
	"svu_forum/internal/pkg/config"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

const (
	savedKeyPrefix = "forum:"
	savedTTL       = 30 * 24 * time.Hour
)

// ForumModule 帖子、评论、投票、收藏
type ForumModule struct{}

func init() {
	registry.Register(&ForumModule{})
}

func (m *ForumModule) Name() string {
	return "forum"
}

func (m *ForumModule) Priority() int {
	return 10
}

func (m *ForumModule) Init(ctx *registry.ModuleContext) error {
	saved, err := newSavedRepository(ctx)
	if err != nil {
		return err
	}

	// 1. 依赖注入
	postStore := repository.NewMemoryPostStore()
	forumService := service.NewForumService(postStore, saved, ctx.Uploader, ctx.Metrics)
	forumHandler := handler.NewForumHandler(forumService, ctx.Config.Upload.MaxSize)

	// 2. 路由注册
	setupRoutes(ctx.Router, forumHandler)

	return nil
}

// newSavedRepository 按 saved.backend 选择收藏存储
func newSavedRepository(ctx *registry.ModuleContext) (savedRepo.SavedRepository, error) {
	switch ctx.Config.Saved.Backend {
	case config.BackendRedis:
		if ctx.Redis == nil {
			return nil, errors.New("saved backend is redis but no redis client is configured")
		}
		return savedRepo.NewRedisSavedRepository(ctx.Redis, savedKeyPrefix, savedTTL), nil
	default:
		return savedRepo.NewMemorySavedRepository(), nil
	}
}

func setupRoutes(r *gin.Engine, h *handler.ForumHandler) {
	g := r.Group("/forum")
	g.Use(middleware.SessionMiddleware(), middleware.OptionalAuthMiddleware())

	// Public
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts/:id/vote", h.VotePost)
	g.POST("/posts/:id/comments/:commentId/vote", h.VoteComment)

	// Session scoped
	g.POST("/posts/:id/star", h.ToggleStar)
	g.GET("/saved", h.ListSaved)

	// Requires Login
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/posts", h.CreatePost)
		auth.POST("/posts/:id/comments", h.AddComment)
		auth.POST("/posts/:id/comments/:commentId/replies", h.AddReply)
	}
}
