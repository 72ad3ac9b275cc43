package chat

import (
	"svu_forum/internal/domain/chat/handler"
	"svu_forum/internal/domain/chat/repository"
	"svu_forum/internal/domain/chat/service"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ChatModule 公共聊天室
type ChatModule struct{}

func init() {
	registry.Register(&ChatModule{})
}

func (m *ChatModule) Name() string {
	return "chat"
}

func (m *ChatModule) Priority() int {
	return 20
}

func (m *ChatModule) Init(ctx *registry.ModuleContext) error {
	chatRepo := repository.NewMemoryChatRepository()
	chatService := service.NewChatService(chatRepo, ctx.Metrics)
	chatHandler := handler.NewChatHandler(chatService)

	setupRoutes(ctx.Router, chatHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ChatHandler) {
	g := r.Group("/chat")
	g.Use(middleware.OptionalAuthMiddleware())
	{
		g.GET("", h.History)
		g.POST("", h.Send)
	}
}
