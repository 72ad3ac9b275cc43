package common

import (
	commonHandler "svu_forum/internal/pkg/common"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	h := commonHandler.NewCommonHandler(ctx.Uploader)
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *commonHandler.CommonHandler) {
	// 文件上传接口
	r.POST("/upload", middleware.AuthMiddleware(), h.UploadFiles)
	r.GET("/uploads/:name", h.ServeUpload)
}
