package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "svu_forum/docs"
	_ "svu_forum/internal/domain/chat"
	_ "svu_forum/internal/domain/common"
	_ "svu_forum/internal/domain/forum"
	_ "svu_forum/internal/domain/user"
	"svu_forum/internal/pkg/config"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/internal/pkg/registry"
	"svu_forum/internal/pkg/uploader"
	"svu_forum/pkg/database"
	"svu_forum/pkg/logger"
	"svu_forum/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title SVU Forum API
// @version 1.0
// @description 论坛服务：帖子、嵌套评论、投票、收藏、聊天室
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 配置与日志
	config.LoadConfig()
	cfg := &config.GlobalConfig

	if err := logger.Init(cfg.App.Env); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	// 2. 基础设施
	var rdb *redis.Client
	if cfg.Saved.Backend == config.BackendRedis {
		var err error
		rdb, err = database.InitRedis(cfg.Redis)
		if err != nil {
			logger.L().Fatal("redis unavailable", zap.Error(err))
		}
		defer rdb.Close()
	}

	up, err := uploader.New(cfg)
	if err != nil {
		logger.L().Fatal("uploader init failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewMetricsCollector(reg)

	// 3. 路由与中间件
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.RecoveryMiddleware(),
		middleware.MetricsMiddleware(collector),
		middleware.CORSMiddleware(cfg.CORS.AllowOrigins),
		middleware.RateLimitMiddleware(cfg.RateLimit.QPS, cfg.RateLimit.Burst),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 业务模块
	if err := registry.InitModules(&registry.ModuleContext{
		Router:   r,
		Config:   cfg,
		Redis:    rdb,
		Uploader: up,
		Metrics:  collector,
	}); err != nil {
		logger.L().Fatal("module init failed", zap.Error(err))
	}

	// 5. 启动与优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L().Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("listen failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("server forced to shutdown", zap.Error(err))
	}
}
