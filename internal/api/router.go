package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"menu-ops/internal/api/handlers"
	"menu-ops/internal/api/handlers/health"
	menuHandler "menu-ops/internal/api/handlers/menu"
	sheetsHandler "menu-ops/internal/api/handlers/sheets"
	"menu-ops/internal/api/middleware"
	"menu-ops/internal/core/cache"
	"menu-ops/internal/core/sheets"
	"menu-ops/internal/core/tagging"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Services 路由依賴的服務
// Cache 與 Proxy 可為 nil（快取關閉或試算表未設定）
type Services struct {
	Cache   cache.Store
	Tagging *tagging.Service
	Proxy   *sheets.Proxy
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if svc.Tagging == nil {
		return nil, fmt.Errorf("failed to setup router: tagging service is required")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !lo.Contains(cfg.Server.AllowOrigins, "*"),
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(injectContext(cfg))

	healthHandler := health.NewHandler(svc.Cache)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Middleware()

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		menuH := menuHandler.NewHandler(svc.Tagging, cfg.Classify.MaxBatches)
		menuGroup := api.Group("/menu")
		{
			menuGroup.POST("/classify", menuH.HandleClassify)
			menuGroup.POST("/classify/batch", menuH.HandleClassifyBatch)
			menuGroup.GET("/kid-friendly", menuH.HandlePreview)
			menuGroup.POST("/kid-friendly/sync", dedup, menuH.HandleSync)
		}

		sheetsH := sheetsHandler.NewHandler(svc.Proxy)
		sheetsGroup := api.Group("/sheets")
		{
			sheetsGroup.GET("/:sheet", sheetsH.HandleList)
			sheetsGroup.POST("/:sheet", dedup, sheetsH.HandleCreate)
			sheetsGroup.PUT("/:sheet/:row", dedup, sheetsH.HandleReplace)
			sheetsGroup.DELETE("/:sheet/:row", dedup, sheetsH.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("sheets_configured", svc.Proxy != nil),
		zap.Bool("cache_enabled", svc.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// injectContext 設置請求超時並注入設定
func injectContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set(handlers.ContextKeyConfig, cfg)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", cfg.Server.RequestTimeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrCodeGatewayTimeout,
				Message: common.ErrGatewayTimeout.Message,
			})
		}
	}
}
