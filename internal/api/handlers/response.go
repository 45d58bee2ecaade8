package handlers

import (
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextKeyConfig 路由中間件注入設定時使用的鍵
const ContextKeyConfig = "config"

// ConfigFrom 取出路由注入的設定，未注入時回傳 nil
func ConfigFrom(c *gin.Context) *config.Config {
	v, exists := c.Get(ContextKeyConfig)
	if !exists {
		return nil
	}
	cfg, _ := v.(*config.Config)
	return cfg
}

// RespondError 將錯誤轉成統一的錯誤回應
// debug 模式下附帶原始錯誤訊息
func RespondError(c *gin.Context, err error) {
	debug := false
	if cfg := ConfigFrom(c); cfg != nil {
		debug = cfg.App.Debug
	}

	status, resp := common.ToResponse(err, debug)
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("code", resp.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
