package health

import (
	"net/http"
	"runtime"
	"time"

	"menu-ops/internal/api/handlers"
	"menu-ops/internal/core/cache"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Sheets    *SheetsStatus          `json:"sheets,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// SheetsStatus 試算表連線設定狀態
type SheetsStatus struct {
	Configured bool   `json:"configured"`
	MenuSheet  string `json:"menu_sheet"`
}

// Handler 健康檢查處理器
type Handler struct {
	cache cache.Store
}

// NewHandler 創建健康檢查處理器，store 可為 nil
func NewHandler(store cache.Store) *Handler {
	return &Handler{cache: store}
}

// HealthCheck 回報版本、執行期與依賴狀態
func (h *Handler) HealthCheck(c *gin.Context) {
	cfg := handlers.ConfigFrom(c)
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Sheets: &SheetsStatus{
			Configured: cfg.Sheets.Configured(),
			MenuSheet:  cfg.Sheets.MenuSheet,
		},
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 試算表未設定時仍可做離線分類，因此只回報狀態不回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	configured := false
	if cfg := handlers.ConfigFrom(c); cfg != nil {
		configured = cfg.Sheets.Configured()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "ready",
		"sheets_configured": configured,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
