package app

import (
	"fmt"

	"menu-ops/internal/core/cache"
	"menu-ops/internal/core/notify"
	"menu-ops/internal/core/sheets"
	"menu-ops/internal/core/tagging"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"go.uber.org/zap"
)

// Deps 兩個執行檔共用的服務組裝結果
// 試算表未設定時 Client、Proxy、MenuSheet 為 nil
type Deps struct {
	Cache     cache.Store
	Client    *sheets.Client
	Proxy     *sheets.Proxy
	MenuSheet *sheets.MenuSheet
	Notifier  *notify.Notifier
	Tagging   *tagging.Service
}

// Build 依設定初始化快取、試算表、通知與標記服務
func Build(cfg *config.Config) (*Deps, error) {
	store, err := cache.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	deps := &Deps{
		Cache:    store,
		Notifier: notify.NewNotifier(&cfg.Webhook),
	}

	if cfg.Sheets.Configured() {
		client, err := sheets.NewClient(&cfg.Sheets, store)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		deps.Client = client
		deps.Proxy = sheets.NewProxy(client, cfg.Sheets.Columns)
		deps.MenuSheet = sheets.NewMenuSheet(client, cfg.Sheets.MenuSheet, cfg.Sheets.Columns, cfg.Sheets.KidColumn)
	} else {
		common.LogWarn("試算表未設定，僅提供離線分類")
	}

	// 以介面傳入時避免 typed nil
	var menuSheet tagging.MenuSheet
	if deps.MenuSheet != nil {
		menuSheet = deps.MenuSheet
	}
	var notifier tagging.Notifier
	if deps.Notifier.Enabled() {
		notifier = deps.Notifier
	}
	deps.Tagging = tagging.NewService(menuSheet, notifier, cfg.Classify.Workers)

	common.LogInfo("服務初始化完成",
		zap.Bool("cache_enabled", store != nil),
		zap.Bool("sheets_configured", deps.Client != nil),
		zap.Bool("webhook_enabled", notifier != nil),
		zap.Int("workers", cfg.Classify.Workers),
	)

	return deps, nil
}

// Close 釋放快取連線與背景清理
func (d *Deps) Close() {
	if d == nil || d.Cache == nil {
		return
	}
	if err := d.Cache.Close(); err != nil {
		common.LogWarn("快取關閉失敗", zap.Error(err))
	}
}
