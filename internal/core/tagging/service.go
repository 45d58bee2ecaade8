package tagging

import (
	"context"
	"fmt"

	"menu-ops/internal/core/menu"
	"menu-ops/internal/core/notify"
	"menu-ops/internal/core/sheets"
	"menu-ops/internal/pkg/common"

	"go.uber.org/zap"
)

// MenuSheet 菜單資料來源與回寫目標
type MenuSheet interface {
	Name() string
	Load(ctx context.Context) ([][]string, error)
	LoadFresh(ctx context.Context) ([][]string, error)
	WriteKidFriendly(ctx context.Context, result *menu.Result) (*sheets.UpdateResponse, error)
}

// Notifier 同步完成後的通知
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// SyncResult 回寫結果
type SyncResult struct {
	Sheet        string       `json:"sheet"`
	Summary      menu.Summary `json:"summary"`
	UpdatedRange string       `json:"updated_range"`
	UpdatedCells int          `json:"updated_cells"`
	Notified     bool         `json:"notified"`
}

// Service 兒童菜標記服務
type Service struct {
	sheet    MenuSheet
	notifier Notifier
	workers  int
}

// NewService 創建標記服務，sheet 為 nil 時只能做離線分類
func NewService(sheet MenuSheet, notifier Notifier, workers int) *Service {
	return &Service{
		sheet:    sheet,
		notifier: notifier,
		workers:  workers,
	}
}

// Classify 分類單一批次
func (s *Service) Classify(records []menu.MenuRecord) *menu.Result {
	result := menu.Classify(records)
	common.LogInfo("菜單分類完成",
		zap.Int("records", len(records)),
		zap.Int("kid_friendly", result.KidFriendlyCount()),
		zap.Int("pending", result.PendingCount()),
		zap.Int("spicy", result.SpicyCount()),
	)
	return result
}

// ClassifyBatches 平行分類多個批次
func (s *Service) ClassifyBatches(ctx context.Context, batches [][]menu.MenuRecord) ([]*menu.Result, error) {
	results, err := menu.ClassifyAll(ctx, batches, s.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to classify batches: %w", err)
	}
	common.LogInfo("批次分類完成",
		zap.Int("batches", len(batches)),
		zap.Int("workers", s.workers),
	)
	return results, nil
}

// Preview 讀取菜單工作表並分類，不回寫
func (s *Service) Preview(ctx context.Context) (*menu.Result, error) {
	return s.load(ctx, false)
}

// Sync 分類後回寫兒童菜欄位並發送通知
// 回寫前一律重新讀取上游，列索引才會對應到目前的工作表
// 通知失敗只記錄日誌，不影響回寫結果
func (s *Service) Sync(ctx context.Context) (*SyncResult, error) {
	result, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	resp, err := s.sheet.WriteKidFriendly(ctx, result)
	if err != nil {
		return nil, err
	}

	out := &SyncResult{
		Sheet:        s.sheet.Name(),
		Summary:      result.Summary(),
		UpdatedRange: resp.UpdatedRange,
		UpdatedCells: resp.UpdatedCells,
	}

	common.LogInfo("兒童菜欄位已回寫",
		zap.String("sheet", out.Sheet),
		zap.String("range", out.UpdatedRange),
		zap.Int("cells", out.UpdatedCells),
	)

	if s.notifier != nil {
		msg := notify.Message{
			Text:  fmt.Sprintf("[%s] %s", out.Sheet, result.SummaryLine()),
			Event: "kid_friendly.sync",
			Fields: map[string]interface{}{
				"total":        out.Summary.Total,
				"kid_friendly": out.Summary.KidFriendly,
				"pending":      out.Summary.Pending,
				"spicy":        out.Summary.Spicy,
			},
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			common.LogWarn("同步通知發送失敗", zap.Error(err))
		} else {
			out.Notified = true
		}
	}

	return out, nil
}

func (s *Service) load(ctx context.Context, fresh bool) (*menu.Result, error) {
	if s.sheet == nil {
		return nil, common.ErrSheetsNotConfigured
	}
	load := s.sheet.Load
	if fresh {
		load = s.sheet.LoadFresh
	}
	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Classify(menu.FromRows(rows)), nil
}
