package sheets

import (
	"context"
	"fmt"

	"menu-ops/internal/core/menu"
	"menu-ops/internal/pkg/common"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// 兒童菜欄位回寫的值
const (
	KidFlagTrue  = "TRUE"
	KidFlagFalse = "FALSE"
)

// MenuSheet 菜單資料庫工作表
type MenuSheet struct {
	client    *Client
	sheet     string
	columns   int
	kidColumn int
}

// NewMenuSheet 創建菜單工作表存取
func NewMenuSheet(client *Client, sheet string, columns, kidColumn int) *MenuSheet {
	if kidColumn >= columns {
		columns = kidColumn + 1
	}
	return &MenuSheet{
		client:    client,
		sheet:     sheet,
		columns:   columns,
		kidColumn: kidColumn,
	}
}

// Name 工作表名稱
func (m *MenuSheet) Name() string {
	return m.sheet
}

// Load 讀取整張菜單工作表（含標題列）
func (m *MenuSheet) Load(ctx context.Context) ([][]string, error) {
	rows, err := m.client.Get(ctx, SheetRange(m.sheet, m.columns))
	if err != nil {
		return nil, fmt.Errorf("failed to load menu sheet: %w", err)
	}
	common.LogInfo("菜單工作表已讀取",
		zap.String("sheet", m.sheet),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// LoadFresh 略過快取讀取整張工作表，回寫前使用
func (m *MenuSheet) LoadFresh(ctx context.Context) ([][]string, error) {
	rows, err := m.client.GetFresh(ctx, SheetRange(m.sheet, m.columns))
	if err != nil {
		return nil, fmt.Errorf("failed to load menu sheet: %w", err)
	}
	return rows, nil
}

// WriteKidFriendly 將分類結果回寫到兒童菜欄位
// 只寫入被分類的儲存格，略過的列完全不碰
func (m *MenuSheet) WriteKidFriendly(ctx context.Context, result *menu.Result) (*UpdateResponse, error) {
	cells := KidCells(m.sheet, m.kidColumn, result)
	if len(cells) == 0 {
		return &UpdateResponse{}, nil
	}

	resp, err := m.client.BatchUpdate(ctx, cells)
	if err != nil {
		return nil, fmt.Errorf("failed to write kid-friendly column: %w", err)
	}

	rowNumbers := lo.Map(result.Decisions, func(d menu.Decision, _ int) int { return d.Index + 1 })
	resp.UpdatedRange = ColumnRange(m.sheet, m.kidColumn, lo.Min(rowNumbers), lo.Max(rowNumbers))
	return resp, nil
}

// KidCells 每筆分類結果對應一個兒童菜儲存格
// Decision.Index 是 Load 讀到的列索引（含標題列），所以試算表列號為 Index+1
func KidCells(sheet string, column int, result *menu.Result) []ValueRange {
	if result == nil {
		return nil
	}
	cells := make([]ValueRange, 0, len(result.Decisions))
	for _, d := range result.Decisions {
		if d.Index < 0 {
			continue
		}
		flag := KidFlagFalse
		if d.Verdict == menu.VerdictKidFriendly {
			flag = KidFlagTrue
		}
		n := d.Index + 1
		cells = append(cells, ValueRange{
			Range:          ColumnRange(sheet, column, n, n),
			MajorDimension: "ROWS",
			Values:         [][]string{{flag}},
		})
	}
	return cells
}
