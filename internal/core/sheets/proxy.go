package sheets

import (
	"context"
	"fmt"
	"strings"

	"menu-ops/internal/pkg/common"
)

// Table 工作表內容，標題列與資料列分開
type Table struct {
	Sheet  string     `json:"sheet"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Proxy 以資料列索引轉發 CRUD 到試算表
type Proxy struct {
	client  *Client
	columns int
}

// NewProxy 創建 CRUD 代理
func NewProxy(client *Client, columns int) *Proxy {
	return &Proxy{client: client, columns: columns}
}

// List 讀取整張工作表
func (p *Proxy) List(ctx context.Context, sheet string) (*Table, error) {
	if err := validateSheet(sheet); err != nil {
		return nil, err
	}

	values, err := p.client.Get(ctx, SheetRange(sheet, p.columns))
	if err != nil {
		return nil, err
	}

	table := &Table{Sheet: sheet, Rows: [][]string{}}
	if len(values) > 0 {
		table.Header = values[0]
		table.Rows = values[HeaderRows:]
	}
	return table, nil
}

// Create 新增一列
func (p *Proxy) Create(ctx context.Context, sheet string, values []string) (*UpdateResponse, error) {
	if err := p.validate(sheet, 0, values); err != nil {
		return nil, err
	}
	return p.client.Append(ctx, AppendRange(sheet, p.columns), [][]string{values})
}

// Replace 覆寫第 row 筆資料列（0 起算，不含標題列）
func (p *Proxy) Replace(ctx context.Context, sheet string, row int, values []string) (*UpdateResponse, error) {
	if err := p.validate(sheet, row, values); err != nil {
		return nil, err
	}
	return p.client.Update(ctx, RowRange(sheet, row, p.columns), [][]string{values})
}

// Delete 清除第 row 筆資料列，不移動其他列
func (p *Proxy) Delete(ctx context.Context, sheet string, row int) error {
	if err := validateSheet(sheet); err != nil {
		return err
	}
	if row < 0 {
		return common.ErrInvalidRow.Wrap(fmt.Errorf("row %d", row))
	}
	return p.client.Clear(ctx, RowRange(sheet, row, p.columns))
}

func (p *Proxy) validate(sheet string, row int, values []string) error {
	if err := validateSheet(sheet); err != nil {
		return err
	}
	if row < 0 {
		return common.ErrInvalidRow.Wrap(fmt.Errorf("row %d", row))
	}
	if len(values) == 0 {
		return common.NewValidationError("values must not be empty")
	}
	if len(values) > p.columns {
		return common.NewValidationError(fmt.Sprintf("too many values: %d > %d columns", len(values), p.columns))
	}
	return nil
}

func validateSheet(sheet string) error {
	if strings.TrimSpace(sheet) == "" {
		return common.NewValidationError("sheet name is required")
	}
	return nil
}
