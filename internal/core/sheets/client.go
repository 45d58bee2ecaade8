package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menu-ops/internal/core/cache"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	valuesPath       = "/v4/spreadsheets/{id}/values/{range}"
	batchUpdatePath  = "/v4/spreadsheets/{id}/values:batchUpdate"
	valueInputOption = "USER_ENTERED"
	cachePrefix      = "sheets:"
	appendSuffix     = ":append"
)

// ValueRange Sheets API 的 values 資源
type ValueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

// UpdateResponse 寫入類 API 的回應
type UpdateResponse struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	UpdatedRange   string `json:"updatedRange"`
	UpdatedRows    int    `json:"updatedRows"`
	UpdatedColumns int    `json:"updatedColumns"`
	UpdatedCells   int    `json:"updatedCells"`
}

type batchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []ValueRange `json:"data"`
}

type batchUpdateResponse struct {
	SpreadsheetID       string           `json:"spreadsheetId"`
	TotalUpdatedRows    int              `json:"totalUpdatedRows"`
	TotalUpdatedColumns int              `json:"totalUpdatedColumns"`
	TotalUpdatedCells   int              `json:"totalUpdatedCells"`
	Responses           []UpdateResponse `json:"responses"`
}

type appendResponse struct {
	SpreadsheetID string         `json:"spreadsheetId"`
	TableRange    string         `json:"tableRange"`
	Updates       UpdateResponse `json:"updates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client Google Sheets values API 客戶端
type Client struct {
	client        *resty.Client
	spreadsheetID string
	cache         cache.Store
}

// NewClient 創建試算表客戶端，cache 可為 nil
func NewClient(cfg *config.SheetsConfig, store cache.Store) (*Client, error) {
	if !cfg.Configured() {
		return nil, common.ErrSheetsNotConfigured
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(300 * time.Millisecond).
		AddRetryCondition(shouldRetry).
		SetHeader("Accept", "application/json").
		SetError(&apiError{})

	if cfg.AccessToken != "" {
		client.SetAuthToken(cfg.AccessToken)
	} else {
		client.SetQueryParam("key", cfg.APIKey)
	}

	return &Client{
		client:        client,
		spreadsheetID: cfg.SpreadsheetID,
		cache:         store,
	}, nil
}

// shouldRetry append 不是冪等操作，重試可能插入重複列
func shouldRetry(r *resty.Response, err error) bool {
	if isAppend(r) {
		return false
	}
	return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
}

func isAppend(r *resty.Response) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodPost {
		return false
	}
	u, err := url.Parse(r.Request.URL)
	if err != nil {
		return strings.Contains(r.Request.URL, appendSuffix)
	}
	return strings.HasSuffix(u.Path, appendSuffix)
}

// Get 讀取範圍內的值，有快取時先查快取
func (c *Client) Get(ctx context.Context, rng string) ([][]string, error) {
	return c.get(ctx, rng, true)
}

// GetFresh 略過快取直接讀取上游，並以結果更新快取
// 回寫前必須用這個讀取，否則列索引可能對應到過期的資料
func (c *Client) GetFresh(ctx context.Context, rng string) ([][]string, error) {
	return c.get(ctx, rng, false)
}

func (c *Client) get(ctx context.Context, rng string, useCache bool) ([][]string, error) {
	key := cachePrefix + rng
	if c.cache != nil && useCache {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			var values [][]string
			if err := common.ParseJSON(cached, &values); err == nil {
				return values, nil
			}
		}
	}

	var vr ValueRange
	start := time.Now()
	resp, err := c.request(ctx, rng).
		SetQueryParam("majorDimension", "ROWS").
		SetResult(&vr).
		Get(valuesPath)
	if err = c.check("get", rng, start, resp, err); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if encoded, err := common.ToJSON(vr.Values); err == nil {
			if err := c.cache.Set(ctx, key, encoded); err != nil {
				common.LogWarn("試算表快取寫入失敗", zap.String("range", rng), zap.Error(err))
			}
		}
	}

	return vr.Values, nil
}

// Update 覆寫範圍內的值
func (c *Client) Update(ctx context.Context, rng string, values [][]string) (*UpdateResponse, error) {
	var out UpdateResponse
	start := time.Now()
	resp, err := c.request(ctx, rng).
		SetQueryParam("valueInputOption", valueInputOption).
		SetBody(ValueRange{Range: rng, MajorDimension: "ROWS", Values: values}).
		SetResult(&out).
		Put(valuesPath)
	if err = c.check("update", rng, start, resp, err); err != nil {
		return nil, err
	}
	c.invalidate(ctx, rng)
	return &out, nil
}

// BatchUpdate 一次覆寫多個不相連的範圍
func (c *Client) BatchUpdate(ctx context.Context, data []ValueRange) (*UpdateResponse, error) {
	if len(data) == 0 {
		return &UpdateResponse{SpreadsheetID: c.spreadsheetID}, nil
	}

	var out batchUpdateResponse
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", c.spreadsheetID).
		SetBody(batchUpdateRequest{ValueInputOption: valueInputOption, Data: data}).
		SetResult(&out).
		Post(batchUpdatePath)
	if err = c.check("batch_update", data[0].Range, start, resp, err); err != nil {
		return nil, err
	}

	sheets := lo.Uniq(lo.Map(data, func(vr ValueRange, _ int) string { return sheetOf(vr.Range) }))
	for _, sheet := range sheets {
		c.invalidate(ctx, sheet)
	}

	return &UpdateResponse{
		SpreadsheetID:  out.SpreadsheetID,
		UpdatedRows:    out.TotalUpdatedRows,
		UpdatedColumns: out.TotalUpdatedColumns,
		UpdatedCells:   out.TotalUpdatedCells,
	}, nil
}

// Append 在表格最後新增資料列
func (c *Client) Append(ctx context.Context, rng string, values [][]string) (*UpdateResponse, error) {
	var out appendResponse
	start := time.Now()
	resp, err := c.request(ctx, rng).
		SetQueryParam("valueInputOption", valueInputOption).
		SetQueryParam("insertDataOption", "INSERT_ROWS").
		SetBody(ValueRange{MajorDimension: "ROWS", Values: values}).
		SetResult(&out).
		Post(valuesPath + appendSuffix)
	if err = c.check("append", rng, start, resp, err); err != nil {
		return nil, err
	}
	c.invalidate(ctx, rng)
	return &out.Updates, nil
}

// Clear 清除範圍內的值（保留格式）
func (c *Client) Clear(ctx context.Context, rng string) error {
	start := time.Now()
	resp, err := c.request(ctx, rng).
		SetBody(map[string]interface{}{}).
		Post(valuesPath + ":clear")
	if err = c.check("clear", rng, start, resp, err); err != nil {
		return err
	}
	c.invalidate(ctx, rng)
	return nil
}

func (c *Client) request(ctx context.Context, rng string) *resty.Request {
	return c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":    c.spreadsheetID,
			"range": rng,
		})
}

// check 統一處理傳輸錯誤與非 2xx 回應
func (c *Client) check(op, rng string, start time.Time, resp *resty.Response, err error) error {
	if err != nil {
		err = common.ErrSheetsUnavailable.Wrap(fmt.Errorf("%s %s: %w", op, rng, err))
	} else if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*apiError); ok && e.Error.Message != "" {
			msg = e.Error.Message
		}
		if resp.StatusCode() == http.StatusNotFound {
			err = common.ErrNotFound.Wrap(fmt.Errorf("%s %s: %s", op, rng, msg))
		} else {
			err = common.ErrSheetsUnavailable.Wrap(fmt.Errorf("%s %s (status %d): %s", op, rng, resp.StatusCode(), msg))
		}
	}
	common.LogUpstreamCall("sheets", op, time.Since(start), err)
	return err
}

// invalidate 寫入後清除同一工作表的讀取快取
func (c *Client) invalidate(ctx context.Context, rng string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, cachePrefix+sheetOf(rng)+"!*"); err != nil {
		common.LogWarn("試算表快取清除失敗", zap.String("range", rng), zap.Error(err))
	}
}

// sheetOf 取出 A1 範圍中的工作表部分（可能含引號）
func sheetOf(rng string) string {
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		return rng[:i]
	}
	return rng
}
