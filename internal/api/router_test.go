package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"menu-ops/internal/core/menu"
	"menu-ops/internal/core/sheets"
	"menu-ops/internal/core/tagging"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSheet struct {
	rows   [][]string
	writes int
}

func (s *stubSheet) Name() string { return "메뉴DB" }

func (s *stubSheet) Load(ctx context.Context) ([][]string, error) {
	return s.rows, nil
}

func (s *stubSheet) LoadFresh(ctx context.Context) ([][]string, error) {
	return s.rows, nil
}

func (s *stubSheet) WriteKidFriendly(ctx context.Context, result *menu.Result) (*sheets.UpdateResponse, error) {
	s.writes++
	return &sheets.UpdateResponse{UpdatedRange: "메뉴DB!L2:L3", UpdatedCells: len(result.Decisions)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Debug: true, Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
			AllowOrigins:   []string{"*"},
		},
		Sheets:      config.SheetsConfig{MenuSheet: "메뉴DB", Columns: 12, KidColumn: 11},
		Classify:    config.ClassifyConfig{Workers: 2, MaxBatches: 2},
		DedupWindow: time.Minute,
	}
}

func newTestRouter(t *testing.T, sheet tagging.MenuSheet) *gin.Engine {
	t.Helper()
	svc := tagging.NewService(sheet, nil, 2)
	router, err := SetupRouter(testConfig(), Services{Tagging: svc})
	require.NoError(t, err)
	return router
}

func perform(router *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSetupRouterRequiresTagging(t *testing.T) {
	_, err := SetupRouter(testConfig(), Services{})
	assert.Error(t, err)
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	w := perform(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"test"`)
	assert.Contains(t, w.Body.String(), `"configured":false`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = perform(router, http.MethodGet, "/live", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sheets_configured":false`)
}

func TestClassifyJSON(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"records":[
		{"category":"메인","name":"돈까스","code":"A1"},
		{"category":"국","name":"육개장","code":"A2"},
		{"category":"반찬","name":"청양고추무침","code":"A3","spicy":true},
		{"category":"디저트","name":"푸딩","code":"A4"}
	]}`
	w := perform(router, http.MethodPost, "/api/v1/menu/classify", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result  menu.Result  `json:"result"`
		Summary menu.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, menu.Summary{Total: 3, KidFriendly: 1, Pending: 1, Spicy: 1}, resp.Summary)
	assert.Equal(t, []string{"돈까스"}, resp.Result.KidFriendly[menu.CategoryMain])
	assert.Equal(t, []string{"육개장"}, resp.Result.NotKidFriendly[menu.CategorySoup])
}

func TestClassifyCSVText(t *testing.T) {
	router := newTestRouter(t, nil)

	csv := "번호,분류,메뉴명,,코드,,,,,미사용,매운맛\n" +
		"1,메인,\"치즈 돈까스, 소스\",,A1,,,,,FALSE,FALSE\n" +
		"2,반찬,김치,,A2,,,,,FALSE,FALSE\n"
	w := perform(router, http.MethodPost, "/api/v1/menu/classify?format=text", "text/csv", csv)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "=== 아이 메뉴 (1) ===")
	assert.Contains(t, body, "  - 치즈 돈까스, 소스")
	assert.Contains(t, body, "=== 미분류 메뉴 (1) ===")
	assert.Contains(t, body, "총 2개: 아이 메뉴 1개 / 미분류 1개 / 매운 메뉴 제외 0개")
}

func TestClassifyInvalidJSON(t *testing.T) {
	router := newTestRouter(t, nil)

	w := perform(router, http.MethodPost, "/api/v1/menu/classify", "application/json", `{"records":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.ErrCodeInvalidRequest, decodeError(t, w).Code)
}

func TestClassifyBatch(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"batches":[
		{"records":[{"category":"메인","name":"돈까스","code":"A1"}]},
		{"rows":[["1","국","육개장","","B1"]]}
	]}`
	w := perform(router, http.MethodPost, "/api/v1/menu/classify/batch", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			Summary menu.Summary `json:"summary"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].Summary.KidFriendly)
	assert.Equal(t, 1, resp.Results[1].Summary.Pending)
}

func TestClassifyBatchLimits(t *testing.T) {
	router := newTestRouter(t, nil)

	w := perform(router, http.MethodPost, "/api/v1/menu/classify/batch", "application/json", `{"batches":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, "/api/v1/menu/classify/batch", "application/json", `{"batches":[{},{},{}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "too many batches")
}

func TestKidFriendlyWithoutSheet(t *testing.T) {
	router := newTestRouter(t, nil)

	w := perform(router, http.MethodGet, "/api/v1/menu/kid-friendly", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, common.ErrSheetsNotConfigured.Code, decodeError(t, w).Code)

	w = perform(router, http.MethodGet, "/api/v1/sheets/메뉴DB", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestKidFriendlyPreviewAndSync(t *testing.T) {
	sheet := &stubSheet{rows: [][]string{
		{"번호", "분류", "메뉴명", "", "코드"},
		{"1", "메인", "돈까스", "", "A1"},
		{"2", "국", "육개장", "", "A2"},
	}}
	router := newTestRouter(t, sheet)

	w := perform(router, http.MethodGet, "/api/v1/menu/kid-friendly?format=text", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "총 2개")
	assert.Zero(t, sheet.writes)

	w = perform(router, http.MethodPost, "/api/v1/menu/kid-friendly/sync", "application/json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out tagging.SyncResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "메뉴DB!L2:L3", out.UpdatedRange)
	assert.Equal(t, 1, out.Summary.KidFriendly)

	// 時間窗內重複同步會被擋下
	w = perform(router, http.MethodPost, "/api/v1/menu/kid-friendly/sync", "application/json", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, sheet.writes)
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	router, err := SetupRouter(cfg, Services{Tagging: tagging.NewService(nil, nil, 1)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/menu/classify", bytes.NewReader(make([]byte, 64)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
