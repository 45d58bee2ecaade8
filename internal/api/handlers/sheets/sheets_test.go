package sheets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"menu-ops/internal/core/sheets"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// upstream 模擬 Sheets values API，記錄最後一次請求路徑
type upstream struct {
	mu     sync.Mutex
	method string
	path   string
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.method = r.Method
	u.path = r.URL.Path
	u.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"values":[["번호","분류","메뉴명"],["1","국","미역국"]]}`))
	case strings.HasSuffix(r.URL.Path, ":append"):
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"메뉴DB!A3:C3","updatedRows":1}}`))
	case strings.HasSuffix(r.URL.Path, ":clear"):
		_, _ = w.Write([]byte(`{}`))
	default:
		_, _ = w.Write([]byte(`{"updatedRange":"메뉴DB!A2:C2","updatedRows":1}`))
	}
}

func (u *upstream) last() (string, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.method, u.path
}

func newTestRouter(t *testing.T) (*gin.Engine, *upstream) {
	t.Helper()
	up := &upstream{}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	client, err := sheets.NewClient(&config.SheetsConfig{
		BaseURL:       srv.URL,
		SpreadsheetID: "sid",
		APIKey:        "key",
		Timeout:       5 * time.Second,
	}, nil)
	require.NoError(t, err)

	h := NewHandler(sheets.NewProxy(client, 3))
	r := gin.New()
	r.GET("/sheets/:sheet", h.HandleList)
	r.POST("/sheets/:sheet", h.HandleCreate)
	r.PUT("/sheets/:sheet/:row", h.HandleReplace)
	r.DELETE("/sheets/:sheet/:row", h.HandleDelete)
	return r, up
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	r, up := newTestRouter(t)

	w := do(r, http.MethodGet, "/sheets/메뉴DB", "")
	require.Equal(t, http.StatusOK, w.Code)

	var table sheets.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, []string{"번호", "분류", "메뉴명"}, table.Header)
	assert.Equal(t, [][]string{{"1", "국", "미역국"}}, table.Rows)
	_, path := up.last()
	assert.Equal(t, "/v4/spreadsheets/sid/values/메뉴DB!A:C", path)
}

func TestHandleCreateReplaceDelete(t *testing.T) {
	r, up := newTestRouter(t)

	w := do(r, http.MethodPost, "/sheets/메뉴DB", `{"values":["2","메인","돈까스"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	_, path := up.last()
	assert.True(t, strings.HasSuffix(path, ":append"))

	w = do(r, http.MethodPut, "/sheets/메뉴DB/0", `{"values":["1","국","떡국"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	method, path := up.last()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/v4/spreadsheets/sid/values/메뉴DB!A2:C2", path)

	w = do(r, http.MethodDelete, "/sheets/메뉴DB/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	_, path = up.last()
	assert.Equal(t, "/v4/spreadsheets/sid/values/메뉴DB!A3:C3:clear", path)
}

func TestHandleValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/sheets/메뉴DB/abc", `{"values":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrInvalidRow.Code)

	w = do(r, http.MethodPost, "/sheets/메뉴DB", `{"values":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "values must not be empty")

	w = do(r, http.MethodPost, "/sheets/메뉴DB", `{"values":["1","2","3","4"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerWithoutProxy(t *testing.T) {
	h := NewHandler(nil)
	r := gin.New()
	r.GET("/sheets/:sheet", h.HandleList)

	w := do(r, http.MethodGet, "/sheets/메뉴DB", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
