package menu

import (
	"fmt"
	"net/http"

	"menu-ops/internal/api/handlers"
	"menu-ops/internal/core/menu"
	"menu-ops/internal/core/tagging"
	"menu-ops/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contentTypeCSV = "text/csv"
	formatText     = "text"
)

// ClassifyRequest 分類請求，records 與 rows 擇一或並用
// rows 為試算表原始列，依欄位位置解析
type ClassifyRequest struct {
	Records []menu.MenuRecord `json:"records"`
	Rows    [][]string        `json:"rows"`
}

func (r ClassifyRequest) toRecords() []menu.MenuRecord {
	records := make([]menu.MenuRecord, 0, len(r.Records)+len(r.Rows))
	records = append(records, r.Records...)
	return append(records, menu.FromRows(r.Rows)...)
}

// BatchRequest 多批次分類請求
type BatchRequest struct {
	Batches []ClassifyRequest `json:"batches"`
}

// ClassifyResponse 分類結果與統計
type ClassifyResponse struct {
	Result  *menu.Result `json:"result"`
	Summary menu.Summary `json:"summary"`
}

// BatchResponse 多批次分類結果，順序與請求相同
type BatchResponse struct {
	Results []ClassifyResponse `json:"results"`
}

// Handler 菜單分類處理程序
type Handler struct {
	service    *tagging.Service
	maxBatches int
}

// NewHandler 創建菜單分類處理程序
func NewHandler(service *tagging.Service, maxBatches int) *Handler {
	return &Handler{
		service:    service,
		maxBatches: maxBatches,
	}
}

// HandleClassify 分類請求內的菜色
// 接受 JSON 或 text/csv，?format=text 回傳純文字報表
func (h *Handler) HandleClassify(c *gin.Context) {
	var records []menu.MenuRecord

	if c.ContentType() == contentTypeCSV {
		parsed, err := menu.ReadRecords(c.Request.Body)
		if err != nil {
			handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
			return
		}
		records = parsed
	} else {
		var req ClassifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
			return
		}
		records = req.toRecords()
	}

	common.LogInfo("開始處理菜單分類請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("records", len(records)),
	)

	h.respond(c, h.service.Classify(records))
}

// HandleClassifyBatch 平行分類多個互不相關的批次
func (h *Handler) HandleClassifyBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if len(req.Batches) == 0 {
		handlers.RespondError(c, common.NewValidationError("batches must not be empty"))
		return
	}
	if h.maxBatches > 0 && len(req.Batches) > h.maxBatches {
		handlers.RespondError(c, common.NewValidationError(
			fmt.Sprintf("too many batches: %d > %d", len(req.Batches), h.maxBatches)))
		return
	}

	batches := make([][]menu.MenuRecord, len(req.Batches))
	for i, b := range req.Batches {
		batches[i] = b.toRecords()
	}

	results, err := h.service.ClassifyBatches(c.Request.Context(), batches)
	if err != nil {
		handlers.RespondError(c, common.ErrRequestTimeout.Wrap(err))
		return
	}

	resp := BatchResponse{Results: make([]ClassifyResponse, len(results))}
	for i, r := range results {
		resp.Results[i] = ClassifyResponse{Result: r, Summary: r.Summary()}
	}
	c.JSON(http.StatusOK, resp)
}

// HandlePreview 讀取菜單工作表並回傳分類結果，不回寫
func (h *Handler) HandlePreview(c *gin.Context) {
	result, err := h.service.Preview(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	h.respond(c, result)
}

// HandleSync 分類後回寫兒童菜欄位
func (h *Handler) HandleSync(c *gin.Context) {
	common.LogInfo("開始同步兒童菜欄位",
		zap.String("request_id", requestid.Get(c)),
		zap.String("client_ip", c.ClientIP()),
	)

	out, err := h.service.Sync(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) respond(c *gin.Context, result *menu.Result) {
	if c.Query("format") == formatText {
		c.String(http.StatusOK, result.Report())
		return
	}
	c.JSON(http.StatusOK, ClassifyResponse{
		Result:  result,
		Summary: result.Summary(),
	})
}
