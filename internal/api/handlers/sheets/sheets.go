package sheets

import (
	"fmt"
	"net/http"
	"strconv"

	"menu-ops/internal/api/handlers"
	"menu-ops/internal/core/sheets"
	"menu-ops/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RowRequest 新增或覆寫一列的請求
type RowRequest struct {
	Values []string `json:"values"`
}

// Handler 試算表 CRUD 代理處理程序
type Handler struct {
	proxy *sheets.Proxy
}

// NewHandler 創建代理處理程序，proxy 為 nil 時所有請求回 503
func NewHandler(proxy *sheets.Proxy) *Handler {
	return &Handler{proxy: proxy}
}

// HandleList 讀取整張工作表
func (h *Handler) HandleList(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	table, err := h.proxy.List(c.Request.Context(), c.Param("sheet"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// HandleCreate 在工作表最後新增一列
func (h *Handler) HandleCreate(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req RowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	resp, err := h.proxy.Create(c.Request.Context(), c.Param("sheet"), req.Values)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	h.logWrite(c, "create", resp)
	c.JSON(http.StatusCreated, resp)
}

// HandleReplace 覆寫指定資料列
func (h *Handler) HandleReplace(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	row, ok := rowParam(c)
	if !ok {
		return
	}
	var req RowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	resp, err := h.proxy.Replace(c.Request.Context(), c.Param("sheet"), row, req.Values)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	h.logWrite(c, "replace", resp)
	c.JSON(http.StatusOK, resp)
}

// HandleDelete 清除指定資料列
func (h *Handler) HandleDelete(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	row, ok := rowParam(c)
	if !ok {
		return
	}

	if err := h.proxy.Delete(c.Request.Context(), c.Param("sheet"), row); err != nil {
		handlers.RespondError(c, err)
		return
	}
	h.logWrite(c, "delete", nil)
	c.JSON(http.StatusOK, gin.H{
		"sheet": c.Param("sheet"),
		"row":   row,
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.proxy == nil {
		handlers.RespondError(c, common.ErrSheetsNotConfigured)
		return false
	}
	return true
}

func (h *Handler) logWrite(c *gin.Context, op string, resp *sheets.UpdateResponse) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("sheet", c.Param("sheet")),
		zap.String("request_id", requestid.Get(c)),
	}
	if resp != nil {
		fields = append(fields, zap.String("range", resp.UpdatedRange))
	}
	common.LogInfo("試算表已更新", fields...)
}

// rowParam 解析路徑中的資料列索引（0 起算，不含標題列）
func rowParam(c *gin.Context) (int, bool) {
	raw := c.Param("row")
	row, err := strconv.Atoi(raw)
	if err != nil || row < 0 {
		handlers.RespondError(c, common.ErrInvalidRow.Wrap(fmt.Errorf("row %q", raw)))
		return 0, false
	}
	return row, true
}
