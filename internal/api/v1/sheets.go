package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexasparks/6-traits-annotations/internal/rater"
)

// ListAllRows 默认表格的全部行
// GET /api/sheets
func (h *Handler) ListAllRows(c *gin.Context) {
	rows, err := h.review.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errFetchFailed)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListPendingRows 评分员主表中待标注的行
// GET /api/sheets/:rater
func (h *Handler) ListPendingRows(c *gin.Context) {
	h.listPending(c, rater.ScopeMain)
}

// ListIRRRows 评分员 IRR 表中待标注的行（按作文分组）
// GET /api/sheets/:rater/irr
func (h *Handler) ListIRRRows(c *gin.Context) {
	h.listPending(c, rater.ScopeIRR)
}

func (h *Handler) listPending(c *gin.Context, scope rater.Scope) {
	rows, err := h.review.Pending(c.Request.Context(), c.Param("rater"), scope)
	if err != nil {
		h.respondError(c, err, errFetchFailed)
		return
	}
	c.JSON(http.StatusOK, rows)
}
