package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/rater"
)

// Annotate 提交主表标注
// PUT /api/sheets/:rater/annotate
func (h *Handler) Annotate(c *gin.Context) {
	h.submit(c, rater.ScopeMain)
}

// AnnotateIRR 提交 IRR 表标注
// PUT /api/sheets/:rater/irr/annotate
func (h *Handler) AnnotateIRR(c *gin.Context) {
	h.submit(c, rater.ScopeIRR)
}

func (h *Handler) submit(c *gin.Context, scope rater.Scope) {
	var req model.AnnotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result, err := h.annotate.Submit(c.Request.Context(), c.Param("rater"), scope, req)
	if err != nil {
		h.respondError(c, err, errInternal)
		return
	}
	c.JSON(http.StatusOK, result)
}
