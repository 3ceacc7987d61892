package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/alexasparks/6-traits-annotations/internal/rater"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export 导出评分员表格中已标注的派生行
// GET /api/sheets/:rater/export?scope=irr
func (h *Handler) Export(c *gin.Context) {
	code := c.Param("rater")
	scope := rater.ScopeMain
	if c.Query("scope") == string(rater.ScopeIRR) {
		scope = rater.ScopeIRR
	}

	rows, err := h.review.Labeled(c.Request.Context(), code, scope)
	if err != nil {
		h.respondError(c, err, errFetchFailed)
		return
	}

	var buf bytes.Buffer
	if err := sheets.WriteWorkbook(&buf, "Labeled", rows); err != nil {
		h.respondError(c, err, errInternal)
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(code, scope))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func buildExportContentDisposition(code string, scope rater.Scope) string {
	name := fmt.Sprintf("rater-%s-%s-labeled.xlsx", code, scope)
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", name, url.PathEscape(name))
}
