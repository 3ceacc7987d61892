package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/store"
)

const (
	defaultSubmissionLimit = 50
	maxSubmissionLimit     = 500
)

// Health 存活检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRaters 各评分员的标注进度
// GET /api/raters
func (h *Handler) ListRaters(c *gin.Context) {
	summaries, err := h.review.Summaries(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errFetchFailed)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// ListSubmissions 提交日志
// GET /api/submissions?rater=&limit=
func (h *Handler) ListSubmissions(c *gin.Context) {
	limit := defaultSubmissionLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: errInvalidRequest, Details: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxSubmissionLimit {
		limit = maxSubmissionLimit
	}

	if h.submissions == nil {
		c.JSON(http.StatusOK, []store.Submission{})
		return
	}

	list, err := h.submissions.ListSubmissions(store.SubmissionFilter{
		Rater: c.Query("rater"),
		Limit: limit,
	})
	if err != nil {
		h.respondError(c, err, errInternal)
		return
	}
	c.JSON(http.StatusOK, list)
}
