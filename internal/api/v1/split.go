package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/parser"
)

// SplitRequest 断句请求
type SplitRequest struct {
	Text string `json:"text"`
}

// SplitResponse 断句结果
type SplitResponse struct {
	Sentences []string `json:"sentences"`
}

// Split 评语断句
// POST /api/split
func (h *Handler) Split(c *gin.Context) {
	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SplitResponse{Sentences: parser.SplitSentences(req.Text)})
}
