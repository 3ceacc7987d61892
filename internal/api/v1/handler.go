package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexasparks/6-traits-annotations/internal/service/annotate"
	"github.com/alexasparks/6-traits-annotations/internal/service/review"
	"github.com/alexasparks/6-traits-annotations/internal/store"
)

// SubmissionLister 提交日志查询
type SubmissionLister interface {
	ListSubmissions(filter store.SubmissionFilter) ([]store.Submission, error)
}

// Handler V1 API 处理器
type Handler struct {
	review      *review.Service
	annotate    *annotate.Service
	submissions SubmissionLister
	logger      *zap.Logger
}

// NewHandler 创建 V1 API 处理器；submissions 可为 nil
func NewHandler(reviewSvc *review.Service, annotateSvc *annotate.Service, submissions SubmissionLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		review:      reviewSvc,
		annotate:    annotateSvc,
		submissions: submissions,
		logger:      logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	// 表格读取
	router.GET("/sheets", h.ListAllRows)
	router.GET("/sheets/:rater", h.ListPendingRows)
	router.GET("/sheets/:rater/irr", h.ListIRRRows)

	// 标注提交
	router.PUT("/sheets/:rater/annotate", h.Annotate)
	router.PUT("/sheets/:rater/irr/annotate", h.AnnotateIRR)

	// 已标注行导出
	router.GET("/sheets/:rater/export", h.Export)

	// 断句
	router.POST("/split", h.Split)

	// 评分员进度与提交日志
	router.GET("/raters", h.ListRaters)
	router.GET("/submissions", h.ListSubmissions)
}
