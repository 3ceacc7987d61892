// Package annotate 计算并写入评语标注：原行更新特质，逐句追加派生行。
package annotate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/parser"
	"github.com/alexasparks/6-traits-annotations/internal/rater"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
	"github.com/alexasparks/6-traits-annotations/internal/store"
)

// ErrInvalidRequest 请求内容不合法（标签数与句子数不一致等）
var ErrInvalidRequest = errors.New("invalid annotate request")

// SubmissionLog 提交日志，nil 表示不记录
type SubmissionLog interface {
	CreateSubmission(rater, scope, spreadsheetID, essayID string, commentIDs []string) (string, error)
	FinishSubmission(id string, originalRowsUpdated, newRowsAdded int, status, errorMessage string) error
}

// Service 标注提交服务
type Service struct {
	backend sheets.Backend
	raters  *rater.Directory
	log     SubmissionLog
	logger  *zap.Logger
}

// NewService 创建服务；log 可为 nil
func NewService(backend sheets.Backend, raters *rater.Directory, log SubmissionLog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: backend,
		raters:  raters,
		log:     log,
		logger:  logger,
	}
}

// Submit 提交一篇作文的标注
// 顺序：读取整表 → 解析表头 → 生成计划 → 批量覆盖原行 → 追加派生行。
// 两次写入之间没有原子性，追加失败时提交日志记为 partial。
func (s *Service) Submit(ctx context.Context, raterCode string, scope rater.Scope, req model.AnnotateRequest) (model.AnnotateResult, error) {
	spreadsheetID, err := s.raters.ResolveAnnotate(raterCode, scope)
	if err != nil {
		return model.AnnotateResult{}, err
	}
	for _, lc := range req.LabeledComments {
		if lc.CommentID == "" {
			return model.AnnotateResult{}, fmt.Errorf("%w: comment_id is required", ErrInvalidRequest)
		}
	}

	logger := s.logger.With(
		zap.String("rater", raterCode),
		zap.String("scope", string(scope)),
		zap.String("essay_id", req.EssayID),
	)

	table, err := s.backend.FetchRows(ctx, spreadsheetID)
	if err != nil {
		return model.AnnotateResult{}, fmt.Errorf("fetch rows: %w", err)
	}
	schema, err := parser.ParseHeader(table.Header())
	if err != nil {
		return model.AnnotateResult{}, err
	}

	comments, err := prepareComments(table, schema, req.LabeledComments)
	if err != nil {
		return model.AnnotateResult{}, err
	}

	plan, err := BuildPlan(table, schema, comments)
	if err != nil {
		return model.AnnotateResult{}, err
	}
	if len(plan.Skipped) > 0 {
		logger.Warn("comments not found in sheet", zap.Strings("comment_ids", plan.Skipped))
	}
	if len(plan.UnknownLabels) > 0 {
		logger.Warn("labels do not match any trait", zap.Strings("labels", plan.UnknownLabels))
	}

	submissionID := s.startLog(logger, raterCode, scope, spreadsheetID, req.EssayID, plan.CommentIDs)

	if len(plan.Updates) > 0 {
		if err := s.backend.WriteRows(ctx, spreadsheetID, plan.Updates); err != nil {
			s.finishLog(logger, submissionID, 0, 0, store.StatusFailed, err)
			return model.AnnotateResult{}, fmt.Errorf("update original rows: %w", err)
		}
	}
	if len(plan.Appends) > 0 {
		if err := s.backend.AppendRows(ctx, spreadsheetID, plan.Appends); err != nil {
			s.finishLog(logger, submissionID, len(plan.Updates), 0, store.StatusPartial, err)
			return model.AnnotateResult{}, fmt.Errorf("append sentence rows: %w", err)
		}
	}
	s.finishLog(logger, submissionID, len(plan.Updates), len(plan.Appends), store.StatusCompleted, nil)

	logger.Info("annotations submitted",
		zap.Int("original_rows_updated", len(plan.Updates)),
		zap.Int("new_rows_added", len(plan.Appends)),
	)

	return model.AnnotateResult{
		Success:             true,
		OriginalRowsUpdated: len(plan.Updates),
		NewRowsAdded:        len(plan.Appends),
	}, nil
}

// prepareComments 补齐缺失的句子并校验标签数量
// 没有句子时依次使用请求里的 comment、表中原行的 comment 切句。
func prepareComments(table *sheets.Table, schema *parser.Schema, comments []model.LabeledComment) ([]model.LabeledComment, error) {
	var rows map[string][]string

	out := make([]model.LabeledComment, 0, len(comments))
	for _, lc := range comments {
		if len(lc.Sentences) == 0 {
			text := lc.Comment
			if text == "" {
				if rows == nil {
					rows = make(map[string][]string, len(table.Rows))
					for _, r := range table.Rows[1:] {
						if id := schema.CommentIDOf(r); id != "" {
							if _, ok := rows[id]; !ok {
								rows[id] = r
							}
						}
					}
				}
				if r, ok := rows[lc.CommentID]; ok {
					text = schema.Decode(0, r).Comment
				}
			}
			lc.Sentences = parser.SplitSentences(text)
		}
		if len(lc.Labels) != len(lc.Sentences) {
			return nil, fmt.Errorf("%w: comment %s has %d sentences but %d labels",
				ErrInvalidRequest, lc.CommentID, len(lc.Sentences), len(lc.Labels))
		}
		out = append(out, lc)
	}
	return out, nil
}

func (s *Service) startLog(logger *zap.Logger, raterCode string, scope rater.Scope, spreadsheetID, essayID string, commentIDs []string) string {
	if s.log == nil {
		return ""
	}
	id, err := s.log.CreateSubmission(raterCode, string(scope), spreadsheetID, essayID, commentIDs)
	if err != nil {
		logger.Warn("create submission log failed", zap.Error(err))
		return ""
	}
	return id
}

func (s *Service) finishLog(logger *zap.Logger, id string, updated, added int, status string, cause error) {
	if s.log == nil || id == "" {
		return
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.log.FinishSubmission(id, updated, added, status, msg); err != nil {
		logger.Warn("finish submission log failed", zap.String("submission_id", id), zap.Error(err))
	}
}
