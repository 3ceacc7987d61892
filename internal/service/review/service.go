// Package review 提供读取侧的行筛选：待标注行、IRR 按作文分组、标注进度。
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexasparks/6-traits-annotations/internal/parser"
	"github.com/alexasparks/6-traits-annotations/internal/rater"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

// summaryConcurrency 并发拉取评分员表格的上限
const summaryConcurrency = 4

// Service 读取服务
type Service struct {
	backend sheets.Backend
	raters  *rater.Directory
	logger  *zap.Logger
}

// NewService 创建读取服务
func NewService(backend sheets.Backend, raters *rater.Directory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, raters: raters, logger: logger}
}

// All 默认表格的全部行（不筛选）
func (s *Service) All(ctx context.Context) ([][]string, error) {
	id, err := s.raters.DefaultSpreadsheetID()
	if err != nil {
		return nil, err
	}
	table, err := s.backend.FetchRows(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	return table.Rows, nil
}

// Pending 评分员的待标注行；IRR 范围按作文分组
func (s *Service) Pending(ctx context.Context, code string, scope rater.Scope) ([][]string, error) {
	rows, schema, err := s.load(ctx, code, scope)
	if err != nil {
		return nil, err
	}
	pending := Pending(rows, schema)
	if scope == rater.ScopeIRR {
		pending = GroupByEssay(pending, schema)
	}
	return pending, nil
}

// Labeled 评分员表格中的表头与派生行（导出用）
func (s *Service) Labeled(ctx context.Context, code string, scope rater.Scope) ([][]string, error) {
	rows, schema, err := s.load(ctx, code, scope)
	if err != nil {
		return nil, err
	}
	return Derived(rows, schema), nil
}

// RaterSummary 评分员标注进度
type RaterSummary struct {
	Rater    string `json:"rater"`
	ReadOnly bool   `json:"readOnly"`
	Summary
	Error string `json:"error,omitempty"`
}

// Summaries 并发统计所有评分员主表的进度
// 单个表格失败只记录在对应条目中，不影响其他评分员。
func (s *Service) Summaries(ctx context.Context) ([]RaterSummary, error) {
	entries := s.raters.Entries()
	out := make([]RaterSummary, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)
	for i, e := range entries {
		i, e := i, e
		out[i] = RaterSummary{Rater: e.Code, ReadOnly: e.ReadOnly}
		g.Go(func() error {
			rows, schema, err := s.load(gctx, e.Code, rater.ScopeMain)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("rater summary failed", zap.String("rater", e.Code), zap.Error(err))
				out[i].Error = err.Error()
				return nil
			}
			out[i].Summary = Summarize(rows, schema)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, code string, scope rater.Scope) ([][]string, *parser.Schema, error) {
	id, err := s.raters.ResolveRead(code, scope)
	if err != nil {
		return nil, nil, err
	}
	table, err := s.backend.FetchRows(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch rows: %w", err)
	}
	schema, err := parser.ParseHeader(table.Header())
	if err != nil {
		return nil, nil, err
	}
	return table.Rows, schema, nil
}
