package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexasparks/6-traits-annotations/internal/model"
)

// MissingColumnsError 表头缺少必需列
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("header is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Schema 表头列索引
type Schema struct {
	headers   []string
	commentID int
	comment   int
	essayID   int // -1 表示不存在
	excerpt   int // -1 表示不存在
	traits    map[model.Trait]int
}

// ParseHeader 按列名定位列（去除首尾空白后精确匹配，区分大小写）
// 必需列：comment_id、comment 以及六项特质列
func ParseHeader(headers []string) (*Schema, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		name := NormalizeColumnName(h)
		if name == "" {
			continue
		}
		// 重名列以第一次出现为准
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	lookup := func(name string) int {
		if idx, ok := index[name]; ok {
			return idx
		}
		return -1
	}

	s := &Schema{
		headers:   append([]string(nil), headers...),
		commentID: lookup(model.ColumnCommentID),
		comment:   lookup(model.ColumnComment),
		essayID:   lookup(model.ColumnEssayID),
		excerpt:   lookup(model.ColumnExcerpt),
		traits:    make(map[model.Trait]int, len(model.Traits)),
	}

	var missing []string
	if s.commentID < 0 {
		missing = append(missing, model.ColumnCommentID)
	}
	if s.comment < 0 {
		missing = append(missing, model.ColumnComment)
	}
	for _, t := range model.Traits {
		idx := lookup(t.Column())
		if idx < 0 {
			missing = append(missing, t.Column())
			continue
		}
		s.traits[t] = idx
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return s, nil
}

// Headers 返回表头副本
func (s *Schema) Headers() []string {
	return append([]string(nil), s.headers...)
}

// Width 表头宽度（列数）
func (s *Schema) Width() int {
	return len(s.headers)
}

// LastColumn 返回最后一列的 A1 列名
func (s *Schema) LastColumn() string {
	name, err := excelize.ColumnNumberToName(s.Width())
	if err != nil {
		return "A"
	}
	return name
}

// TraitColumn 返回特质列索引
func (s *Schema) TraitColumn(t model.Trait) int {
	return s.traits[t]
}

// CommentIDOf 读取行的 comment_id（越界返回空）
func (s *Schema) CommentIDOf(cells []string) string {
	return cell(cells, s.commentID)
}

// EssayIDOf 读取行的 essay_id（无该列返回空）
func (s *Schema) EssayIDOf(cells []string) string {
	return cell(cells, s.essayID)
}

// Decode 解码一行
func (s *Schema) Decode(row int, cells []string) model.CommentRecord {
	padded := s.pad(cells)

	var traits model.TraitSet
	for _, t := range model.Traits {
		if model.ParseFlag(padded[s.traits[t]]) {
			traits = traits.With(t)
		}
	}

	return model.CommentRecord{
		Row:       row,
		CommentID: cell(padded, s.commentID),
		EssayID:   cell(padded, s.essayID),
		Excerpt:   cell(padded, s.excerpt),
		Comment:   cell(padded, s.comment),
		Traits:    traits,
		Cells:     padded,
	}
}

// Encode 编码为单元格；未建模的列保留原值，六项特质统一写成 "0"/"1"
func (s *Schema) Encode(rec model.CommentRecord) []string {
	out := s.pad(rec.Cells)
	out[s.commentID] = rec.CommentID
	out[s.comment] = rec.Comment
	if s.essayID >= 0 {
		out[s.essayID] = rec.EssayID
	}
	if s.excerpt >= 0 {
		out[s.excerpt] = rec.Excerpt
	}
	for _, t := range model.Traits {
		out[s.traits[t]] = rec.Traits.Flag(t)
	}
	return out
}

// pad 复制并补齐到表头宽度；超出表头的单元格保留
func (s *Schema) pad(cells []string) []string {
	width := len(s.headers)
	if len(cells) > width {
		width = len(cells)
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
