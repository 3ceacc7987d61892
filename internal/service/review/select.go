package review

import (
	"strings"

	"github.com/alexasparks/6-traits-annotations/internal/parser"
)

// parentOf 派生行 ID 形如 {parent}_{n}，返回 parent；不是该形式时返回 false
func parentOf(id string) (string, bool) {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || i == len(id)-1 {
		return "", false
	}
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id[:i], true
}

// index 表中 comment_id 集合，以及已有派生行的原行集合
type index struct {
	ids      map[string]struct{}
	children map[string]int
}

func buildIndex(rows [][]string, schema *parser.Schema) index {
	idx := index{
		ids:      make(map[string]struct{}, len(rows)),
		children: make(map[string]int),
	}
	for _, row := range body(rows) {
		if id := schema.CommentIDOf(row); id != "" {
			idx.ids[id] = struct{}{}
		}
	}
	for id := range idx.ids {
		if p, ok := parentOf(id); ok {
			if _, exists := idx.ids[p]; exists {
				idx.children[p]++
			}
		}
	}
	return idx
}

// isDerived 原行存在于表中的 {parent}_{n} 行
func (idx index) isDerived(id string) bool {
	p, ok := parentOf(id)
	if !ok {
		return false
	}
	_, exists := idx.ids[p]
	return exists
}

func body(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// Pending 返回表头加待标注的原行
// 去掉空行、派生行，以及已经有派生行的原行。
func Pending(rows [][]string, schema *parser.Schema) [][]string {
	if len(rows) == 0 {
		return [][]string{}
	}
	idx := buildIndex(rows, schema)

	out := [][]string{rows[0]}
	for _, row := range body(rows) {
		if parser.IsBlankRow(row) {
			continue
		}
		id := schema.CommentIDOf(row)
		if idx.isDerived(id) || idx.children[id] > 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Derived 返回表头加全部派生行
func Derived(rows [][]string, schema *parser.Schema) [][]string {
	if len(rows) == 0 {
		return [][]string{}
	}
	idx := buildIndex(rows, schema)

	out := [][]string{rows[0]}
	for _, row := range body(rows) {
		if idx.isDerived(schema.CommentIDOf(row)) {
			out = append(out, row)
		}
	}
	return out
}

// GroupByEssay 按 essay_id 归组：作文按首次出现排序，组内保持原顺序
func GroupByEssay(rows [][]string, schema *parser.Schema) [][]string {
	if len(rows) == 0 {
		return [][]string{}
	}

	var order []string
	groups := make(map[string][][]string)
	for _, row := range body(rows) {
		essay := schema.EssayIDOf(row)
		if _, ok := groups[essay]; !ok {
			order = append(order, essay)
		}
		groups[essay] = append(groups[essay], row)
	}

	out := make([][]string, 0, len(rows))
	out = append(out, rows[0])
	for _, essay := range order {
		out = append(out, groups[essay]...)
	}
	return out
}

// Summary 单张表的标注进度
type Summary struct {
	Parents int `json:"parents"`
	Pending int `json:"pending"`
	Labeled int `json:"labeled"`
	Derived int `json:"derived"`
}

// Summarize 统计原行、待标注、已标注与派生行数量
func Summarize(rows [][]string, schema *parser.Schema) Summary {
	idx := buildIndex(rows, schema)

	var s Summary
	for _, row := range body(rows) {
		if parser.IsBlankRow(row) {
			continue
		}
		id := schema.CommentIDOf(row)
		if idx.isDerived(id) {
			s.Derived++
			continue
		}
		s.Parents++
		if idx.children[id] > 0 {
			s.Labeled++
		} else {
			s.Pending++
		}
	}
	return s
}
