package annotate

import (
	"fmt"
	"strings"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/parser"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

// Reconciled 单条评语的标注结果
type Reconciled struct {
	Parent        model.CommentRecord
	Derived       []model.CommentRecord
	UnknownLabels []string
}

// DerivedID 派生行 ID：{parent}_{n}，n 从 1 开始
func DerivedID(parentID string, index int) string {
	return fmt.Sprintf("%s_%d", parentID, index+1)
}

// ReconcileComment 由逐句标签计算原行更新与派生行
//
// 原行：六项特质中出现在 labels 中的置 "1"，其余置 "0"。
// 派生行：复制更新后的原行，comment 替换为去空白的句子，
// 特质全部重置后只置该句的标签。
// 未知标签不报错，只是不设置任何特质；labels 短于 sentences 时缺失部分按未知处理。
func ReconcileComment(parent model.CommentRecord, sentences, labels []string) Reconciled {
	traits, unknown := model.TraitSetFromLabels(labels)

	updated := parent.Clone()
	updated.Traits = traits

	derived := make([]model.CommentRecord, 0, len(sentences))
	for i, sentence := range sentences {
		child := updated.Clone()
		child.CommentID = DerivedID(parent.CommentID, i)
		child.Comment = strings.TrimSpace(sentence)
		child.Traits = 0
		if i < len(labels) {
			if t, ok := model.ParseTrait(labels[i]); ok {
				child.Traits = child.Traits.With(t)
			}
		} else {
			unknown = append(unknown, "")
		}
		derived = append(derived, child)
	}

	return Reconciled{
		Parent:        updated,
		Derived:       derived,
		UnknownLabels: unknown,
	}
}

// Plan 一次提交需要执行的写入
type Plan struct {
	Updates       []sheets.RowUpdate
	Appends       [][]string
	CommentIDs    []string // 找到原行的评语
	Skipped       []string // 未找到原行的评语
	UnknownLabels []string
}

// BuildPlan 在表中定位每条评语的原行并生成写入计划
// 找不到原行的评语跳过，不视为错误。
func BuildPlan(table *sheets.Table, schema *parser.Schema, comments []model.LabeledComment) (*Plan, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("sheet has no header row")
	}

	// comment_id → 首次出现的行号，表头不参与
	index := make(map[string]int, len(table.Rows))
	for i := 1; i < len(table.Rows); i++ {
		id := schema.CommentIDOf(table.Rows[i])
		if id == "" {
			continue
		}
		if _, ok := index[id]; !ok {
			index[id] = i
		}
	}

	plan := &Plan{}
	for _, lc := range comments {
		row, ok := index[lc.CommentID]
		if !ok {
			plan.Skipped = append(plan.Skipped, lc.CommentID)
			continue
		}

		parent := schema.Decode(row, table.Rows[row])
		result := ReconcileComment(parent, lc.Sentences, lc.Labels)

		plan.Updates = append(plan.Updates, sheets.RowUpdate{
			Row:    row,
			Values: schema.Encode(result.Parent),
		})
		for _, child := range result.Derived {
			plan.Appends = append(plan.Appends, schema.Encode(child))
		}
		plan.CommentIDs = append(plan.CommentIDs, lc.CommentID)
		plan.UnknownLabels = append(plan.UnknownLabels, result.UnknownLabels...)
	}
	return plan, nil
}
