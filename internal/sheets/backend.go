// Package sheets 定义表格存储边界：读取整表、批量覆盖行、追加行。
// 具体存储（Google Sheets、本地 xlsx、内存）均实现 Backend。
package sheets

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// DefaultReadRange 读取范围（不含工作表名）
const DefaultReadRange = "A:Z"

// Table 工作表内容，Rows[0] 为表头
type Table struct {
	SheetName string
	Rows      [][]string
}

// Header 返回表头（空表返回 nil）
func (t *Table) Header() []string {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// RowUpdate 覆盖写入一行，Row 为 0 起的行号（含表头）
type RowUpdate struct {
	Row    int
	Values []string
}

// Backend 表格存储后端
type Backend interface {
	// FetchRows 读取第一个工作表的全部行
	FetchRows(ctx context.Context, spreadsheetID string) (*Table, error)
	// WriteRows 批量覆盖已有行
	WriteRows(ctx context.Context, spreadsheetID string, updates []RowUpdate) error
	// AppendRows 在表尾追加行
	AppendRows(ctx context.Context, spreadsheetID string, rows [][]string) error
}

// A1Range 拼接带工作表名的 A1 范围，工作表名按需加引号
func A1Range(sheetName, rng string) string {
	if sheetName == "" {
		return rng
	}
	quoted := sheetName
	if strings.IndexFunc(sheetName, needsQuote) >= 0 {
		quoted = "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
	}
	return fmt.Sprintf("%s!%s", quoted, rng)
}

func needsQuote(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// RowRange 返回单行覆盖范围，row 为 0 起的行号，如 A3:O3
func RowRange(row, width int) (string, error) {
	if width <= 0 {
		width = 1
	}
	first, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return "", err
	}
	last, err := excelize.CoordinatesToCellName(width, row+1)
	if err != nil {
		return "", err
	}
	return first + ":" + last, nil
}
