package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXBackend 本地 xlsx 工作簿存储，表格 ID 对应 {dir}/{id}.xlsx
type XLSXBackend struct {
	dir string
	mu  sync.Mutex
}

// NewXLSXBackend 创建 xlsx 存储
func NewXLSXBackend(dir string) (*XLSXBackend, error) {
	if dir == "" {
		return nil, newError(KindConfiguration, "init", "", errors.New("xlsx directory is required"))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, newError(KindConfiguration, "init", "", fmt.Errorf("create xlsx directory: %w", err))
	}
	return &XLSXBackend{dir: dir}, nil
}

// Path 返回表格 ID 对应的文件路径
func (b *XLSXBackend) Path(spreadsheetID string) (string, error) {
	if spreadsheetID == "" || strings.ContainsAny(spreadsheetID, `/\`) || strings.Contains(spreadsheetID, "..") {
		return "", fmt.Errorf("invalid spreadsheet id %q", spreadsheetID)
	}
	return filepath.Join(b.dir, spreadsheetID+".xlsx"), nil
}

// FetchRows 读取第一个工作表
func (b *XLSXBackend) FetchRows(ctx context.Context, spreadsheetID string) (*Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, sheet, err := b.open(ctx, "fetch", spreadsheetID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, newError(KindBackend, "fetch", spreadsheetID, fmt.Errorf("read rows: %w", err))
	}
	return &Table{SheetName: sheet, Rows: rows}, nil
}

// WriteRows 覆盖写入并保存
func (b *XLSXBackend) WriteRows(ctx context.Context, spreadsheetID string, updates []RowUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, sheet, err := b.open(ctx, "write", spreadsheetID)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, u := range updates {
		if err := setRow(f, sheet, u.Row+1, u.Values); err != nil {
			return newError(KindBackend, "write", spreadsheetID, err)
		}
	}
	if err := f.Save(); err != nil {
		return newError(KindBackend, "write", spreadsheetID, fmt.Errorf("save workbook: %w", err))
	}
	return nil
}

// AppendRows 追加到最后一个非空行之后并保存
func (b *XLSXBackend) AppendRows(ctx context.Context, spreadsheetID string, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, sheet, err := b.open(ctx, "append", spreadsheetID)
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(sheet)
	if err != nil {
		return newError(KindBackend, "append", spreadsheetID, fmt.Errorf("read rows: %w", err))
	}
	next := len(existing) + 1
	for i, r := range rows {
		if err := setRow(f, sheet, next+i, r); err != nil {
			return newError(KindBackend, "append", spreadsheetID, err)
		}
	}
	if err := f.Save(); err != nil {
		return newError(KindBackend, "append", spreadsheetID, fmt.Errorf("save workbook: %w", err))
	}
	return nil
}

// Create 新建（或覆盖）表格文件
func (b *XLSXBackend) Create(spreadsheetID, sheetName string, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	path, err := b.Path(spreadsheetID)
	if err != nil {
		return newError(KindConfiguration, "create", spreadsheetID, err)
	}
	f, err := NewWorkbook(sheetName, rows)
	if err != nil {
		return newError(KindBackend, "create", spreadsheetID, err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return newError(KindBackend, "create", spreadsheetID, fmt.Errorf("save workbook: %w", err))
	}
	return nil
}

func (b *XLSXBackend) open(ctx context.Context, op, spreadsheetID string) (*excelize.File, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", newError(KindTransient, op, spreadsheetID, err)
	}
	path, err := b.Path(spreadsheetID)
	if err != nil {
		return nil, "", newError(KindConfiguration, op, spreadsheetID, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", newError(KindConfiguration, op, spreadsheetID, ErrSpreadsheetNotFound)
		}
		return nil, "", newError(KindBackend, op, spreadsheetID, fmt.Errorf("open workbook: %w", err))
	}
	list := f.GetSheetList()
	if len(list) == 0 {
		f.Close()
		return nil, "", newError(KindBackend, op, spreadsheetID, ErrNoSheet)
	}
	return f, list[0], nil
}

// NewWorkbook 创建只含一个工作表的工作簿
func NewWorkbook(sheetName string, rows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheetName {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	for i, r := range rows {
		if err := setRow(f, sheetName, i+1, r); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook 将行写成 xlsx 输出到 w
func WriteWorkbook(w io.Writer, sheetName string, rows [][]string) error {
	f, err := NewWorkbook(sheetName, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// setRow 写入一行，rowNum 为 1 起的 Excel 行号
func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("set row %d: %w", rowNum, err)
	}
	return nil
}
