package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend 内存表格存储（测试与演示用）
type MemoryBackend struct {
	mu       sync.RWMutex
	sheets   map[string]*Table
	failures map[string]error
	calls    map[string]int
}

// NewMemoryBackend 创建内存存储
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sheets:   make(map[string]*Table),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Seed 写入一张表（覆盖已有内容）
func (m *MemoryBackend) Seed(spreadsheetID, sheetName string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[spreadsheetID] = &Table{SheetName: sheetName, Rows: copyRows(rows)}
}

// Rows 返回表内容副本
func (m *MemoryBackend) Rows(spreadsheetID string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.sheets[spreadsheetID]
	if !ok {
		return nil
	}
	return copyRows(t.Rows)
}

// FailOn 让指定操作（fetch/write/append）返回 err，直到传入 nil
func (m *MemoryBackend) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls 返回操作调用次数
func (m *MemoryBackend) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// FetchRows 读取整表
func (m *MemoryBackend) FetchRows(ctx context.Context, spreadsheetID string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.begin(ctx, "fetch", spreadsheetID)
	if err != nil {
		return nil, err
	}
	return &Table{SheetName: t.SheetName, Rows: copyRows(t.Rows)}, nil
}

// WriteRows 覆盖写入
func (m *MemoryBackend) WriteRows(ctx context.Context, spreadsheetID string, updates []RowUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.begin(ctx, "write", spreadsheetID)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if u.Row < 0 {
			return newError(KindBackend, "write", spreadsheetID, fmt.Errorf("invalid row %d", u.Row))
		}
		for len(t.Rows) <= u.Row {
			t.Rows = append(t.Rows, nil)
		}
		t.Rows[u.Row] = append([]string(nil), u.Values...)
	}
	return nil
}

// AppendRows 追加
func (m *MemoryBackend) AppendRows(ctx context.Context, spreadsheetID string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.begin(ctx, "append", spreadsheetID)
	if err != nil {
		return err
	}
	t.Rows = append(t.Rows, copyRows(rows)...)
	return nil
}

// begin 记录调用并检查注入的失败；调用方持有写锁
func (m *MemoryBackend) begin(ctx context.Context, op, spreadsheetID string) (*Table, error) {
	m.calls[op]++
	if err := ctx.Err(); err != nil {
		return nil, newError(KindTransient, op, spreadsheetID, err)
	}
	if err, ok := m.failures[op]; ok {
		return nil, err
	}
	t, ok := m.sheets[spreadsheetID]
	if !ok {
		return nil, newError(KindConfiguration, op, spreadsheetID, ErrSpreadsheetNotFound)
	}
	return t, nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
