package sheets

import (
	"errors"
	"fmt"
)

// Kind 后端错误分类
type Kind string

const (
	KindTransient     Kind = "transient"     // 限流、5xx、超时，可重试
	KindBackend       Kind = "backend"       // 其他上游失败
	KindConfiguration Kind = "configuration" // 表格不存在/无权限/凭据缺失
)

// Error 后端错误
type Error struct {
	Kind          Kind
	Op            string
	SpreadsheetID string
	Err           error
}

func (e *Error) Error() string {
	if e.SpreadsheetID != "" {
		return fmt.Sprintf("sheets %s %s (%s): %v", e.Op, e.SpreadsheetID, e.Kind, e.Err)
	}
	return fmt.Sprintf("sheets %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoSheet 表格中没有工作表
var ErrNoSheet = errors.New("spreadsheet has no sheets")

// ErrSpreadsheetNotFound 表格不存在
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

func newError(kind Kind, op, spreadsheetID string, err error) *Error {
	return &Error{Kind: kind, Op: op, SpreadsheetID: spreadsheetID, Err: err}
}

// KindOf 返回错误分类；非后端错误返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransient 判断是否为可重试错误
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
