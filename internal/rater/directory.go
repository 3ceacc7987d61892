// Package rater 维护评分员编号到表格的映射，启动时由配置构建一次。
package rater

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/alexasparks/6-traits-annotations/internal/config"
)

// Scope 表格范围
type Scope string

const (
	ScopeMain Scope = "main"
	ScopeIRR  Scope = "irr"
)

// RemainingCode 待分配池，只读
const RemainingCode = "0"

var (
	ErrInvalidRater  = errors.New("invalid rater")
	ErrReadOnlyRater = errors.New("rater is read-only")
	ErrNoSpreadsheet = errors.New("no spreadsheet configured")
)

var codePattern = regexp.MustCompile(`^\d{1,2}$`)

// Entry 单个评分员
type Entry struct {
	Code             string `json:"code"`
	SpreadsheetID    string `json:"-"`
	IRRSpreadsheetID string `json:"-"`
	ReadOnly         bool   `json:"readOnly"`
}

// Spreadsheet 返回指定范围的表格 ID
func (e Entry) Spreadsheet(scope Scope) string {
	if scope == ScopeIRR {
		return e.IRRSpreadsheetID
	}
	return e.SpreadsheetID
}

// Directory 评分员目录（只读，可并发使用）
type Directory struct {
	entries   map[string]Entry
	codes     []string
	defaultID string
}

// NewDirectory 由配置构建目录
func NewDirectory(cfg *config.AppConfig) *Directory {
	d := &Directory{
		entries:   make(map[string]Entry),
		defaultID: cfg.Sheets.DefaultSpreadsheetID,
	}

	if cfg.Sheets.RemainingSpreadsheetID != "" {
		d.entries[RemainingCode] = Entry{
			Code:          RemainingCode,
			SpreadsheetID: cfg.Sheets.RemainingSpreadsheetID,
			ReadOnly:      true,
		}
	}
	for code, rc := range cfg.Raters {
		if !codePattern.MatchString(code) {
			continue
		}
		code = canonical(code)
		if code == RemainingCode {
			continue
		}
		d.entries[code] = Entry{
			Code:             code,
			SpreadsheetID:    rc.SpreadsheetID,
			IRRSpreadsheetID: rc.IRRSpreadsheetID,
		}
	}

	for code := range d.entries {
		d.codes = append(d.codes, code)
	}
	sort.Slice(d.codes, func(i, j int) bool {
		a, _ := strconv.Atoi(d.codes[i])
		b, _ := strconv.Atoi(d.codes[j])
		return a < b
	})
	return d
}

// Lookup 按编号查找评分员
func (d *Directory) Lookup(code string) (Entry, error) {
	if !codePattern.MatchString(code) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidRater, code)
	}
	e, ok := d.entries[canonical(code)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q is not configured", ErrInvalidRater, code)
	}
	return e, nil
}

// ResolveRead 读取用的表格 ID
func (d *Directory) ResolveRead(code string, scope Scope) (string, error) {
	e, err := d.Lookup(code)
	if err != nil {
		return "", err
	}
	id := e.Spreadsheet(scope)
	if id == "" {
		return "", fmt.Errorf("%w: rater %s scope %s", ErrNoSpreadsheet, e.Code, scope)
	}
	return id, nil
}

// ResolveAnnotate 标注写入用的表格 ID，只读评分员返回 ErrReadOnlyRater
func (d *Directory) ResolveAnnotate(code string, scope Scope) (string, error) {
	e, err := d.Lookup(code)
	if err != nil {
		return "", err
	}
	if e.ReadOnly {
		return "", fmt.Errorf("%w: %s", ErrReadOnlyRater, e.Code)
	}
	return d.ResolveRead(e.Code, scope)
}

// DefaultSpreadsheetID GET /api/sheets 使用的表格
func (d *Directory) DefaultSpreadsheetID() (string, error) {
	if d.defaultID == "" {
		return "", fmt.Errorf("%w: default spreadsheet", ErrNoSpreadsheet)
	}
	return d.defaultID, nil
}

// Entries 按编号顺序返回全部评分员
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.codes))
	for _, code := range d.codes {
		out = append(out, d.entries[code])
	}
	return out
}

// IsRaterError 是否为评分员相关的请求错误
func IsRaterError(err error) bool {
	return errors.Is(err, ErrInvalidRater) || errors.Is(err, ErrReadOnlyRater) || errors.Is(err, ErrNoSpreadsheet)
}

func canonical(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil {
		return code
	}
	return strconv.Itoa(n)
}
