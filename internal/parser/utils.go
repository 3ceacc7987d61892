package parser

import "strings"

// NormalizeColumnName 规范化列名：去除首尾空白与换行
// 不改变大小写，列名匹配仍然区分大小写
func NormalizeColumnName(name string) string {
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", "")
	return strings.TrimSpace(name)
}

// IsBlankRow 判断一行是否全部为空白单元格
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
