package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviations 句点后不断句的缩写（不含末尾句点，匹配时忽略大小写）
var abbreviations = []string{
	"Mr", "Mrs", "Ms", "Dr", "Prof", "Sr", "Jr",
	"i.e", "e.g", "a.m", "p.m", "A.M", "P.M",
	"Ph.D", "M.D", "B.A", "M.A", "B.Sc", "M.Sc",
	"St", "Ave", "Rd", "Blvd", "Inc", "Ltd", "Co", "Corp", "vs",
}

var abbreviationSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		set[strings.ToLower(a)] = struct{}{}
	}
	return set
}()

// dottedInitials 形如 U.S / J.R 的点分首字母
var dottedInitials = regexp.MustCompile(`^(\p{L}\.)+\p{L}$`)

// Abbreviations 返回缩写表副本
func Abbreviations() []string {
	return append([]string(nil), abbreviations...)
}

// SplitSentences 将评语切分为句子
// 断句符为 . ! ?，连续断句符视为一个；紧随其后的右引号/右括号归属当前句。
// 断句符后必须是空白或文本结尾；缩写与单字母首字母后的句点不断句。
// 返回的句子已去除首尾空白，拼接后（忽略空白）可还原原文。
func SplitSentences(text string) []string {
	sentences := make([]string, 0)
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}

		end := i + 1
		for end < len(runes) && isTerminal(runes[end]) {
			end++
		}
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}

		// 3.14、U.S.A、e.g.x 之类不是句末
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}

		single := runes[i] == '.' && (i+1 >= len(runes) || !isTerminal(runes[i+1]))
		if single && isAbbreviation(tokenBefore(runes, i)) {
			i = end - 1
			continue
		}

		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']', '»':
		return true
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '“', '‘', '(', '[', '«':
		return true
	}
	return false
}

// tokenBefore 返回位置 i 之前的连续非空白片段（去掉左引号/左括号）
func tokenBefore(runes []rune, i int) string {
	j := i
	for j > 0 && !unicode.IsSpace(runes[j-1]) {
		j--
	}
	for j < i && isOpener(runes[j]) {
		j++
	}
	return string(runes[j:i])
}

func isAbbreviation(token string) bool {
	if token == "" {
		return false
	}
	if _, ok := abbreviationSet[strings.ToLower(token)]; ok {
		return true
	}
	r := []rune(token)
	if len(r) == 1 && unicode.IsUpper(r[0]) {
		return true
	}
	return dottedInitials.MatchString(token)
}
