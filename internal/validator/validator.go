// Package validator は入力チェック（違反は全部集めて返す）。
package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 違反した規則のメッセージ一覧
type Violations []string

func (v *Violations) Add(msg string) {
	*v = append(*v, msg)
}

// 違反が無いか
func (v Violations) OK() bool {
	return len(v) == 0
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

var emailLike = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ざっくりしたemail形式チェック
func isEmailLike(s string) bool {
	return emailLike.MatchString(s)
}
