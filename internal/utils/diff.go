package utils

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff 返回 have -> want 的 unified diff，内容一致时返回空字符串
func Diff(name, have, want string) string {
	if have == want {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(have),
		B:        difflib.SplitLines(want),
		FromFile: name + " (当前)",
		ToFile:   name + " (生成)",
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return text
}
