package enumgen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Pair 一个枚举成员的两种名称
type Pair struct {
	Enumerator string // Go 常量名（不含前缀），首字母大写其余小写
	Lookup     string // String() 返回、Parse 接受的规范名，全小写
}

// Normalize 按输入顺序为每个 token 推导 Pair
// 不做去空格、去重或合法性检查，这些由 SplitTokens 与 Validate 负责
//
//	Normalize([]string{"ADD", "loadC"}) == []Pair{{"Add", "add"}, {"Loadc", "loadc"}}
func Normalize(tokens []string) []Pair {
	return lo.Map(tokens, func(token string, _ int) Pair {
		return Pair{
			Enumerator: capitalize(token),
			Lookup:     strings.ToLower(token),
		}
	})
}

// capitalize 首字符大写，其余小写
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// SplitTokens 按逗号拆分 token 列表并去除两端空白
// 末尾分隔符产生的空项被丢弃，中间的空项保留以便 Validate 报告
//
//	SplitTokens("Add, Sub,\n Mul,") == []string{"Add", "Sub", "Mul"}
func SplitTokens(text string) []string {
	items := lo.Map(strings.Split(text, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	for len(items) > 0 && items[len(items)-1] == "" {
		items = items[:len(items)-1]
	}
	return items
}
