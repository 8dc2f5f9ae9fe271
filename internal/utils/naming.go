package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase 将驼峰命名转换为蛇形命名，用于推导默认输出文件名
//
//	TokenKind  -> token_kind
//	HTTPMethod -> http_method
//	SHA256Hash -> sha256_hash
func ToSnakeCase(name string) string {
	runes := []rune(name)

	var sb strings.Builder
	sb.Grow(len(name) + 4)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			sb.WriteRune(r)
			continue
		}
		if i > 0 && runes[i-1] != '_' {
			prev := runes[i-1]
			prevLower := unicode.IsLower(prev) || unicode.IsDigit(prev)
			// 缩略词结尾: HTTPMethod 中的 M
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// IsExportedIdent 检查 name 是否为合法的导出 Go 标识符
func IsExportedIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
