package utils

import (
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"x":             "x",
		"X":             "x",
		"Type":          "type",
		"TokenKind":     "token_kind",
		"HTTPMethod":    "http_method",
		"SHA256Hash":    "sha256_hash",
		"UserID":        "user_id",
		"SKU_ID":        "sku_id",
		"ABCDef":        "abc_def",
		"already_snake": "already_snake",
		"instrType":     "instr_type",
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			result := ToSnakeCase(input)
			if result != expected {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", input, result, expected)
			}
		})
	}
}

func TestIsExportedIdent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Add", true},
		{"Loadc", true},
		{"OpAdd_2", true},
		{"Ändern", true},
		{"add", false},
		{"", false},
		{"_Add", false},
		{"1add", false},
		{"Add-Sub", false},
		{"Add Sub", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsExportedIdent(tt.input); got != tt.want {
				t.Errorf("IsExportedIdent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
