package enumgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []Pair
	}{
		{
			name:   "保持输入顺序",
			tokens: []string{"Add", "Sub", "Mul"},
			want:   []Pair{{"Add", "add"}, {"Sub", "sub"}, {"Mul", "mul"}},
		},
		{
			name:   "大小写归一",
			tokens: []string{"LOADC", "storeA", "jUMPZ"},
			want:   []Pair{{"Loadc", "loadc"}, {"Storea", "storea"}, {"Jumpz", "jumpz"}},
		},
		{
			name:   "不去除空白",
			tokens: []string{" add"},
			want:   []Pair{{" add", " add"}},
		},
		{
			name:   "非 ASCII 首字母",
			tokens: []string{"école"},
			want:   []Pair{{"École", "école"}},
		},
		{
			name:   "空 token 原样保留",
			tokens: []string{""},
			want:   []Pair{{"", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.tokens))
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]string{}))
}

func TestNormalize_Deterministic(t *testing.T) {
	tokens := []string{"Debug", "Loadc", "Add"}
	assert.Equal(t, Normalize(tokens), Normalize(tokens))
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"基本", "Add, Sub, Mul", []string{"Add", "Sub", "Mul"}},
		{"多行与末尾分隔符", "\nDebug,\n    Loadc,\n    Add\n", []string{"Debug", "Loadc", "Add"}},
		{"末尾多个分隔符", "Add, Sub,,", []string{"Add", "Sub"}},
		{"中间空项保留", "Add,,Sub", []string{"Add", "", "Sub"}},
		{"空字符串", "", []string{}},
		{"只有空白", "  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTokens(tt.text))
		})
	}
}
