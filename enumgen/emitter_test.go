package enumgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitSource(t *testing.T, spec EnumSpec) string {
	t.Helper()
	gen, err := Emit(spec, Normalize(spec.Tokens))
	require.NoError(t, err)

	// 能通过 goimports 格式化说明输出是合法的 Go 源码
	out, err := utils.Format("enum.go", gen.Bytes())
	require.NoError(t, err)
	return string(out)
}

func TestEmit(t *testing.T) {
	src := emitSource(t, EnumSpec{
		Package:  "calc",
		Name:     "Op",
		Tokens:   []string{"Add", "Sub", "Mul"},
		EmitType: true,
	})

	for _, want := range []string{
		"// Code generated by enumgen. DO NOT EDIT.",
		"package calc",
		`"github.com/donutnomad/enumgen/enumrt"`,
		`"strings"`,
		"// Op enumerates 3 values.\ntype Op int\n",
		"const (\n\tAdd Op = iota\n\tSub\n\tMul\n)",
		"var _OpNames = [...]string{\n\t\"add\",\n\t\"sub\",\n\t\"mul\",\n}",
		"\t\"sub\": Sub,",
		"func (e Op) String() string {",
		`enumrt.FailRange("calc.Op", e, len(_OpNames))`,
		"func (e Op) IsValid() bool {",
		"func ParseOp(name string) Op {",
		"canonical := strings.ToLower(name)",
		`enumrt.FailUnknownName("calc.Op", name, canonical)`,
		"func LookupOp(name string) (Op, bool) {",
		"func OpValues() []Op {\n\treturn []Op{\n\t\tAdd,\n\t\tSub,\n\t\tMul,\n\t}\n}",
	} {
		assert.Contains(t, src, want)
	}

	// 常量顺序即序号
	assert.Less(t, strings.Index(src, "\tAdd Op = iota"), strings.Index(src, "\tSub\n"))
	assert.Less(t, strings.Index(src, "\tSub\n"), strings.Index(src, "\tMul\n"))
}

func TestEmit_Options(t *testing.T) {
	src := emitSource(t, EnumSpec{
		Package:    "instr",
		Name:       "Type",
		Underlying: "uint8",
		Prefix:     "Op",
		Tokens:     []string{"Debug", "Loadc"},
		Doc:        "Type 指令类型\n\n详见 MaMa 手册",
		EmitType:   true,
	})

	assert.Contains(t, src, "// Type 指令类型\n//\n// 详见 MaMa 手册\ntype Type uint8\n")
	assert.Contains(t, src, "\tOpDebug Type = iota\n\tOpLoadc\n")
	assert.Contains(t, src, "\"loadc\": OpLoadc,")
	assert.NotContains(t, src, "\tDebug")
}

func TestEmit_ExistingType(t *testing.T) {
	src := emitSource(t, EnumSpec{
		Package:    "paint",
		Name:       "Color",
		Underlying: "uint8",
		Tokens:     []string{"Red", "Green"},
	})

	assert.NotContains(t, src, "type Color")
	assert.Contains(t, src, "\tRed Color = iota\n\tGreen\n")
}

func TestEmit_ZeroMembers(t *testing.T) {
	src := emitSource(t, EnumSpec{
		Package:  "empty",
		Name:     "Nothing",
		EmitType: true,
	})

	assert.Contains(t, src, "type Nothing int")
	assert.NotContains(t, src, "const (")
	assert.Contains(t, src, "var _NothingNames = [...]string{}")
	assert.Contains(t, src, "var _NothingValues = map[string]Nothing{}")
	assert.Contains(t, src, "return []Nothing{}")
}

func numbered(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("V%d", i)
	}
	return tokens
}

func TestEmit_Capacity(t *testing.T) {
	tests := []struct {
		underlying string
		n          int
		wantErr    bool
	}{
		{"int8", 128, false},
		{"int8", 129, true},
		{"int8", 200, true},
		{"uint8", 256, false},
		{"uint8", 257, true},
		{"int16", 200, false},
		{"int8", 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.underlying, tt.n), func(t *testing.T) {
			spec := EnumSpec{Package: "calc", Name: "Small", Underlying: tt.underlying, Tokens: numbered(tt.n), EmitType: true}
			_, err := Emit(spec, Normalize(spec.Tokens))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrOverflow)
			assert.Contains(t, err.Error(), fmt.Sprintf("枚举 Small 有 %d 个成员", tt.n))
		})
	}
}

func TestEmit_UnsignedRangeFault(t *testing.T) {
	src := emitSource(t, EnumSpec{Package: "calc", Name: "Big", Underlying: "uint64", Tokens: []string{"A"}, EmitType: true})

	// 值直接交给 FailRange，不经过 int64 转换
	assert.Contains(t, src, `enumrt.FailRange("calc.Big", e, len(_BigNames))`)
	assert.NotContains(t, src, `"calc.Big", int64(e)`)
}

func TestEmit_Deterministic(t *testing.T) {
	spec := EnumSpec{
		Package:  "instr",
		Name:     "Type",
		Tokens:   SplitTokens("Debug, Loadc, Add, Sub, Mul, Div, Mod, And, Or, Xor"),
		EmitType: true,
	}

	first, err := Emit(spec, Normalize(spec.Tokens))
	require.NoError(t, err)
	second, err := Emit(spec, Normalize(spec.Tokens))
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestEmit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		spec    EnumSpec
		wantErr error
		wantMsg string
	}{
		{
			name:    "重复查找字符串",
			spec:    EnumSpec{Package: "calc", Name: "Op", Tokens: []string{"Add", "add"}},
			wantErr: ErrDuplicateLookup,
		},
		{
			name:    "非导出枚举名",
			spec:    EnumSpec{Package: "calc", Name: "op"},
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "常量与生成的函数重名",
			spec:    EnumSpec{Package: "calc", Name: "Op", Prefix: "Op", Tokens: []string{"Values"}},
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "常量与类型重名",
			spec:    EnumSpec{Package: "calc", Name: "Op", Tokens: []string{"op"}},
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "非整数底层类型",
			spec:    EnumSpec{Package: "calc", Name: "Op", Underlying: "string"},
			wantMsg: "不是整数类型",
		},
		{
			name:    "无效包名",
			spec:    EnumSpec{Package: "my-pkg", Name: "Op"},
			wantMsg: "无效的包名",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Emit(tt.spec, Normalize(tt.spec.Tokens))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
