package enumgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		prefix  string
		wantErr []error
	}{
		{
			name:   "合法",
			tokens: []string{"Add", "Sub", "Mul"},
		},
		{
			name:   "空列表",
			tokens: nil,
		},
		{
			name:    "空 token",
			tokens:  []string{"Add", ""},
			wantErr: []error{ErrEmptyToken},
		},
		{
			name:    "大小写不同的重复",
			tokens:  []string{"Add", "ADD"},
			wantErr: []error{ErrDuplicateLookup},
		},
		{
			name:    "查找字符串不同但常量名相同",
			tokens:  []string{"ix", "ıx"},
			wantErr: []error{ErrDuplicateEnumerator},
		},
		{
			name:    "数字开头",
			tokens:  []string{"1st"},
			wantErr: []error{ErrInvalidIdentifier},
		},
		{
			name:   "前缀使数字开头合法",
			tokens: []string{"1st"},
			prefix: "Op",
		},
		{
			name:    "包含空格",
			tokens:  []string{"load c"},
			wantErr: []error{ErrInvalidIdentifier},
		},
		{
			name:    "多个问题一次返回",
			tokens:  []string{"", "Add", "add", "2x"},
			wantErr: []error{ErrEmptyToken, ErrDuplicateLookup, ErrInvalidIdentifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Normalize(tt.tokens), tt.prefix)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestValidate_ReportsEachDuplicateOnce(t *testing.T) {
	err := Validate(Normalize([]string{"Add", "add", "ADD"}), "")
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
	assert.Contains(t, err.Error(), `第 2 项 "Add" 与第 1 项 "Add"`)
	assert.Contains(t, err.Error(), `第 3 项 "Add" 与第 1 项 "Add"`)
}
