package enumgen

import (
	"errors"
	"fmt"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/samber/lo"
)

var (
	ErrEmptyToken          = errors.New("空的枚举名")
	ErrDuplicateLookup     = errors.New("查找字符串重复")
	ErrDuplicateEnumerator = errors.New("枚举常量名重复")
	ErrInvalidIdentifier   = errors.New("不是合法的导出标识符")
	ErrOverflow            = errors.New("成员数超出底层类型范围")
	ErrConflict            = errors.New("与包内其他枚举的声明冲突")
)

// Validate 检查 Normalize 的结果能否生成合法且无歧义的代码
// 所有问题一次性通过 errors.Join 返回，位置从 1 开始计数
func Validate(pairs []Pair, prefix string) error {
	var errs []error

	indices := lo.Range(len(pairs))
	byLookup := lo.GroupBy(indices, func(i int) string { return pairs[i].Lookup })
	byEnumerator := lo.GroupBy(indices, func(i int) string { return prefix + pairs[i].Enumerator })

	for i, pair := range pairs {
		if pair.Lookup == "" {
			errs = append(errs, fmt.Errorf("第 %d 项: %w", i+1, ErrEmptyToken))
			continue
		}

		// 只在重复组的后续成员上报告，保证每对冲突只出现一次
		if first := byLookup[pair.Lookup][0]; first != i {
			errs = append(errs, fmt.Errorf("第 %d 项 %q 与第 %d 项 %q: %w %q",
				i+1, pair.Enumerator, first+1, pairs[first].Enumerator, ErrDuplicateLookup, pair.Lookup))
			continue
		}

		ident := prefix + pair.Enumerator
		if !utils.IsExportedIdent(ident) {
			errs = append(errs, fmt.Errorf("第 %d 项 %q: %w", i+1, ident, ErrInvalidIdentifier))
			continue
		}
		if first := byEnumerator[ident][0]; first != i {
			errs = append(errs, fmt.Errorf("第 %d 项与第 %d 项: %w %s", i+1, first+1, ErrDuplicateEnumerator, ident))
		}
	}

	return errors.Join(errs...)
}
