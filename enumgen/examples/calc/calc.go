// Package calc 演示 enumgen 生成的枚举在运行时的行为
package calc

//go:generate go run github.com/donutnomad/enumgen gen .

// Op 算术运算
// @Enum(name=Op, values=`Add, Sub, Mul`)
const _ = ""

// Nothing 没有成员的枚举，任何值和名称都无法转换
// @Enum(name=Nothing)
const _ = ""

// Color 颜色，生成代码不会重复声明该类型
// @Enum(values=`Red, Green, Blue`)
type Color uint8

// Apply 对 a、b 执行 op
func Apply(op Op, a, b int) int {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	}
	return 0
}
