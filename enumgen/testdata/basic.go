package basic

// Type 指令类型
// @Enum(name=Type, values=`Debug, Loadc, Add`)
// @Values: Sub, Mul,
// @Values: Halt
const _ = ""

// Color 颜色
// @Enum(values=`Red, Green, Blue`, output=colors)
type Color uint8

// @Enum(name=Level, values=`Low, High`, prefix=Level, type=int8)
const _ = ""
