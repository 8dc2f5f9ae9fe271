// Package instr 定义 MaMa 虚拟机的指令类型
package instr

import "strconv"

//go:generate go run github.com/donutnomad/enumgen gen .

// Type 虚拟机指令
// @Enum(name=Type, values=`Debug, Loadc, Add, Sub, Mul, Div, Mod`)
// @Values: And, Or, Xor, Eq, Neq, Le, Leq, Gr, Geq, Not, Neg,
// @Values: Load, Store, Loada, Storea, Pop,
// @Values: Jump, Jumpz, Jumpi, Dup, Alloc, New, Mark,
// @Values: Call, Slide, Enter, Return, Halt
const _ = ""

// Instr 一条指令及其立即数
type Instr struct {
	Op  Type
	Arg int
}

// String 按汇编格式输出，如 "loadc 3"
func (i Instr) String() string {
	switch i.Op {
	case Loadc, Load, Store, Loada, Storea, Pop, Jump, Jumpz, Jumpi, Alloc, Slide, Enter, Return:
		return i.Op.String() + " " + strconv.Itoa(i.Arg)
	}
	return i.Op.String()
}
