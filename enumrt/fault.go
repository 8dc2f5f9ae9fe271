// Package enumrt 是 enumgen 生成代码所依赖的运行时断言设施
//
// 生成的 String() 与 Parse<Enum>() 在前置条件不满足时调用 FailRange / FailUnknownName，
// 以携带诊断信息的 panic 终止当前流程。调用方如需把它转换为普通错误，使用 Catch。
package enumrt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Integer 生成的枚举类型都满足该约束
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	// ErrRangeViolation 枚举值超出 [0, N) 范围
	ErrRangeViolation = errors.New("enum value out of range")
	// ErrUnknownName 字符串无法匹配任何枚举名
	ErrUnknownName = errors.New("unknown enum name")
)

// RangeViolationError 正向查找（值 -> 字符串）时的越界错误
type RangeViolationError struct {
	Enum  string // 枚举全名，如 instr.Type
	Value string // 越界的值，十进制，无符号类型不会被截断为负数
	Size  int    // 合法序号个数 N
}

func (e *RangeViolationError) Error() string {
	return report("Bad enum tag for "+e.Enum, e.Value, fmt.Sprintf("[0, %d)", e.Size))
}

func (e *RangeViolationError) Is(target error) bool {
	return target == ErrRangeViolation
}

// UnknownNameError 反向查找（字符串 -> 值）时的未知名称错误
type UnknownNameError struct {
	Enum      string // 枚举全名
	Name      string // 原始输入
	Canonical string // 转小写后的输入
}

func (e *UnknownNameError) Error() string {
	return report("Bad enum name for "+e.Enum, e.Name, e.Canonical)
}

func (e *UnknownNameError) Is(target error) bool {
	return target == ErrUnknownName
}

// FailRange 报告越界的枚举值，不会返回
func FailRange[T Integer](enum string, value T, size int) {
	panic(&RangeViolationError{Enum: enum, Value: decimal(value), Size: size})
}

// decimal 不经过 fmt，枚举类型的 String 方法本身就会调用 FailRange
func decimal[T Integer](v T) string {
	if v < 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

// FailUnknownName 报告无法识别的枚举名，不会返回
func FailUnknownName(enum, name, canonical string) {
	panic(&UnknownNameError{Enum: enum, Name: name, Canonical: canonical})
}

// Catch 执行 fn，并将 enumrt 产生的 panic 转换为返回的错误
// 其他 panic 原样重新抛出
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch fault := r.(type) {
		case *RangeViolationError:
			err = fault
		case *UnknownNameError:
			err = fault
		default:
			panic(r)
		}
	}()
	fn()
	return nil
}

// report 按 "消息 + 编号诊断值" 的格式组织错误文本
//
//	Bad enum name for instr.Type
//	(1) `DIV`
//	(2) `div`
func report(msg string, values ...any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i, v := range values {
		fmt.Fprintf(&sb, "\n(%d) `%v`", i+1, v)
	}
	return sb.String()
}
