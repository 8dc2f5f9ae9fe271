package invalid

// 缺少 name
// @Enum(values=`A, B`)
const _ = ""

// 查找字符串重复
// @Enum(name=Dup, values=`Add, ADD`)
const _ = ""

// 非整数底层类型
// @Enum(name=Str, values=`A`, type=string)
const _ = ""

// type 载体的 name 与类型名不一致
// @Enum(name=Other, values=`X`)
type Named int

// @Enum(name=Flag, values=`On, Off`)
const _ = ""

// 枚举重复定义
// @Enum(name=Flag, values=`Yes`)
const _ = ""

// 常量与 Flag 冲突
// @Enum(name=Switch, values=`On`)
const _ = ""


// 常量与 Flag 类型同名
// @Enum(name=Mode, values=`Flag, Other`)
const _ = ""

// 类型名与 Flag 的常量同名
// @Enum(name=Off, values=`Low`)
const _ = ""

// 常量与 Flag 生成的函数同名
// @Enum(name=Helper, values=`ParseFlag`)
const _ = ""
