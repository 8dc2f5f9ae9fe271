package enumgen

import (
	"fmt"
	"go/token"
	"math"
	"slices"
	"strings"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/donutnomad/gg"
)

// RuntimePackage 生成代码依赖的运行时断言包
const RuntimePackage = "github.com/donutnomad/enumgen/enumrt"

// integerMax 允许作为枚举底层类型的类型及其最大值
var integerMax = map[string]uint64{
	"int":    math.MaxInt,
	"int8":   math.MaxInt8,
	"int16":  math.MaxInt16,
	"int32":  math.MaxInt32,
	"int64":  math.MaxInt64,
	"uint":   math.MaxUint,
	"uint8":  math.MaxUint8,
	"uint16": math.MaxUint16,
	"uint32": math.MaxUint32,
	"uint64": math.MaxUint64,
}

// EnumSpec 描述一个待生成的枚举
type EnumSpec struct {
	Package    string   // 生成文件的包名
	Name       string   // 枚举类型名
	Underlying string   // 底层整数类型，空值等同 int
	Prefix     string   // 常量名前缀
	Tokens     []string // 原始 token，顺序即序号
	Doc        string   // 类型的文档注释，可多行
	EmitType   bool     // 是否输出 type 声明，载体本身就是 type 时为 false
}

// QualifiedName 运行时错误中使用的枚举全名，如 instr.Type
func (s EnumSpec) QualifiedName() string {
	return s.Package + "." + s.Name
}

func (s EnumSpec) underlying() string {
	if s.Underlying == "" {
		return "int"
	}
	return s.Underlying
}

func (s EnumSpec) check() error {
	if !token.IsIdentifier(s.Package) {
		return fmt.Errorf("无效的包名 %q", s.Package)
	}
	if !utils.IsExportedIdent(s.Name) {
		return fmt.Errorf("枚举名 %q: %w", s.Name, ErrInvalidIdentifier)
	}
	if _, ok := integerMax[s.underlying()]; !ok {
		return fmt.Errorf("枚举 %s 的底层类型 %q 不是整数类型", s.Name, s.Underlying)
	}
	return nil
}

// checkCapacity 最大序号 n-1 必须能用底层类型表示
func (s EnumSpec) checkCapacity(n int) error {
	if n > 0 && uint64(n-1) > integerMax[s.underlying()] {
		return fmt.Errorf("枚举 %s 有 %d 个成员，%s 最大只能表示 %d: %w",
			s.Name, n, s.underlying(), integerMax[s.underlying()], ErrOverflow)
	}
	return nil
}

// Emit 为一个枚举生成 gg 定义
// 输出顺序: type 声明、常量、正向表与反向表、String/IsValid、Parse/Lookup、Values
func Emit(spec EnumSpec, pairs []Pair) (*gg.Generator, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}
	if err := spec.checkCapacity(len(pairs)); err != nil {
		return nil, err
	}
	if err := Validate(pairs, spec.Prefix); err != nil {
		return nil, fmt.Errorf("枚举 %s: %w", spec.Name, err)
	}
	if err := checkReserved(spec, pairs); err != nil {
		return nil, err
	}

	gen := gg.New()
	gen.SetHeader(plugin.GeneratedHeader)
	gen.SetPackage(spec.Package)

	e := &emitter{
		spec:    spec,
		pairs:   pairs,
		body:    gen.Body(),
		rt:      gen.P(RuntimePackage),
		strings: gen.P("strings"),
	}
	e.emitDecl()
	e.emitTables()
	e.emitForward()
	e.emitReverse()
	e.emitValues()

	return gen, nil
}

// reservedIdents 枚举类型本身及生成的函数名
func reservedIdents(spec EnumSpec) []string {
	return []string{spec.Name, "Parse" + spec.Name, "Lookup" + spec.Name, spec.Name + "Values"}
}

// declaredIdents 枚举在包级作用域声明的全部标识符
func declaredIdents(spec EnumSpec, pairs []Pair) []string {
	idents := reservedIdents(spec)
	for _, pair := range pairs {
		idents = append(idents, spec.Prefix+pair.Enumerator)
	}
	return idents
}

// checkReserved 常量名不能与生成的类型和函数重名
func checkReserved(spec EnumSpec, pairs []Pair) error {
	reserved := reservedIdents(spec)
	for _, pair := range pairs {
		if ident := spec.Prefix + pair.Enumerator; slices.Contains(reserved, ident) {
			return fmt.Errorf("枚举 %s 的常量 %s 与生成的声明重名: %w", spec.Name, ident, ErrInvalidIdentifier)
		}
	}
	return nil
}

type emitter struct {
	spec    EnumSpec
	pairs   []Pair
	body    *gg.Group
	rt      *gg.PackageRef
	strings *gg.PackageRef
}

func (e *emitter) names() string  { return "_" + e.spec.Name + "Names" }
func (e *emitter) values() string { return "_" + e.spec.Name + "Values" }

func (e *emitter) ident(pair Pair) string {
	return e.spec.Prefix + pair.Enumerator
}

func (e *emitter) emitDecl() {
	name := e.spec.Name

	doc := e.spec.Doc
	if doc == "" && e.spec.EmitType {
		doc = fmt.Sprintf("%s enumerates %d values.", name, len(e.pairs))
	}
	if doc != "" {
		for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
			e.body.AddString(strings.TrimRight("// "+line, " "))
		}
	}
	if e.spec.EmitType {
		e.body.AddString(fmt.Sprintf("type %s %s", name, e.spec.underlying()))
		e.body.AddLine()
	}

	if len(e.pairs) == 0 {
		return
	}
	e.body.AddString("const (")
	for i, pair := range e.pairs {
		if i == 0 {
			e.body.AddString(fmt.Sprintf("\t%s %s = iota", e.ident(pair), name))
			continue
		}
		e.body.AddString("\t" + e.ident(pair))
	}
	e.body.AddString(")")
	e.body.AddLine()
}

func (e *emitter) emitTables() {
	if len(e.pairs) == 0 {
		e.body.AddString(fmt.Sprintf("var %s = [...]string{}", e.names()))
		e.body.AddLine()
		e.body.AddString(fmt.Sprintf("var %s = map[string]%s{}", e.values(), e.spec.Name))
		e.body.AddLine()
		return
	}

	e.body.AddString(fmt.Sprintf("var %s = [...]string{", e.names()))
	for _, pair := range e.pairs {
		e.body.AddString(fmt.Sprintf("\t%q,", pair.Lookup))
	}
	e.body.AddString("}")
	e.body.AddLine()

	e.body.AddString(fmt.Sprintf("var %s = map[string]%s{", e.values(), e.spec.Name))
	for _, pair := range e.pairs {
		e.body.AddString(fmt.Sprintf("\t%q: %s,", pair.Lookup, e.ident(pair)))
	}
	e.body.AddString("}")
	e.body.AddLine()
}

func (e *emitter) emitForward() {
	name := e.spec.Name

	e.body.AddString("// String returns the lowercase name of e.")
	e.body.AddString(fmt.Sprintf("// It panics with *enumrt.RangeViolationError if e is not a member of %s.", name))
	e.body.AddString(fmt.Sprintf("func (e %s) String() string {", name))
	e.body.AddString("\tif !e.IsValid() {")
	e.body.AddString(fmt.Sprintf("\t\t%s(%q, e, len(%s))", e.rt.Dot("FailRange"), e.spec.QualifiedName(), e.names()))
	e.body.AddString("\t}")
	e.body.AddString(fmt.Sprintf("\treturn %s[e]", e.names()))
	e.body.AddString("}")
	e.body.AddLine()

	e.body.AddString(fmt.Sprintf("// IsValid reports whether e is a member of %s.", name))
	e.body.AddString(fmt.Sprintf("func (e %s) IsValid() bool {", name))
	e.body.AddString(fmt.Sprintf("\treturn uint64(e) < uint64(len(%s))", e.names()))
	e.body.AddString("}")
	e.body.AddLine()
}

func (e *emitter) emitReverse() {
	name := e.spec.Name

	e.body.AddString(fmt.Sprintf("// Parse%s returns the member whose name matches name case-insensitively.", name))
	e.body.AddString("// It panics with *enumrt.UnknownNameError if there is no such member.")
	e.body.AddString(fmt.Sprintf("func Parse%s(name string) %s {", name, name))
	e.body.AddString(fmt.Sprintf("\tcanonical := %s(name)", e.strings.Dot("ToLower")))
	e.body.AddString(fmt.Sprintf("\te, ok := %s[canonical]", e.values()))
	e.body.AddString("\tif !ok {")
	e.body.AddString(fmt.Sprintf("\t\t%s(%q, name, canonical)", e.rt.Dot("FailUnknownName"), e.spec.QualifiedName()))
	e.body.AddString("\t}")
	e.body.AddString("\treturn e")
	e.body.AddString("}")
	e.body.AddLine()

	e.body.AddString(fmt.Sprintf("// Lookup%s is like Parse%s but reports a missing name through ok.", name, name))
	e.body.AddString(fmt.Sprintf("func Lookup%s(name string) (%s, bool) {", name, name))
	e.body.AddString(fmt.Sprintf("\te, ok := %s[%s(name)]", e.values(), e.strings.Dot("ToLower")))
	e.body.AddString("\treturn e, ok")
	e.body.AddString("}")
	e.body.AddLine()
}

func (e *emitter) emitValues() {
	name := e.spec.Name

	e.body.AddString(fmt.Sprintf("// %sValues returns all members of %s in declaration order.", name, name))
	e.body.AddString(fmt.Sprintf("func %sValues() []%s {", name, name))
	if len(e.pairs) == 0 {
		e.body.AddString(fmt.Sprintf("\treturn []%s{}", name))
	} else {
		e.body.AddString(fmt.Sprintf("\treturn []%s{", name))
		for _, pair := range e.pairs {
			e.body.AddString(fmt.Sprintf("\t\t%s,", e.ident(pair)))
		}
		e.body.AddString("\t}")
	}
	e.body.AddString("}")
}
