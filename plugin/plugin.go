package plugin

import "reflect"

// Generator 是代码生成器接口
// 注解扫描结果按注解名分发给对应的 Generator
type Generator interface {
	// Name 返回生成器名称，同时用作 go:enumgen: 指令中的插件名
	Name() string

	// Annotations 返回该生成器认领的注解列表
	// 一个注解只能绑定一个生成器
	Annotations() []string

	// SupportedTargets 返回支持的注解载体类型
	SupportedTargets() []TargetKind

	// ParamDefs 返回注解参数定义，用于默认值填充和帮助文本
	ParamDefs() []ParamDef

	// NewParams 返回新的参数结构体指针，nil 表示不需要参数
	NewParams() any

	// Priority 数字越小越靠前，多个生成器输出到同一文件时按此排序
	Priority() int

	// Generate 执行代码生成
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// BaseGenerator 提供 Generator 除 Generate 以外的通用实现，可嵌入
type BaseGenerator struct {
	name        string
	annotations []string
	targets     []TargetKind
	paramDefs   []ParamDef
	paramsProto any
	priority    int
}

func NewBaseGenerator(name string, annotations []string, targets []TargetKind) *BaseGenerator {
	return &BaseGenerator{
		name:        name,
		annotations: annotations,
		targets:     targets,
		priority:    100,
	}
}

// NewBaseGeneratorWithParamsStruct 创建带参数结构体的基础生成器
// paramsProto: 参数结构体的零值实例，例如 EnumParams{}
func NewBaseGeneratorWithParamsStruct(name string, annotations []string, targets []TargetKind, paramsProto any) *BaseGenerator {
	g := NewBaseGenerator(name, annotations, targets)
	g.paramDefs = ParseParamsFromStruct(paramsProto)
	g.paramsProto = paramsProto
	return g
}

func (g *BaseGenerator) Name() string {
	return g.name
}

func (g *BaseGenerator) Annotations() []string {
	return g.annotations
}

func (g *BaseGenerator) SupportedTargets() []TargetKind {
	return g.targets
}

func (g *BaseGenerator) ParamDefs() []ParamDef {
	return g.paramDefs
}

// NewParams 通过反射创建参数结构体的新实例（指针）
func (g *BaseGenerator) NewParams() any {
	if g.paramsProto == nil {
		return nil
	}
	typ := reflect.TypeOf(g.paramsProto)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}

func (g *BaseGenerator) Priority() int {
	return g.priority
}

// SetPriority 设置生成器优先级，数字越小优先级越高
func (g *BaseGenerator) SetPriority(priority int) *BaseGenerator {
	g.priority = priority
	return g
}
