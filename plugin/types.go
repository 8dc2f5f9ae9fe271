package plugin

import (
	"go/ast"
	"go/token"

	"github.com/donutnomad/gg"
)

// TargetKind 注解载体的类型
type TargetKind int

const (
	TargetType  TargetKind = iota + 1 // type X int 等命名类型声明
	TargetConst                       // const 声明，常用 const _ = "" 作为纯注解载体
)

func (k TargetKind) String() string {
	switch k {
	case TargetType:
		return "type"
	case TargetConst:
		return "const"
	default:
		return "unknown"
	}
}

// ParamDef 注解参数的元信息
type ParamDef struct {
	Name        string
	Required    bool
	Default     string
	Description string
}

// Annotation 解析后的注解
type Annotation struct {
	Name   string            // 注解名称，如 "Enum"
	Params map[string]string // 注解参数，key 统一小写
	Raw    string            // 原始注解文本
}

// Target 注解的目标
type Target struct {
	Kind        TargetKind
	Name        string // 类型名或常量名（载体为 const _ 时为 "_"）
	PackageName string
	FilePath    string
	Position    token.Pos
	Line        int // 声明所在行，用于稳定排序和报错

	// Underlying 命名类型的底层类型表达式（仅 TargetType），如 "int", "uint8"
	Underlying string

	Node ast.Node
}

// AnnotatedTarget 带注解的目标
type AnnotatedTarget struct {
	Target       *Target
	Annotations  []*Annotation
	Doc          string // 完整的文档注释文本，供生成器解析多行指令
	ParsedParams any    // 由 Run 根据 Generator.NewParams 解析出的参数结构体（值类型）
}

// ScanResult 扫描结果
type ScanResult struct {
	Types  []*AnnotatedTarget
	Consts []*AnnotatedTarget

	// PackageConfigs 包级配置，key: 包目录
	PackageConfigs map[string]*PackageConfig
}

// All 返回所有带注解的目标
func (r *ScanResult) All() []*AnnotatedTarget {
	result := make([]*AnnotatedTarget, 0, len(r.Types)+len(r.Consts))
	result = append(result, r.Types...)
	result = append(result, r.Consts...)
	return result
}

// ByAnnotation 按注解名称过滤
func (r *ScanResult) ByAnnotation(name string) []*AnnotatedTarget {
	var result []*AnnotatedTarget
	for _, t := range r.All() {
		if HasAnnotation(t.Annotations, name) {
			result = append(result, t)
		}
	}
	return result
}

// GenerateContext 传递给 Generator 的上下文
type GenerateContext struct {
	Targets        []*AnnotatedTarget
	PackageConfigs map[string]*PackageConfig // key: 包目录
	DefaultOutput  string                    // 命令行 -output（最低优先级）
	Verbose        bool
}

// GetPackageConfig 获取源文件所在包的配置
func (c *GenerateContext) GetPackageConfig(filePath string) *PackageConfig {
	if c.PackageConfigs == nil {
		return nil
	}
	return c.PackageConfigs[packageDir(filePath)]
}

// GenerateResult 生成结果
type GenerateResult struct {
	// Definitions key: 输出文件路径, value: gg 定义
	Definitions map[string]*gg.Generator

	Errors  []error
	Skipped int
}

func NewGenerateResult() *GenerateResult {
	return &GenerateResult{
		Definitions: make(map[string]*gg.Generator),
	}
}

// AddDefinition 添加 gg 定义
// 同一路径的多次添加会合并到同一个定义中
func (r *GenerateResult) AddDefinition(path string, gen *gg.Generator) {
	if r.Definitions == nil {
		r.Definitions = make(map[string]*gg.Generator)
	}
	if existing, ok := r.Definitions[path]; ok {
		existing.Merge(gen)
		return
	}
	r.Definitions[path] = gen
}

func (r *GenerateResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}

func (r *GenerateResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// PackageConfig 包级生成配置，来自 go:enumgen: 指令
//
//	//go:enumgen: -output `$PACKAGE_enums`
//	//go:enumgen: plugin:enum -output `zz_enums`
type PackageConfig struct {
	PackageDir string

	// DefaultOutput 对所有插件生效的输出路径
	DefaultOutput string

	// PluginOutputs key: 插件名（小写）
	PluginOutputs map[string]string
}

// GetPluginOutput 插件特定配置优先，其次默认配置
func (c *PackageConfig) GetPluginOutput(pluginName string) string {
	if c == nil {
		return ""
	}
	if output, ok := c.PluginOutputs[pluginName]; ok {
		return output
	}
	return c.DefaultOutput
}
