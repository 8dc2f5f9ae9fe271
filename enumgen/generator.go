package enumgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/enumgen/plugin"
)

const (
	generatorName  = "enum"
	annotationName = "Enum"

	// valuesDirective @Values: 续行，追加在 values 参数之后
	valuesDirective = "Values"
)

// EnumParams 定义 Enum 注解支持的参数
type EnumParams struct {
	Name   string `param:"name=name,required=false,default=,description=枚举类型名（const 载体必填，type 载体使用类型名）"`
	Values string `param:"name=values,required=false,default=,description=逗号分隔的成员列表，可用 @Values: 续行追加"`
	Prefix string `param:"name=prefix,required=false,default=,description=常量名前缀"`
	Type   string `param:"name=type,required=false,default=int,description=底层整数类型（仅 const 载体）"`
	Output string `param:"name=output,required=false,default=,description=输出文件路径"`
}

// EnumGenerator 实现 plugin.Generator 接口
type EnumGenerator struct {
	plugin.BaseGenerator
}

func NewEnumGenerator() *EnumGenerator {
	gen := &EnumGenerator{
		BaseGenerator: *plugin.NewBaseGeneratorWithParamsStruct(
			generatorName,
			[]string{annotationName},
			[]plugin.TargetKind{plugin.TargetType, plugin.TargetConst},
			EnumParams{},
		),
	}
	gen.SetPriority(10)
	return gen
}

// Generate 执行代码生成
// 单个枚举的错误记录到 result.Errors，不影响同批次的其他枚举
func (g *EnumGenerator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()

	// 包内重名检测，key: 包目录
	pkgEnums := make(map[string]map[string]string)  // 枚举名 -> 位置
	pkgIdents := make(map[string]map[string]string) // 包级标识符 -> 枚举名

	for _, at := range ctx.Targets {
		ann := plugin.GetAnnotation(at.Annotations, annotationName)
		if ann == nil {
			continue
		}
		pos := fmt.Sprintf("%s:%d", at.Target.FilePath, at.Target.Line)

		params, err := g.params(at, ann)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", pos, err))
			continue
		}
		if ctx.Verbose {
			fmt.Printf("[enum] %s 参数:\n%s", pos, spew.Sdump(params))
		}

		spec, err := SpecFromTarget(at, params)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", pos, err))
			continue
		}

		pkgDir := filepath.Dir(at.Target.FilePath)
		if pkgEnums[pkgDir] == nil {
			pkgEnums[pkgDir] = make(map[string]string)
			pkgIdents[pkgDir] = make(map[string]string)
		}
		if existing, ok := pkgEnums[pkgDir][spec.Name]; ok {
			result.AddError(fmt.Errorf("%s: 枚举 %s 已在 %s 定义", pos, spec.Name, existing))
			continue
		}

		pairs := Normalize(spec.Tokens)
		gen, err := Emit(spec, pairs)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", pos, err))
			continue
		}

		if conflict := claimIdents(pkgIdents[pkgDir], spec, pairs); conflict != "" {
			result.AddError(fmt.Errorf("%s: 枚举 %s 的标识符 %s 与枚举 %s 冲突: %w",
				pos, spec.Name, conflict, pkgIdents[pkgDir][conflict], ErrConflict))
			continue
		}
		pkgEnums[pkgDir][spec.Name] = pos

		defaultFile := utils.ToSnakeCase(spec.Name) + "_enum.go"
		outputPath := plugin.GetOutputPath(at.Target, ann, defaultFile,
			ctx.GetPackageConfig(at.Target.FilePath), g.Name(), ctx.DefaultOutput)
		result.AddDefinition(outputPath, gen)

		if ctx.Verbose {
			fmt.Printf("[enum] 处理 %s %s (%d 个成员) -> %s\n", at.Target.Kind, spec.Name, len(pairs), outputPath)
		}
	}

	return result, nil
}

// params 优先使用 Run 解析好的参数，直接调用 Generate 时在此解析
func (g *EnumGenerator) params(at *plugin.AnnotatedTarget, ann *plugin.Annotation) (EnumParams, error) {
	if at.ParsedParams != nil {
		params, ok := at.ParsedParams.(EnumParams)
		if !ok {
			return EnumParams{}, fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParsedParams)
		}
		return params, nil
	}

	var params EnumParams
	if err := plugin.ParseAnnotationParams(ann, &params, g.ParamDefs()); err != nil {
		return EnumParams{}, err
	}
	return params, nil
}

// claimIdents 登记枚举声明的类型名、函数名和常量名，返回第一个已被其他枚举占用的名称
// 发生冲突时不登记任何名称
func claimIdents(idents map[string]string, spec EnumSpec, pairs []Pair) string {
	declared := declaredIdents(spec, pairs)
	for _, ident := range declared {
		if _, ok := idents[ident]; ok {
			return ident
		}
	}
	for _, ident := range declared {
		idents[ident] = spec.Name
	}
	return ""
}

// SpecFromTarget 根据注解载体和参数构造 EnumSpec
//
//	// @Enum(name=Type, values=`Debug, Loadc`)
//	// @Values: Add, Sub
//	const _ = ""
//
//	// @Enum(values=`Red, Green`)
//	type Color uint8
func SpecFromTarget(at *plugin.AnnotatedTarget, params EnumParams) (EnumSpec, error) {
	tokens := SplitTokens(params.Values)
	for _, line := range plugin.ParseDirectiveLines(at.Doc, valuesDirective) {
		tokens = append(tokens, SplitTokens(line)...)
	}

	spec := EnumSpec{
		Package: at.Target.PackageName,
		Prefix:  params.Prefix,
		Tokens:  tokens,
	}

	switch at.Target.Kind {
	case plugin.TargetType:
		if params.Name != "" && params.Name != at.Target.Name {
			return EnumSpec{}, fmt.Errorf("type 载体 %s 的 @Enum 不能指定不同的 name=%s", at.Target.Name, params.Name)
		}
		spec.Name = at.Target.Name
		spec.Underlying = at.Target.Underlying
	case plugin.TargetConst:
		if params.Name == "" {
			return EnumSpec{}, fmt.Errorf("const 载体的 @%s 缺少参数 name", annotationName)
		}
		spec.Name = params.Name
		spec.Underlying = params.Type
		spec.Doc = plainDoc(at.Doc)
		spec.EmitType = true
	default:
		return EnumSpec{}, fmt.Errorf("不支持的载体类型 %s", at.Target.Kind)
	}

	return spec, nil
}

// plainDoc 去掉注解和指令行，剩余部分作为生成类型的文档
func plainDoc(doc string) string {
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "go:") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
