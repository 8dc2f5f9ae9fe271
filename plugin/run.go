package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/gg"
	"golang.org/x/exp/maps"
)

// GeneratedHeader 写入每个生成文件顶部的注释
const GeneratedHeader = "Code generated by enumgen. DO NOT EDIT."

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Output   string // 命令行指定的默认输出路径（最低优先级）
	Async    bool   // 是否并发执行生成器

	// Check 只比较不写入，存在过期文件时返回错误并打印 diff
	Check bool
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration
	GenerateDuration time.Duration
	TotalDuration    time.Duration
	TargetCount      int
	FileCount        int      // 写入（或 Check 模式下比较）的文件数量
	Files            []string // 写入（或比较）的文件路径
	StaleFiles       []string
}

// Run 运行代码生成
// 1. 扫描指定路径的注解
// 2. 将目标分发给对应的生成器
// 3. 执行生成器
// 4. 合并同一文件的 gg 定义并写入文件
func Run(ctx context.Context, registry *Registry, patterns ...string) error {
	_, err := RunWithOptionsAndStats(ctx, &RunOptions{
		Registry: registry,
		Patterns: patterns,
	})
	return err
}

// RunWithOptionsAndStats 带选项运行并返回统计信息
func RunWithOptionsAndStats(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	totalStart := time.Now()
	stats := &RunStats{}

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}

	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, fmt.Errorf("没有已注册的生成器")
	}

	scanStart := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(annotations...),
		WithScannerVerbose(opts.Verbose),
	)
	result, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	stats.ScanDuration = time.Since(scanStart)

	stats.TargetCount = len(result.All())
	if stats.TargetCount == 0 {
		if opts.Verbose {
			fmt.Println("没有找到任何带注解的目标")
		}
		stats.TotalDuration = time.Since(totalStart)
		return stats, nil
	}
	if opts.Verbose {
		fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
	}

	generateStart := time.Now()
	dispatch := registry.DispatchTargets(result)

	// 按优先级排序生成器名称，同优先级按名称
	sortedNames := maps.Keys(dispatch)
	slices.SortFunc(sortedNames, func(a, b string) int {
		genA, _ := registry.GetByName(a)
		genB, _ := registry.GetByName(b)
		if genA.Priority() != genB.Priority() {
			return genA.Priority() - genB.Priority()
		}
		return strings.Compare(a, b)
	})

	// 先串行解析所有目标的参数，生成器只读取 ParsedParams
	allErrors := parseTargetParams(registry, dispatch, sortedNames)

	genResults, genErrors := executeGenerators(registry, dispatch, sortedNames, result.PackageConfigs, opts)
	allErrors = append(allErrors, genErrors...)

	// 按优先级顺序收集定义，key: 输出文件路径
	fileDefinitions := make(map[string][]*gg.Generator)
	fileGenNames := make(map[string][]string)
	for _, genName := range sortedNames {
		genResult, ok := genResults[genName]
		if !ok {
			continue
		}
		for _, path := range sortedKeys(genResult.Definitions) {
			fileDefinitions[path] = append(fileDefinitions[path], genResult.Definitions[path])
			fileGenNames[path] = append(fileGenNames[path], genName)
		}
		allErrors = append(allErrors, genResult.Errors...)
	}

	for _, path := range sortedKeys(fileDefinitions) {
		merged, err := mergeDefinitions(fileDefinitions[path], fileGenNames[path])
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("合并文件 %s 的定义失败: %w", path, err))
			continue
		}

		if opts.Check {
			stale, err := checkGGFile(path, merged)
			if err != nil {
				allErrors = append(allErrors, fmt.Errorf("检查文件 %s 失败: %w", path, err))
				continue
			}
			stats.FileCount++
			stats.Files = append(stats.Files, path)
			if stale {
				stats.StaleFiles = append(stats.StaleFiles, path)
			}
			continue
		}

		if err := writeGGFile(path, merged); err != nil {
			allErrors = append(allErrors, fmt.Errorf("写入文件 %s 失败: %w", path, err))
			continue
		}
		stats.FileCount++
		stats.Files = append(stats.Files, path)
		fmt.Printf("生成文件: %s\n", path)
	}

	stats.GenerateDuration = time.Since(generateStart)
	stats.TotalDuration = time.Since(totalStart)

	if len(allErrors) > 0 {
		for _, e := range allErrors {
			fmt.Printf("错误: %v\n", e)
		}
		return stats, fmt.Errorf("生成过程中出现 %d 个错误", len(allErrors))
	}
	if len(stats.StaleFiles) > 0 {
		return stats, fmt.Errorf("%d 个生成文件已过期", len(stats.StaleFiles))
	}

	return stats, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// parseTargetParams 将每个目标上属于该生成器的注解解析到参数结构体
func parseTargetParams(registry *Registry, dispatch map[string][]*AnnotatedTarget, genNames []string) []error {
	var errs []error

	for _, genName := range genNames {
		gen, ok := registry.GetByName(genName)
		if !ok {
			continue
		}

		for _, target := range dispatch[genName] {
			paramsProto := gen.NewParams()
			if paramsProto == nil {
				continue
			}

			var targetAnn *Annotation
			for _, name := range gen.Annotations() {
				if targetAnn = GetAnnotation(target.Annotations, name); targetAnn != nil {
					break
				}
			}
			if targetAnn == nil {
				continue
			}

			if err := ParseAnnotationParams(targetAnn, paramsProto, gen.ParamDefs()); err != nil {
				errs = append(errs, fmt.Errorf("%s:%d 解析参数失败: %w", target.Target.FilePath, target.Target.Line, err))
				continue
			}
			val := reflect.ValueOf(paramsProto)
			if val.Kind() != reflect.Ptr {
				errs = append(errs, fmt.Errorf("NewParams() 必须返回指针类型, 得到: %T", paramsProto))
				continue
			}
			target.ParsedParams = val.Elem().Interface()
		}
	}

	return errs
}

// executeGenerators 执行生成器，Async 时每个生成器一个 goroutine
func executeGenerators(registry *Registry, dispatch map[string][]*AnnotatedTarget, genNames []string, pkgConfigs map[string]*PackageConfig, opts *RunOptions) (map[string]*GenerateResult, []error) {
	type genResultItem struct {
		genName string
		result  *GenerateResult
		err     error
	}

	execute := func(genName string) genResultItem {
		gen, ok := registry.GetByName(genName)
		if !ok {
			return genResultItem{genName: genName}
		}
		targets := dispatch[genName]

		if opts.Verbose {
			fmt.Printf("执行生成器: %s (开始处理 %d 个目标)\n", genName, len(targets))
		}

		start := time.Now()
		genResult, err := gen.Generate(&GenerateContext{
			Targets:        targets,
			PackageConfigs: pkgConfigs,
			DefaultOutput:  opts.Output,
			Verbose:        opts.Verbose,
		})
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (耗时: %v)\n", genName, time.Since(start))
		}

		return genResultItem{genName: genName, result: genResult, err: err}
	}

	items := make([]genResultItem, len(genNames))
	if opts.Async {
		var wg sync.WaitGroup
		for i, genName := range genNames {
			wg.Add(1)
			go func() {
				defer wg.Done()
				items[i] = execute(genName)
			}()
		}
		wg.Wait()
	} else {
		for i, genName := range genNames {
			items[i] = execute(genName)
		}
	}

	results := make(map[string]*GenerateResult)
	var errs []error
	for _, item := range items {
		if item.err != nil {
			errs = append(errs, fmt.Errorf("生成器 %s 执行失败: %w", item.genName, item.err))
			continue
		}
		if item.result != nil {
			results[item.genName] = item.result
		}
	}
	return results, errs
}

// mergeDefinitions 合并同一文件的多个 gg 定义，多个生成器时添加分隔符
func mergeDefinitions(definitions []*gg.Generator, genNames []string) (*gg.Generator, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("没有定义需要合并")
	}

	merged := gg.New()
	merged.SetHeader(GeneratedHeader)

	var pkgName string
	for _, def := range definitions {
		if def.PackageName() == "" {
			continue
		}
		if pkgName == "" {
			pkgName = def.PackageName()
		} else if pkgName != def.PackageName() {
			return nil, fmt.Errorf("包名不一致: %s vs %s", pkgName, def.PackageName())
		}
	}
	if pkgName != "" {
		merged.SetPackage(pkgName)
	}

	// 不手动收集 imports，Merge 会正确处理 imports 和别名
	for i, def := range definitions {
		if len(definitions) > 1 {
			merged.Body().AddLine()
			merged.Body().AddString(fmt.Sprintf("// ================ %s ================", genNames[i]))
			merged.Body().AddLine()
		}
		merged.Merge(def)
	}

	return merged, nil
}

// writeGGFile 格式化 gg 定义并写入文件
func writeGGFile(path string, gen *gg.Generator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	return utils.WriteFormat(path, gen.Bytes())
}

// checkGGFile 比较磁盘上的文件与应生成的内容，不一致时打印 diff
func checkGGFile(path string, gen *gg.Generator) (bool, error) {
	want, err := utils.Format(path, gen.Bytes())
	if err != nil {
		return false, err
	}

	have, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	if diff := utils.Diff(path, string(have), string(want)); diff != "" {
		fmt.Printf("过期文件: %s\n%s\n", path, diff)
		return true, nil
	}
	return false, nil
}

// GetOutputPath 根据注解参数和默认规则计算输出路径
// 优先级：注解参数 > 包级插件配置 > 包级默认配置 > 命令行参数 > 默认文件名
// 模板变量：
//   - $FILE: 源文件名（不含 .go 后缀）
//   - $PACKAGE: 包名
func GetOutputPath(target *Target, ann *Annotation, defaultFileName string, pkgConfig *PackageConfig, pluginName string, cmdOutput string) string {
	var output string

	if ann != nil {
		output = ann.GetParam("output")
	}
	if output == "" && pkgConfig != nil {
		output = pkgConfig.GetPluginOutput(strings.ToLower(pluginName))
	}
	if output == "" {
		output = cmdOutput
	}
	if output == "" {
		output = defaultFileName
	}
	if output == "" {
		output = "enums.go"
	}

	output = replaceTemplateVars(output, target)
	if !strings.HasSuffix(output, ".go") {
		output += ".go"
	}

	if filepath.IsAbs(output) {
		return output
	}
	// 相对于源文件目录
	return filepath.Join(filepath.Dir(target.FilePath), output)
}

// replaceTemplateVars 替换 $FILE 和 $PACKAGE
func replaceTemplateVars(template string, target *Target) string {
	fileName := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	template = strings.ReplaceAll(template, "$FILE", fileName)
	template = strings.ReplaceAll(template, "$PACKAGE", target.PackageName)
	return template
}
