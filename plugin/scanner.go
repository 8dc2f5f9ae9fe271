package plugin

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段：快速文本匹配，找出可能包含注解的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	workers int
	verbose bool

	annotationFilter []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) {
		s.verbose = v
	}
}

func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// quickMatchRegex 快速匹配 @Name 或 @Name(...)
var quickMatchRegex = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)

// directivePrefix 包级配置指令
const directivePrefix = "go:enumgen:"

// Scan 扫描指定路径
// 支持: ./... ./pkg/... ./pkg /abs/path/... file.go
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	allFiles, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	empty := &ScanResult{PackageConfigs: make(map[string]*PackageConfig)}
	if len(allFiles) == 0 {
		return empty, nil
	}

	matchedFiles := s.quickMatch(ctx, allFiles)
	if len(matchedFiles) == 0 {
		return empty, ctx.Err()
	}
	if s.verbose {
		fmt.Printf("[scanner] %d/%d 个文件包含注解\n", len(matchedFiles), len(allFiles))
	}

	return s.parseFiles(ctx, matchedFiles)
}

// runWorkers 以 workers 个 goroutine 并发处理 files，结果从返回的 channel 读取
func runWorkers[T any](ctx context.Context, workers int, files []string, fn func(string) T) <-chan T {
	resultCh := make(chan T, len(files))
	fileCh := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileCh {
				resultCh <- fn(file)
			}
		}()
	}

	go func() {
		defer close(fileCh)
		for _, file := range files {
			select {
			case <-ctx.Done():
				return
			case fileCh <- file:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

// quickMatch 第一阶段：并行读取文件，检查是否包含 @xxx 或 go:enumgen:
func (s *Scanner) quickMatch(ctx context.Context, files []string) []string {
	type matchResult struct {
		file    string
		matched bool
	}

	results := runWorkers(ctx, s.workers, files, func(file string) matchResult {
		matched, err := s.QuickMatchFile(file)
		if err != nil && s.verbose {
			fmt.Printf("[scanner] 读取 %s 失败: %v\n", file, err)
		}
		return matchResult{file: file, matched: matched && err == nil}
	})

	var matched []string
	for r := range results {
		if r.matched {
			matched = append(matched, r.file)
		}
	}
	// 并发收集的顺序不确定
	slices.Sort(matched)
	return matched
}

// QuickMatchFile 快速检查文件注释中是否包含注解或 go:enumgen: 配置
// dev 模式用它判断文件变动是否需要触发生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}

		if strings.Contains(trimmed, directivePrefix) {
			return true, nil
		}

		for _, match := range quickMatchRegex.FindAllStringSubmatch(trimmed, -1) {
			if len(s.annotationFilter) == 0 || slices.Contains(s.annotationFilter, match[1]) {
				return true, nil
			}
		}
	}

	return false, scanner.Err()
}

// fileResult 单个文件的解析结果
type fileResult struct {
	types     []*AnnotatedTarget
	consts    []*AnnotatedTarget
	pkgConfig *PackageConfig
	err       error
}

// parseFiles 第二阶段：并行 AST 解析
func (s *Scanner) parseFiles(ctx context.Context, files []string) (*ScanResult, error) {
	results := runWorkers(ctx, s.workers, files, s.parseFile)

	result := &ScanResult{
		PackageConfigs: make(map[string]*PackageConfig),
	}
	for r := range results {
		if r.err != nil {
			if s.verbose {
				fmt.Printf("[scanner] 解析失败: %v\n", r.err)
			}
			continue
		}
		result.Types = append(result.Types, r.types...)
		result.Consts = append(result.Consts, r.consts...)
		if r.pkgConfig != nil {
			mergePackageConfig(result.PackageConfigs, r.pkgConfig)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortTargets(result.Types)
	sortTargets(result.Consts)
	return result, nil
}

// sortTargets 按文件路径和行号排序，保证生成结果与并发顺序无关
func sortTargets(targets []*AnnotatedTarget) {
	slices.SortFunc(targets, func(a, b *AnnotatedTarget) int {
		if c := strings.Compare(a.Target.FilePath, b.Target.FilePath); c != 0 {
			return c
		}
		return a.Target.Line - b.Target.Line
	})
}

// mergePackageConfig 合并同一包内多个文件的 go:enumgen: 配置，后发现的覆盖先发现的
func mergePackageConfig(configs map[string]*PackageConfig, cfg *PackageConfig) {
	existing, ok := configs[cfg.PackageDir]
	if !ok {
		configs[cfg.PackageDir] = cfg
		return
	}

	if cfg.DefaultOutput != "" {
		if existing.DefaultOutput != "" && existing.DefaultOutput != cfg.DefaultOutput {
			fmt.Printf("警告: 包 %s 中存在多个不同的 go:enumgen 默认输出配置，使用后发现的配置\n", cfg.PackageDir)
		}
		existing.DefaultOutput = cfg.DefaultOutput
	}
	for k, v := range cfg.PluginOutputs {
		if existingV, ok := existing.PluginOutputs[k]; ok && existingV != v {
			fmt.Printf("警告: 包 %s 中插件 %s 存在多个不同的输出配置，使用后发现的配置\n", cfg.PackageDir, k)
		}
		existing.PluginOutputs[k] = v
	}
}

// parseFile AST 解析单个文件
func (s *Scanner) parseFile(filePath string) (result fileResult) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		result.err = err
		return
	}

	result.pkgConfig = parsePackageConfig(file, filePath)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		switch genDecl.Tok {
		case token.TYPE:
			result.types = append(result.types, s.parseGenDecl(fset, filePath, file.Name.Name, genDecl, TargetType)...)
		case token.CONST:
			result.consts = append(result.consts, s.parseGenDecl(fset, filePath, file.Name.Name, genDecl, TargetConst)...)
		}
	}

	return
}

// parseGenDecl 解析 type / const 声明
// 分组声明 ( ... ) 中只使用每个 spec 自己的注释；单个声明使用声明上方的注释
func (s *Scanner) parseGenDecl(fset *token.FileSet, filePath, packageName string, decl *ast.GenDecl, kind TargetKind) []*AnnotatedTarget {
	var targets []*AnnotatedTarget

	for _, spec := range decl.Specs {
		doc := specDoc(decl, spec)
		if doc == "" {
			continue
		}

		annotations := ParseAnnotations(doc)
		if len(s.annotationFilter) > 0 {
			annotations = FilterByNames(annotations, s.annotationFilter...)
		}
		if len(annotations) == 0 {
			continue
		}

		target := &Target{
			Kind:        kind,
			PackageName: packageName,
			FilePath:    filePath,
			Position:    spec.Pos(),
			Line:        fset.Position(spec.Pos()).Line,
			Node:        spec,
		}

		switch sp := spec.(type) {
		case *ast.TypeSpec:
			target.Name = sp.Name.Name
			target.Underlying = exprString(fset, sp.Type)
		case *ast.ValueSpec:
			if len(sp.Names) == 0 {
				continue
			}
			target.Name = sp.Names[0].Name
		default:
			continue
		}

		targets = append(targets, &AnnotatedTarget{
			Target:      target,
			Annotations: annotations,
			Doc:         doc,
		})
	}

	return targets
}

// specDoc 返回 spec 的文档注释文本
func specDoc(decl *ast.GenDecl, spec ast.Spec) string {
	var doc, comment *ast.CommentGroup
	switch sp := spec.(type) {
	case *ast.TypeSpec:
		doc, comment = sp.Doc, sp.Comment
	case *ast.ValueSpec:
		doc, comment = sp.Doc, sp.Comment
	}

	if doc == nil && !decl.Lparen.IsValid() {
		doc = decl.Doc
	}
	if doc != nil {
		return doc.Text()
	}
	// 分组声明中允许使用行尾注释
	if comment != nil && decl.Lparen.IsValid() {
		return comment.Text()
	}
	return ""
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}

// collectFiles 收集所有需要扫描的文件
// 跳过隐藏目录、vendor、testdata，以及测试文件和生成的文件
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		pattern = strings.TrimSuffix(pattern, "/...")
		if pattern == "" {
			pattern = "."
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") {
				add(absPath)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == absPath {
					return nil
				}
				name := d.Name()
				if !recursive || strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata" {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsSourceFile 判断是否为需要扫描的源文件（排除测试文件和生成的文件）
func IsSourceFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".go") &&
		!strings.HasSuffix(base, "_test.go") &&
		!strings.HasSuffix(base, "_enum.go") &&
		!strings.HasSuffix(base, "_gen.go")
}

func packageDir(filePath string) string {
	return filepath.Dir(filePath)
}

// ScanWithFilter 使用注解过滤器扫描
func ScanWithFilter(ctx context.Context, annotations []string, patterns ...string) (*ScanResult, error) {
	return NewScanner(WithAnnotationFilter(annotations...)).Scan(ctx, patterns...)
}

// packageDirectiveRegex 匹配 go:enumgen: 指令
// 支持 //go:enumgen: 和 // go:enumgen: 两种写法
var packageDirectiveRegex = regexp.MustCompile(`go:enumgen:\s*(.*)`)

// parsePackageConfig 解析包级 go:enumgen: 配置
//
//	//go:enumgen: -output `$PACKAGE_enums`
//	// go:enumgen: plugin:enum -output `zz_enums`
func parsePackageConfig(file *ast.File, filePath string) *PackageConfig {
	var lines []string

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimPrefix(c.Text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			text = strings.TrimSpace(text)

			if m := packageDirectiveRegex.FindStringSubmatch(text); len(m) > 1 {
				lines = append(lines, m[1])
			}
		}
	}

	if len(lines) == 0 {
		return nil
	}
	if len(lines) > 1 {
		fmt.Printf("警告: 文件 %s 定义了多个 go:enumgen: 指令，将被忽略\n", filePath)
		return nil
	}

	return parseDirectiveLine(lines[0], filePath)
}

// parseDirectiveLine 解析单行 go:enumgen: 配置
//
//	-output `xxx`                                   默认输出
//	plugin:enum -output `xxx` plugin:other -output `yyy`  插件特定输出
func parseDirectiveLine(line string, filePath string) *PackageConfig {
	config := &PackageConfig{
		PackageDir:    packageDir(filePath),
		PluginOutputs: make(map[string]string),
	}

	parts := splitDirectiveArgs(strings.TrimSpace(line))

	var currentPlugin string
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		switch {
		case strings.HasPrefix(part, "plugin:"):
			currentPlugin = strings.ToLower(strings.TrimPrefix(part, "plugin:"))
		case part == "-output" && i+1 < len(parts):
			i++
			output := trimQuotes(parts[i])
			if currentPlugin == "" {
				config.DefaultOutput = output
			} else {
				config.PluginOutputs[currentPlugin] = output
			}
		}
	}

	if config.DefaultOutput == "" && len(config.PluginOutputs) == 0 {
		return nil
	}

	return config
}

// splitDirectiveArgs 按空格分割参数，引号内的空格保留
func splitDirectiveArgs(line string) []string {
	var parts []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == 0 && (c == '`' || c == '"' || c == '\''):
			quote = c
			current.WriteByte(c)
		case quote != 0 && c == quote:
			quote = 0
			current.WriteByte(c)
		case quote == 0 && c == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// trimQuotes 去除首尾成对的引号
func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '`' || first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
