package main

import (
	"bytes"
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/donutnomad/enumgen/plugin"
	"github.com/fsnotify/fsnotify"
)

// DevOptions dev 命令选项
type DevOptions struct {
	Patterns []string
	Verbose  bool
	Output   string
	Async    bool
	Debounce time.Duration // 同一个包连续变动时，最后一次变动后再等待的时间
}

func runDev(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	opts := &DevOptions{
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   *output,
		Async:    *async,
		Debounce: *debounce,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dev(ctx, plugin.Global(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// dev 先完整生成一次，然后监听目录，按包重新生成，直到 ctx 结束
func dev(ctx context.Context, registry *plugin.Registry, opts *DevOptions) error {
	if len(registry.Generators()) == 0 {
		return fmt.Errorf("没有已注册的生成器")
	}

	dirs, err := collectWatchDirs(opts.Patterns)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("没有找到需要监听的目录")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
		}
		if opts.Verbose {
			fmt.Printf("监听目录: %s\n", dir)
		}
	}

	generate(ctx, registry, opts, opts.Patterns)

	s := newDevSession(ctx, registry, opts, watcher)
	defer s.pending.Stop()

	fmt.Printf("开发模式已启动，监听 %d 个目录，按 Ctrl+C 退出\n\n", len(dirs))
	s.loop()
	fmt.Println("\n正在退出...")
	return nil
}

type devSession struct {
	ctx      context.Context
	opts     *DevOptions
	registry *plugin.Registry
	watcher  *fsnotify.Watcher
	matcher  *plugin.Scanner
	pending  *debouncer
}

func newDevSession(ctx context.Context, registry *plugin.Registry, opts *DevOptions, watcher *fsnotify.Watcher) *devSession {
	return &devSession{
		ctx:      ctx,
		opts:     opts,
		registry: registry,
		watcher:  watcher,
		matcher:  plugin.NewScanner(plugin.WithAnnotationFilter(registry.Annotations()...)),
		pending:  newDebouncer(opts.Debounce),
	}
}

func (s *devSession) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			if s.opts.Verbose {
				fmt.Printf("监听错误: %v\n", err)
			}
		}
	}
}

func (s *devSession) handle(event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Has(fsnotify.Create) && isDir(path):
		// 新建的包目录也加入监听
		if !skipWatchDir(filepath.Base(path)) && s.watcher != nil {
			if err := s.watcher.Add(path); err == nil && s.opts.Verbose {
				fmt.Printf("监听目录: %s\n", path)
			}
		}
		return
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		// 载体文件或生成文件被删除或改名，都需要重新生成该包
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			s.schedule(filepath.Dir(path))
		}
		return
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
	default:
		return
	}

	// 自己写出的文件不再触发生成
	if !plugin.IsSourceFile(path) || isGeneratedFile(path) {
		return
	}

	pkgDir := filepath.Dir(path)
	matched, err := s.matcher.QuickMatchFile(path)
	if err != nil {
		if s.opts.Verbose {
			fmt.Printf("读取 %s 失败: %v\n", path, err)
		}
		return
	}
	// 没有注解但包内还有生成文件时，注解可能刚被删掉
	if !matched && len(generatedFiles(pkgDir)) == 0 {
		return
	}

	// 编辑器保存到一半时文件可能不完整，等下一次写入
	if err := checkSyntax(path); err != nil {
		fmt.Printf("语法错误 %s: %v\n", path, err)
		return
	}

	if s.opts.Verbose {
		fmt.Printf("检测到变化: %s\n", path)
	}
	s.schedule(pkgDir)
}

func (s *devSession) schedule(pkgDir string) {
	s.pending.Trigger(pkgDir, func() {
		if s.ctx.Err() != nil {
			return
		}
		stats, ok := generate(s.ctx, s.registry, s.opts, []string{pkgDir})
		if ok {
			pruneGenerated(pkgDir, stats.Files)
		}
	})
}

// generate 对给定路径运行一次生成，错误只打印不退出
func generate(ctx context.Context, registry *plugin.Registry, opts *DevOptions, patterns []string) (*plugin.RunStats, bool) {
	stats, err := plugin.RunWithOptionsAndStats(ctx, &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  opts.Verbose,
		Output:   opts.Output,
		Async:    opts.Async,
	})
	switch {
	case err != nil:
		fmt.Printf("生成失败: %v\n", err)
		return nil, false
	case stats.FileCount > 0:
		fmt.Printf("生成完成: %d 个文件 (耗时: %v)\n", stats.FileCount, stats.TotalDuration)
	case opts.Verbose:
		fmt.Println("生成完成: 无文件生成")
	}
	return stats, true
}

// pruneGenerated 删除 dir 中本次没有生成的 enumgen 文件
func pruneGenerated(dir string, keep []string) {
	kept := make(map[string]bool, len(keep))
	for _, path := range keep {
		if abs, err := filepath.Abs(path); err == nil {
			kept[abs] = true
		}
	}

	for _, path := range generatedFiles(dir) {
		abs, err := filepath.Abs(path)
		if err != nil || kept[abs] {
			continue
		}
		if err := os.Remove(path); err != nil {
			fmt.Printf("删除过期文件 %s 失败: %v\n", path, err)
			continue
		}
		fmt.Printf("删除过期文件: %s\n", path)
	}
}

// generatedFiles 返回 dir 中由 enumgen 生成的 Go 文件
func generatedFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			continue
		}
		if isGeneratedFile(path) {
			files = append(files, path)
		}
	}
	return files
}

func isGeneratedFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := []byte("// " + plugin.GeneratedHeader)
	buf := make([]byte, len(header))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return bytes.Equal(buf, header)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// debouncer 按 key 合并短时间内的多次触发，只执行最后一次
type debouncer struct {
	delay  time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// 已被新的触发替换
		if d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// Stop 取消所有尚未执行的触发
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

func (d *debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

func checkSyntax(path string) error {
	_, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.AllErrors|parser.SkipObjectResolution)
	return err
}

func skipWatchDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata"
}

// collectWatchDirs 把路径模式展开为目录列表，"/..." 结尾时包含所有子目录
func collectWatchDirs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "...")
		root = strings.TrimSuffix(root, "/")
		if root == "" {
			root = "."
		}

		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		if !recursive {
			add(abs)
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != abs && skipWatchDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}
