package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/donutnomad/enumgen/enumgen"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_Coalesce(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Trigger("pkg", func() {
			calls.Add(1)
			last.Store(int32(i))
		})
	}
	assert.Equal(t, 1, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncer_KeysIndependent(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	d.Trigger("b", func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger("pkg", func() { calls.Add(1) })
	d.Stop()
	assert.Equal(t, 0, d.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestCollectWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a/b", ".git", "testdata", "vendor/x"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}

	dirs, err := collectWatchDirs([]string{root + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
	}, dirs)

	// 非递归模式只返回目录本身，重复的模式去重
	dirs, err = collectWatchDirs([]string{filepath.Join(root, "a"), filepath.Join(root, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a")}, dirs)

	_, err = collectWatchDirs([]string{filepath.Join(root, "missing") + "/..."})
	assert.Error(t, err)
}

func TestCheckSyntax(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.go")
	bad := filepath.Join(dir, "bad.go")
	require.NoError(t, os.WriteFile(good, []byte("package p\n\nconst A = 1\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("package p\n\nconst A = \n"), 0644))

	assert.NoError(t, checkSyntax(good))
	assert.Error(t, checkSyntax(bad))
}

func TestDev_InitialGenerate(t *testing.T) {
	dir := t.TempDir()
	src := "package calc\n\n// @Enum(name=Op, values=`Add, Sub, Mul`)\nconst _ = \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calc.go"), []byte(src), 0644))

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register(enumgen.NewEnumGenerator()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := dev(ctx, registry, &DevOptions{Patterns: []string{dir}, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "op_enum.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func ParseOp(name string) Op {")
}

func TestDev_NoGenerators(t *testing.T) {
	err := dev(context.Background(), plugin.NewRegistry(), &DevOptions{Patterns: []string{"."}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "没有已注册的生成器")
}

const annotatedSource = "package calc\n\n// @Enum(name=Op, values=`Add, Sub, Mul`)\nconst _ = \"\"\n"

// newTestSession 在 dir 中写入带注解的源文件并完成首次生成
func newTestSession(t *testing.T, dir string) *devSession {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calc.go"), []byte(annotatedSource), 0644))

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register(enumgen.NewEnumGenerator()))

	s := newDevSession(context.Background(), registry, &DevOptions{Debounce: 10 * time.Millisecond}, nil)
	t.Cleanup(s.pending.Stop)

	_, ok := generate(s.ctx, registry, s.opts, []string{dir})
	require.True(t, ok)
	require.FileExists(t, filepath.Join(dir, "op_enum.go"))
	return s
}

func TestDevSession_AnnotationRemoved(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, dir)

	src := filepath.Join(dir, "calc.go")
	require.NoError(t, os.WriteFile(src, []byte("package calc\n"), 0644))
	s.handle(fsnotify.Event{Name: src, Op: fsnotify.Write})
	assert.Equal(t, 1, s.pending.Pending())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "op_enum.go"))
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDevSession_SourceRemoved(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, dir)

	src := filepath.Join(dir, "calc.go")
	require.NoError(t, os.Remove(src))
	s.handle(fsnotify.Event{Name: src, Op: fsnotify.Remove})

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "op_enum.go"))
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDevSession_GeneratedFileRemoved(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, dir)

	out := filepath.Join(dir, "op_enum.go")
	require.NoError(t, os.Remove(out))
	s.handle(fsnotify.Event{Name: out, Op: fsnotify.Rename})

	// 注解仍在，生成文件被写回
	assert.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDevSession_IgnoredEvents(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, dir)

	custom := filepath.Join(dir, "zz_enums.go")
	data, err := os.ReadFile(filepath.Join(dir, "op_enum.go"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(custom, data, 0644))

	testFile := filepath.Join(dir, "calc_test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package calc\n"), 0644))

	for _, event := range []fsnotify.Event{
		{Name: filepath.Join(dir, "op_enum.go"), Op: fsnotify.Write},
		{Name: custom, Op: fsnotify.Write},
		{Name: testFile, Op: fsnotify.Write},
		{Name: testFile, Op: fsnotify.Remove},
		{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Remove},
		{Name: filepath.Join(dir, "calc.go"), Op: fsnotify.Chmod},
	} {
		s.handle(event)
		assert.Zero(t, s.pending.Pending(), "%s %s", event.Op, filepath.Base(event.Name))
	}
}

func TestDevSession_UnrelatedPackage(t *testing.T) {
	dir := t.TempDir()
	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register(enumgen.NewEnumGenerator()))
	s := newDevSession(context.Background(), registry, &DevOptions{Debounce: 10 * time.Millisecond}, nil)
	defer s.pending.Stop()

	plain := filepath.Join(dir, "plain.go")
	require.NoError(t, os.WriteFile(plain, []byte("package plain\n"), 0644))
	s.handle(fsnotify.Event{Name: plain, Op: fsnotify.Write})
	assert.Zero(t, s.pending.Pending())
}

func TestPruneGenerated(t *testing.T) {
	dir := t.TempDir()
	header := "// " + plugin.GeneratedHeader + "\n\npackage p\n"
	for _, name := range []string{"a_enum.go", "b_enum.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hand.go"), []byte("package p\n"), 0644))

	assert.Len(t, generatedFiles(dir), 2)

	pruneGenerated(dir, []string{filepath.Join(dir, "a_enum.go")})
	assert.FileExists(t, filepath.Join(dir, "a_enum.go"))
	assert.NoFileExists(t, filepath.Join(dir, "b_enum.go"))
	assert.FileExists(t, filepath.Join(dir, "hand.go"))
}
