package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/donutnomad/enumgen/enumgen"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/samber/lo"
)

func init() {
	plugin.MustRegister(enumgen.NewEnumGenerator())
}

var (
	verbose  = flag.Bool("v", false, "详细输出")
	help     = flag.Bool("h", false, "显示帮助信息")
	output   = flag.String("output", "", "默认输出路径（支持模板变量 $FILE, $PACKAGE），为空时每个枚举输出到 <name>_enum.go")
	async    = flag.Bool("async", true, "异步执行生成器")
	check    = flag.Bool("check", false, "只检查生成文件是否过期，不写入")
	debounce = flag.Duration("debounce", 2*time.Second, "dev 模式下的防抖动时间")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()

	// 默认命令是 gen
	if len(args) == 0 {
		runGen([]string{"./..."})
		return
	}

	switch args[0] {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	case "emit":
		runEmit(args[1:])
	default:
		// 不是子命令，当作路径参数处理，执行 gen
		runGen(args)
	}
}

func runGen(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if len(registry.Generators()) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 没有已注册的生成器")
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, index int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	opts := &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   *output,
		Async:    *async,
		Check:    *check,
	}

	stats, err := plugin.RunWithOptionsAndStats(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		action := lo.Ternary(*check, "检查", "生成")
		fmt.Printf("\n统计: 扫描 %d 个目标, %s %d 个文件\n", stats.TargetCount, action, stats.FileCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `enumgen - Go 枚举代码生成工具

用法:
  enumgen [选项] [路径...]
  enumgen gen [选项] [路径...]
  enumgen dev [选项] [路径...]
  enumgen emit [emit 选项]

命令:
  gen     扫描 @Enum 注解并生成代码（默认）
  dev     启动开发模式，监听文件变动自动生成
  emit    根据命令行参数或清单文件直接输出枚举代码（enumgen emit -h 查看选项）

路径:
  支持 Go 包路径模式，如:
    ./...          递归扫描当前目录及子目录（默认）
    ./pkg/...      递归扫描指定目录
    ./instr        只扫描指定目录

选项:
`)
	flag.PrintDefaults()

	registry := plugin.Global()
	if len(registry.Generators()) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
		_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(registry))
	}

	_, _ = fmt.Fprintf(os.Stderr, `注解写法:
  // @Enum(name=Type, values=`+"`Debug, Loadc, Add`"+`)
  // @Values: Sub, Mul,
  // @Values: Halt
  const _ = ""

  // @Enum(values=`+"`Red, Green, Blue`"+`)
  type Color uint8

包级配置:
  //go:enumgen: -output `+"`$PACKAGE_enums`"+`
  //go:enumgen: plugin:enum -output `+"`zz_enums`"+`

模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名

示例:
  enumgen                                   扫描当前目录（默认 ./...）
  enumgen -v ./instr/...                    详细模式扫描 instr 目录
  enumgen -check ./...                      CI 中检查生成文件是否过期
  enumgen -output $FILE_gen ./...           指定输出文件名
  enumgen dev ./...                         开发模式，监听文件变动
  enumgen emit -package calc -type Op -values "Add, Sub, Mul"
  enumgen emit -f enums.yaml -o enums.go
`)
}
