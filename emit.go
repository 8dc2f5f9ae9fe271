package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/donutnomad/enumgen/enumgen"
	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

// emitOptions emit 命令选项
type emitOptions struct {
	Package    string
	Type       string
	Values     string
	Prefix     string
	Underlying string
	Manifest   string // 清单文件，与 Type/Values 互斥
	Output     string
	Check      bool
	Table      bool
}

func runEmit(args []string) {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	opts := &emitOptions{}
	fs.StringVar(&opts.Package, "package", "", "生成文件的包名")
	fs.StringVar(&opts.Type, "type", "", "枚举类型名")
	fs.StringVar(&opts.Values, "values", "", "逗号分隔的枚举名，例如 \"Add, Sub, Mul\"")
	fs.StringVar(&opts.Prefix, "prefix", "", "常量名前缀")
	fs.StringVar(&opts.Underlying, "underlying", "int", "底层整数类型")
	fs.StringVar(&opts.Manifest, "f", "", "YAML/JSON 清单文件")
	fs.StringVar(&opts.Output, "o", "", "输出文件，为空时输出到标准输出")
	fs.BoolVar(&opts.Check, "check", false, "只检查 -o 指定的文件是否过期")
	fs.BoolVar(&opts.Table, "table", false, "只打印序号与名称对照表")
	_ = fs.Parse(args)

	if err := emit(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// emit 生成代码并写入 w 或 opts.Output
func emit(opts *emitOptions, w io.Writer) error {
	specs, err := opts.specs()
	if err != nil {
		return err
	}

	if opts.Table {
		return printTable(w, specs)
	}

	gen, err := enumgen.EmitAll(specs)
	if err != nil {
		return err
	}

	filename := lo.Ternary(opts.Output != "", opts.Output, "enums.go")
	src, err := utils.Format(filename, gen.Bytes())
	if err != nil {
		return err
	}

	switch {
	case opts.Check:
		if opts.Output == "" {
			return errors.New("-check 需要同时指定 -o")
		}
		have, err := os.ReadFile(opts.Output)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if diff := utils.Diff(opts.Output, string(have), string(src)); diff != "" {
			_, _ = fmt.Fprintln(w, diff)
			return fmt.Errorf("%s 已过期", opts.Output)
		}
		return nil
	case opts.Output != "":
		if err := os.WriteFile(opts.Output, src, 0644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", opts.Output, err)
		}
		_, _ = fmt.Fprintf(w, "生成文件: %s\n", opts.Output)
		return nil
	default:
		_, err = w.Write(src)
		return err
	}
}

func (o *emitOptions) specs() ([]enumgen.EnumSpec, error) {
	if o.Manifest != "" {
		if o.Type != "" || o.Values != "" {
			return nil, errors.New("-f 不能与 -type/-values 同时使用")
		}
		m, err := enumgen.LoadManifest(o.Manifest)
		if err != nil {
			return nil, err
		}
		return m.Specs()
	}

	if o.Package == "" || o.Type == "" {
		return nil, errors.New("缺少 -package 或 -type")
	}
	return []enumgen.EnumSpec{{
		Package:    o.Package,
		Name:       o.Type,
		Underlying: o.Underlying,
		Prefix:     o.Prefix,
		Tokens:     enumgen.SplitTokens(o.Values),
		EmitType:   true,
	}}, nil
}

// printTable 按显示宽度对齐输出，中文表头也能对齐
func printTable(w io.Writer, specs []enumgen.EnumSpec) error {
	header := []string{"序号", "常量", "名称"}

	for i, spec := range specs {
		pairs := enumgen.Normalize(spec.Tokens)
		if err := enumgen.Validate(pairs, spec.Prefix); err != nil {
			return fmt.Errorf("枚举 %s: %w", spec.Name, err)
		}

		rows := lo.Map(pairs, func(p enumgen.Pair, idx int) []string {
			return []string{strconv.Itoa(idx), spec.Prefix + p.Enumerator, p.Lookup}
		})

		widths := make([]int, len(header))
		for _, row := range append([][]string{header}, rows...) {
			for col, cell := range row {
				widths[col] = max(widths[col], runewidth.StringWidth(cell))
			}
		}

		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (%d)\n", spec.QualifiedName(), len(pairs))
		for _, row := range append([][]string{header}, rows...) {
			cells := make([]string, len(row))
			for col, cell := range row {
				cells[col] = runewidth.FillRight(cell, widths[col])
			}
			if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
				return err
			}
		}
	}
	return nil
}
