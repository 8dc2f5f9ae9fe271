package enumgen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/bytedance/sonic"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/donutnomad/gg"
	"gopkg.in/yaml.v3"
)

// Manifest 描述同一个包内的一组枚举，可由 YAML 或 JSON 加载
//
//	package: instr
//	enums:
//	  - name: Type
//	    values: "Debug, Loadc, Add"
//	    doc: "{{ .Name }} enumerates {{ len .Tokens }} opcodes"
type Manifest struct {
	Package string         `yaml:"package" json:"package"`
	Enums   []ManifestEnum `yaml:"enums" json:"enums"`
}

type ManifestEnum struct {
	Name   string    `yaml:"name" json:"name"`
	Values TokenList `yaml:"values" json:"values"`
	Prefix string    `yaml:"prefix" json:"prefix"`
	Type   string    `yaml:"type" json:"type"`
	Doc    string    `yaml:"doc" json:"doc"` // text/template，可使用 sprig 函数
}

// TokenList 接受逗号分隔的字符串或字符串数组
type TokenList []string

func (l *TokenList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = SplitTokens(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = trimAll(items)
		return nil
	default:
		return fmt.Errorf("第 %d 行: values 必须是字符串或数组", value.Line)
	}
}

func (l *TokenList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := sonic.Unmarshal(data, &text); err != nil {
			return err
		}
		*l = SplitTokens(text)
		return nil
	}

	var items []string
	if err := sonic.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("values 必须是字符串或数组: %w", err)
	}
	*l = trimAll(items)
	return nil
}

func trimAll(items []string) []string {
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

// LoadManifest 按扩展名读取 .yaml / .yml / .json 清单
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取清单 %s 失败: %w", path, err)
	}
	return ParseManifest(data, filepath.Ext(path))
}

// ParseManifest 解析清单内容，format 为文件扩展名
func ParseManifest(data []byte, format string) (*Manifest, error) {
	var m Manifest

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("解析 YAML 清单失败: %w", err)
		}
	case "json":
		if err := sonic.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("解析 JSON 清单失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的清单格式 %q", format)
	}

	if m.Package == "" {
		return nil, fmt.Errorf("清单缺少 package")
	}
	return &m, nil
}

// Specs 将清单转换为 EnumSpec，并渲染 doc 模板
func (m *Manifest) Specs() ([]EnumSpec, error) {
	specs := make([]EnumSpec, 0, len(m.Enums))
	var errs []error

	for i, e := range m.Enums {
		spec := EnumSpec{
			Package:    m.Package,
			Name:       e.Name,
			Underlying: e.Type,
			Prefix:     e.Prefix,
			Tokens:     []string(e.Values),
			EmitType:   true,
		}
		if e.Doc != "" {
			doc, err := RenderDoc(e.Doc, spec)
			if err != nil {
				errs = append(errs, fmt.Errorf("enums[%d] %s: %w", i, e.Name, err))
				continue
			}
			spec.Doc = doc
		}
		specs = append(specs, spec)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return specs, nil
}

// RenderDoc 以 spec 为数据渲染文档模板
func RenderDoc(text string, spec EnumSpec) (string, error) {
	tmpl, err := template.New("doc").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("解析 doc 模板失败: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("渲染 doc 模板失败: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// EmitAll 将同一个包的多个枚举生成到一个 gg 定义中
// 所有枚举的错误一并返回
func EmitAll(specs []EnumSpec) (*gg.Generator, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("没有需要生成的枚举")
	}

	gen := gg.New()
	gen.SetHeader(plugin.GeneratedHeader)
	gen.SetPackage(specs[0].Package)

	var errs []error
	names := make(map[string]bool)
	idents := make(map[string]string)

	for _, spec := range specs {
		if spec.Package != specs[0].Package {
			errs = append(errs, fmt.Errorf("枚举 %s 的包名 %s 与 %s 不一致", spec.Name, spec.Package, specs[0].Package))
			continue
		}
		if names[spec.Name] {
			errs = append(errs, fmt.Errorf("枚举 %s 重复定义", spec.Name))
			continue
		}

		pairs := Normalize(spec.Tokens)
		def, err := Emit(spec, pairs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if conflict := claimIdents(idents, spec, pairs); conflict != "" {
			errs = append(errs, fmt.Errorf("枚举 %s 的标识符 %s 与枚举 %s 冲突: %w", spec.Name, conflict, idents[conflict], ErrConflict))
			continue
		}
		names[spec.Name] = true

		if len(names) > 1 {
			gen.Body().AddLine()
		}
		gen.Merge(def)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return gen, nil
}
