// Package field 定义组件的字段契约：按名声明字段的语义类型、默认值、
// 枚举与说明，并据此从扁平映射中抽取、校验与补全组件参数。
// 同一份契约也用于生成组件参考文档。
package field

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"bookstruct/pkg/contract"
)

// Kind: 字段的语义类型。
type Kind string

const (
	String Kind = "string"
	Int    Kind = "int"
	Bool   Kind = "bool"
	List   Kind = "list"
	// Path: 字符串，相对路径按 working_dir 解析为绝对路径。
	Path Kind = "path"
	// Group: 嵌套字段组，按 Fields 递归抽取。
	Group Kind = "group"
)

// 运行期注入的上下文键。
const (
	WorkingDir = "working_dir"
	OutputDir  = "output_dir"
	Input      = "input"
)

// Field: 单个字段声明。
type Field struct {
	Name        string
	Kind        Kind
	Default     any
	Required    bool
	Enum        []string
	Description string
	// Fields 仅对 Group 有效。
	Fields []Field
}

// Values: 抽取后的参数；值已归一为 string/int/bool/[]string/Values。
type Values map[string]any

// Extract 按字段契约从 in 抽取参数：
//  1. 契约与输入同时存在的字段：类型转换并校验枚举；
//  2. 缺省的可选字段：使用默认值（无默认值则不出现在结果中，访问器返回零值）；
//  3. 缺省的必需字段：返回 ErrMissingField。
//
// 输入中契约未声明的键被忽略（运行期上下文会注入到每个组件）。
func Extract(fields []Field, in map[string]any) (Values, error) {
	wd, _ := in[WorkingDir].(string)
	return extract(fields, in, wd, "")
}

func extract(fields []Field, in map[string]any, wd, prefix string) (Values, error) {
	out := make(Values, len(fields))
	for _, f := range fields {
		name := prefix + f.Name
		raw, ok := in[f.Name]
		if !ok || raw == nil {
			if f.Required {
				return nil, fmt.Errorf("%w: %q", contract.ErrMissingField, name)
			}
			if f.Kind == Group {
				// 缺省的组也递归补全默认值
				v, err := extract(f.Fields, map[string]any{}, wd, name+".")
				if err != nil {
					return nil, err
				}
				out[f.Name] = v
				continue
			}
			if f.Default == nil {
				continue
			}
			raw = f.Default
		}
		if f.Kind == Group {
			m, ok := asMap(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %q must be an object", contract.ErrInvalidField, name)
			}
			v, err := extract(f.Fields, m, wd, name+".")
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
			continue
		}
		v, err := convert(f, raw, wd)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", contract.ErrInvalidField, name, err)
		}
		if len(f.Enum) > 0 {
			if err := checkEnum(f, v); err != nil {
				return nil, fmt.Errorf("%w: %q %v", contract.ErrInvalidEnum, name, err)
			}
		}
		out[f.Name] = v
	}
	return out, nil
}

func convert(f Field, raw any, wd string) (any, error) {
	switch f.Kind {
	case String, "":
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string, got %T", raw)
		}
		return s, nil
	case Path:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a path string, got %T", raw)
		}
		if s != "" && wd != "" && !filepath.IsAbs(s) {
			s = filepath.Join(wd, s)
		}
		return s, nil
	case Int:
		return toInt(raw)
	case Bool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("must be a boolean, got %q", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("must be a boolean, got %T", raw)
	case List:
		return toList(raw)
	}
	return nil, fmt.Errorf("unknown kind %q", f.Kind)
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		// JSON 数字
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("must be an integer, got %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("must be an integer, got %T", raw)
}

// toList 接受数组或逗号分隔字符串。
func toList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("list items must be strings, got %T", x)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}, nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("must be a list, got %T", raw)
}

func asMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case Values:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = x
		}
		return out, true
	}
	return nil, false
}

func checkEnum(f Field, v any) error {
	switch x := v.(type) {
	case string:
		if !slices.Contains(f.Enum, x) {
			return fmt.Errorf("must be one of %v, got %q", f.Enum, x)
		}
	case []string:
		for _, s := range x {
			if !slices.Contains(f.Enum, s) {
				return fmt.Errorf("items must be in %v, got %q", f.Enum, s)
			}
		}
	default:
		s := fmt.Sprint(x)
		if !slices.Contains(f.Enum, s) {
			return fmt.Errorf("must be one of %v, got %s", f.Enum, s)
		}
	}
	return nil
}

// String 读取字符串字段；缺省为空串。
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int 读取整数字段；缺省为 0。
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// Bool 读取布尔字段；缺省为 false。
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// List 读取列表字段；缺省为 nil。
func (v Values) List(name string) []string {
	l, _ := v[name].([]string)
	return l
}

// Group 读取嵌套组；缺省为空组。
func (v Values) Group(name string) Values {
	g, _ := v[name].(Values)
	if g == nil {
		return Values{}
	}
	return g
}

// Has 判断字段是否出现在抽取结果中（显式给出或有默认值）。
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}
