package config

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON/YAML 均使用 snake_case；未知字段在解析期失败。
type Config struct {
	// Objects: 类别 → 组件对象列表（按配置顺序装配）。
	Objects  Objects  `json:"objects" yaml:"objects"`
	Matching Matching `json:"matching" yaml:"matching"`
	Logging  Logging  `json:"logging" yaml:"logging"`
}

// Objects: 类别名 → 组件对象列表。
type Objects map[string][]Object

// Object: 单个组件声明；"class" 为注册名，其余键为字段。
type Object map[string]any

// ClassKey 组件对象中注册名的键。
const ClassKey = "class"

// Class 返回对象声明的注册名；缺省或非字符串时为空。
func (o Object) Class() string {
	s, _ := o[ClassKey].(string)
	return s
}

// Matching: 匹配阶段的全局设置。
type Matching struct {
	// FillContent: 未命中的非空记录按最近标题归为简介/正文；nil 表示未设置。
	FillContent *bool `json:"fill_content,omitempty" yaml:"fill_content,omitempty"`
}

// Logging: 日志设置；File 为空时只写控制台。
type Logging struct {
	Level     string `json:"level,omitempty" yaml:"level,omitempty"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	// Console: 同时输出可读日志到 stderr。
	Console bool `json:"console,omitempty" yaml:"console,omitempty"`
}

// FillContent 返回生效的 fill_content（默认 true）。
func (c Config) FillContent() bool {
	if c.Matching.FillContent == nil {
		return true
	}
	return *c.Matching.FillContent
}
