package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"bookstruct/pkg/contract"
)

// EnvPrefix 环境变量前缀。
const EnvPrefix = "BOOKSTRUCT_"

// Defaults 返回带有安全默认值的 Config 雏形。
// 组件不设默认（必须由配置文件提供）。
func Defaults() Config {
	fill := true
	return Config{
		Matching: Matching{FillContent: &fill},
		Logging:  Logging{Level: "info", MaxSizeMB: 20},
	}
}

// Load 按扩展名选择解码器：.yaml/.yml 为 YAML，其余按 JSON。
func Load(path string) (Config, error) {
	if isYAML(path) {
		return LoadYAML(path, nil)
	}
	return LoadJSON(path, nil)
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	r, closer, err := open(path, raw)
	if err != nil {
		return cfg, err
	}
	defer closer()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", contract.ErrInvalidConfig, name(path), err)
	}
	return cfg, nil
}

// LoadYAML 从文件路径或原始 YAML 解析 Config（严格拒绝未知字段）。
func LoadYAML(path string, raw []byte) (Config, error) {
	var cfg Config
	r, closer, err := open(path, raw)
	if err != nil {
		return cfg, err
	}
	defer closer()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %v", contract.ErrInvalidConfig, name(path), err)
	}
	return cfg, nil
}

// Marshal 按扩展名编码配置（init-config 使用）。
func Marshal(cfg Config, path string) ([]byte, error) {
	if isYAML(path) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func open(path string, raw []byte) (io.Reader, func(), error) {
	switch {
	case len(raw) > 0:
		return bytes.NewReader(raw), func() {}, nil
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	return nil, nil, fmt.Errorf("%w: no config source provided", contract.ErrInvalidConfig)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func name(path string) string {
	if path == "" {
		return "<inline>"
	}
	return path
}

// Merge 按优先级合并（后者覆盖前者）。
// objects 按类别整体替换；标量空值不覆盖。
func Merge(base, over Config) Config {
	out := base
	if len(over.Objects) > 0 {
		objs := make(Objects, len(base.Objects)+len(over.Objects))
		for k, v := range base.Objects {
			objs[k] = cloneObjects(v)
		}
		for k, v := range over.Objects {
			objs[k] = cloneObjects(v)
		}
		out.Objects = objs
	}
	if over.Matching.FillContent != nil {
		v := *over.Matching.FillContent
		out.Matching.FillContent = &v
	}
	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	if s := strings.TrimSpace(over.Logging.File); s != "" {
		out.Logging.File = s
	}
	if over.Logging.MaxSizeMB > 0 {
		out.Logging.MaxSizeMB = over.Logging.MaxSizeMB
	}
	if over.Logging.Console {
		out.Logging.Console = true
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 支持：LOG_LEVEL, LOG_FILE, LOG_MAX_SIZE_MB, LOG_CONSOLE, FILL_CONTENT；无法解析的值忽略。
// CONFIG 与 OUTPUT_DIR 属于运行参数，由命令行层读取。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		switch strings.TrimPrefix(key, EnvPrefix) {
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		case "LOG_FILE":
			over.Logging.File = strings.TrimSpace(val)
		case "LOG_MAX_SIZE_MB":
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && n > 0 {
				over.Logging.MaxSizeMB = n
			}
		case "LOG_CONSOLE":
			if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
				over.Logging.Console = b
			}
		case "FILL_CONTENT":
			if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
				over.Matching.FillContent = &b
			}
		}
	}
	return over, nil
}

func cloneObjects(in []Object) []Object {
	if in == nil {
		return nil
	}
	out := make([]Object, len(in))
	for i, o := range in {
		c := make(Object, len(o))
		for k, v := range o {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
