package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cfgpkg "bookstruct/internal/config"
	"bookstruct/internal/diag"
	"bookstruct/internal/pipeline"
	"bookstruct/pkg/registry"
)

var pipelineRun = pipeline.Run

// 退出码：0 成功；1 check 发现异常；2 用法错误；3 配置错误；4 运行期错误。
const (
	exitAnomalies = 1
	exitUsage     = 2
)

// 默认配置文件名（当前目录下按顺序查找）。
var defaultConfigNames = []string{"bookstruct.json", "bookstruct.yaml", "bookstruct.yml"}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError 携带退出码穿过 cobra。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func execute(args []string, stdout, stderr io.Writer) int {
	// .env 不存在时忽略；已有环境变量优先
	_ = godotenv.Load()
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil && !errors.Is(ee.err, context.Canceled) {
			fmt.Fprintf(stderr, "错误: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "错误: %v\n使用 --help 查看用法\n", err)
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BOOKSTRUCT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "bookstruct",
		Short:         "手稿结构识别：书 → 卷 → 章",
		Long:          "按声明式配置装配输入、匹配器、校验器、转换器与输出，识别手稿的书/卷/章结构并校正序号。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "配置文件（.json/.yaml）；缺省查找当前目录 bookstruct.{json,yaml,yml}（ENV: BOOKSTRUCT_CONFIG）")
	pf.StringP("output-dir", "o", "out", "输出根目录（ENV: BOOKSTRUCT_OUTPUT_DIR）")
	pf.String("log-level", "", "日志级别 debug|info|warn|error（覆盖配置；ENV: BOOKSTRUCT_LOG_LEVEL）")
	pf.String("metrics-file", "", "运行结束后写出 prometheus 文本格式指标")
	pf.Bool("status", true, "终端状态提示（stderr）；TTY 动态刷新，非 TTY 打点输出")
	_ = v.BindPFlags(pf)

	for _, m := range cfgpkg.Modes() {
		root.AddCommand(newRunCmd(v, m, stderr))
	}
	root.AddCommand(newInitCmd(stdout), newDocCmd(stdout), newListCmd(stdout))
	return root
}

var modeShort = map[cfgpkg.Mode]string{
	cfgpkg.Create:  "只运行输入与输出（格式转换）",
	cfgpkg.Analyze: "完整识别：匹配 → 校验 → 转换 → 输出",
	cfgpkg.Check:   "识别并校验序号；存在异常时退出码为 1",
}

func newRunCmd(v *viper.Viper, mode cfgpkg.Mode, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   string(mode) + " [input]",
		Short: modeShort[mode],
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runMode(cmd.Context(), v, mode, input, stderr)
		},
	}
}

func runMode(ctx context.Context, v *viper.Viper, mode cfgpkg.Mode, input string, stderr io.Writer) error {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return &exitError{code: diag.ExitCode(err), err: err}
	}
	logger := diag.NewLogger(diag.Options{
		CorrID:    genCorrID(),
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		Console:   cfg.Logging.Console,
	})
	defer func() { _ = logger.Sync() }()

	rt, err := runtimeFor(v, input)
	if err != nil {
		return &exitError{code: diag.ExitCode(err), err: err}
	}
	logger.Debug("config", "effective",
		zap.String("mode", string(mode)),
		zap.String("working_dir", rt.WorkingDir),
		zap.String("output_dir", rt.OutputDir),
		zap.String("input", rt.Input),
		zap.Bool("fill_content", cfg.FillContent()))

	comp, err := cfgpkg.Assemble(cfg, mode, rt)
	if err != nil {
		logger.Error("config", diag.Classify(err), "assemble failed", err, &start)
		return &exitError{code: diag.ExitCode(err), err: fmt.Errorf("装配失败: %w", err)}
	}

	term := diag.NewTerminal(stderr, v.GetBool("status"))
	diag.SetTerminal(term)
	defer diag.SetTerminal(nil)
	term.RunStart(string(mode), len(comp.Sources), len(comp.Processors), len(comp.Sinks))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	st, err := pipelineRun(ctx, comp, logger)
	term.RunFinish(err == nil, time.Since(start))

	if p := strings.TrimSpace(v.GetString("metrics-file")); p != "" {
		if merr := diag.WriteMetrics(p); merr != nil {
			fmt.Fprintf(stderr, "提示：指标写出失败（已跳过）：%v\n", merr)
		}
	}
	if err != nil {
		return &exitError{code: diag.ExitCode(err), err: err}
	}
	if mode == cfgpkg.Check && st.Anomalies > 0 {
		return &exitError{code: exitAnomalies}
	}
	return nil
}

// loadConfig 按优先级合并：默认值 < 配置文件 < ENV < CLI。
func loadConfig(v *viper.Viper) (cfgpkg.Config, error) {
	cfg := cfgpkg.Defaults()
	path := strings.TrimSpace(v.GetString("config"))
	if path == "" {
		for _, name := range defaultConfigNames {
			if st, err := os.Stat(name); err == nil && !st.IsDir() {
				path = name
				break
			}
		}
	}
	if path != "" {
		file, err := cfgpkg.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("配置解析失败: %w", err)
		}
		cfg = cfgpkg.Merge(cfg, file)
	}
	env, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		return cfg, err
	}
	cfg = cfgpkg.Merge(cfg, env)
	// log-level 同时绑定了旗标与 ENV，最终以 viper 解析结果为准
	cfg = cfgpkg.Merge(cfg, cfgpkg.Config{Logging: cfgpkg.Logging{Level: v.GetString("log-level")}})
	return cfg, nil
}

// runtimeFor 构造运行期上下文；相对路径按当前目录解析。
func runtimeFor(v *viper.Viper, input string) (cfgpkg.Runtime, error) {
	wd, err := os.Getwd()
	if err != nil {
		return cfgpkg.Runtime{}, err
	}
	rt := cfgpkg.Runtime{WorkingDir: wd}
	if out := strings.TrimSpace(v.GetString("output-dir")); out != "" {
		rt.OutputDir = absFrom(wd, out)
	}
	if in := strings.TrimSpace(input); in != "" {
		rt.Input = absFrom(wd, in)
	}
	return rt, nil
}

func absFrom(wd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}

func newInitCmd(stdout io.Writer) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "init-config [dir]",
		Short: "在目录中生成默认配置与 .env 模板（已存在则不覆盖）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format 仅支持 json 或 yaml，实得 %q", format)
			}
			path, err := initConfig(dir, format)
			if err != nil {
				return &exitError{code: 3, err: fmt.Errorf("生成默认配置失败: %w", err)}
			}
			fmt.Fprintf(stdout, "已生成 %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "配置格式 json|yaml")
	return cmd
}

// initConfig 写出默认配置（不覆盖）与 .env 模板（已存在则跳过）。
func initConfig(dir, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "bookstruct."+format)
	b, err := cfgpkg.Marshal(cfgpkg.DefaultTemplateConfig(), path)
	if err != nil {
		return "", err
	}
	if err := writeNew(path, b); err != nil {
		return "", err
	}
	if err := writeNew(filepath.Join(dir, ".env"), []byte(dotEnvTemplate)); err != nil && !errors.Is(err, os.ErrExist) {
		return "", err
	}
	return path, nil
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const dotEnvTemplate = `# bookstruct .env 模板（由 init-config 生成）
# 优先级：CLI > ENV(.env) > 配置文件
# 空值表示未设置。

# 配置与输出
BOOKSTRUCT_CONFIG=
BOOKSTRUCT_OUTPUT_DIR=

# 日志
BOOKSTRUCT_LOG_LEVEL=
BOOKSTRUCT_LOG_FILE=
BOOKSTRUCT_LOG_MAX_SIZE_MB=
BOOKSTRUCT_LOG_CONSOLE=

# 匹配
BOOKSTRUCT_FILL_CONTENT=
`

func newDocCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "doc",
		Short: "以 Markdown 输出全部组件的字段说明",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "# bookstruct 组件参考\n\n")
			return registry.WriteDoc(stdout)
		},
	}
}

func newListCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出已注册的组件",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range registry.Categories() {
				fmt.Fprintf(stdout, "%s:\n", c)
				for _, in := range registry.List(c) {
					fmt.Fprintf(stdout, "  - %-10s %s\n", in.Class, in.Description)
				}
			}
		},
	}
}

func genCorrID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
