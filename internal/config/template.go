package config

// numeralClass 序号允许的字符（阿拉伯/全角数字与中文数字）。
const numeralClass = `[0-9０-９〇零一二三四五六七八九两十廿卅卌百千]+`

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 输入为运行期 input（命令行位置参数），utf-8 文本；
// - 卷/章按“第N卷/第N章”识别，序章等特殊单元按词缀识别；
// - 输出清单、目录、整理文本与终端报告。
func DefaultTemplateConfig() Config {
	d := Defaults()
	return Config{
		Objects: Objects{
			"source": {
				{ClassKey: "text", "encoding": "utf-8", "exclude_dir_names": []string{".git"}},
			},
			"matcher": {
				{ClassKey: "numbered", "type": "volume_title", "regex": `^\s*第(` + numeralClass + `)卷\s*(.*)$`, "index_group": 1, "content_group": 2},
				{ClassKey: "numbered", "type": "chapter_title", "regex": `^\s*第(` + numeralClass + `)[章回节]\s*(.*)$`, "index_group": 1, "content_group": 2},
				{ClassKey: "special", "type": "chapter_title"},
			},
			"validator": {
				{ClassKey: "volume", "begin_index": 1, "overwrite": true},
				{ClassKey: "chapter", "begin_index": 1, "overwrite": true, "discard_chapters": false},
			},
			"transformer": {
				{ClassKey: "strip"},
				{ClassKey: "format"},
			},
			"sink": {
				{ClassKey: "csv", "name": "structure.csv"},
				{ClassKey: "toc", "name": "toc.txt", "indent": 2},
				{ClassKey: "text", "name": "book.txt"},
				{ClassKey: "report", "limit": 50},
			},
		},
		Matching: d.Matching,
		Logging:  d.Logging,
	}
}
