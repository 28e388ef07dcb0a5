package contract

// Processor: 纯记录变换（record in → record out）。
// 无法分类/校验时原样返回（必要时附带 error 属性），不得中断运行。
type Processor interface {
	Process(rec Record) Record
}

// ProcessorFunc 适配普通函数。
type ProcessorFunc func(Record) Record

func (f ProcessorFunc) Process(rec Record) Record { return f(rec) }

// Matcher: 识别片段并返回分类后的记录。
// ok=false 表示未匹配，此时返回值应被调用方忽略。
type Matcher interface {
	Match(rec Record) (Record, bool)
}
