package contract

import "context"

// Source: 输入源抽象（文本文件/目录/CSV 清单/EPUB）。
// 约束：
// 1) 有限、有序、单次遍历，不可重启；
// 2) 每个片段产出一个 Record，类型默认为 unrecognized（空白行可直接标为 blank）；
// 3) 可附带 file/line/raw 等属性；
// 4) 不在内部起并发；yield 返回错误时立即停止并原样上抛。
type Source interface {
	Iterate(ctx context.Context, yield func(Record) error) error
}
