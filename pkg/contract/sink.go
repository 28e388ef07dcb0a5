package contract

import "context"

// Sink: 按流顺序逐条接收记录，最终由 Finalize 触发落盘。
// 约束：
//  1. 可忽略与自身无关的记录；
//  2. 可在内部缓冲，直到 Finalize 才物化输出；
//  3. 错误直接上抛（视为致命 I/O 错误）。
type Sink interface {
	Accept(ctx context.Context, rec Record) error
	Finalize(ctx context.Context) error
}
