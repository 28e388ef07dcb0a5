// Package fsx 提供输出根目录下的原子写入与输入目录的稳定遍历。
package fsx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bookstruct/pkg/contract"
)

// Options: 写入器选项。
type Options struct {
	// Root: 输出根目录（必需）。
	Root string
	// Direct: 为真时直接截断覆盖；默认同目录临时文件 + rename 原子替换。
	Direct bool
	// PermFile/PermDir: 为 0 时使用 0644/0755。
	PermFile os.FileMode
	PermDir  os.FileMode
}

// Writer 将产物写到 Root 下的相对路径；拒绝越界路径。
type Writer struct {
	root   string
	direct bool
	permF  os.FileMode
	permD  os.FileMode
}

var _ contract.Writer = (*Writer)(nil)

// NewWriter 创建写入器。
func NewWriter(opts Options) (*Writer, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, fmt.Errorf("%w: output_dir is empty", contract.ErrInvalidConfig)
	}
	pf, pd := opts.PermFile, opts.PermDir
	if pf == 0 {
		pf = 0o644
	}
	if pd == 0 {
		pd = 0o755
	}
	return &Writer{root: opts.Root, direct: opts.Direct, permF: pf, permD: pd}, nil
}

// Root 返回输出根目录。
func (w *Writer) Root() string { return w.root }

// Write 将 r 的全部字节写入 id 映射的目标路径。
func (w *Writer) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := w.Path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), w.permD); err != nil {
		return err
	}
	if w.direct {
		return w.writeDirect(ctx, dest, r)
	}
	return w.writeAtomic(ctx, dest, r)
}

// WriteBytes 为 Write 的便捷形式。
func (w *Writer) WriteBytes(ctx context.Context, id contract.ArtifactID, b []byte) error {
	return w.Write(ctx, id, bytes.NewReader(b))
}

// Path 将产物标识映射为 Root 下的绝对路径：
// 禁止绝对路径、父级逃逸与 Windows 卷名。
func (w *Writer) Path(id contract.ArtifactID) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(string(id)))
	if rel == "." || rel == "" || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %q", contract.ErrPathInvalid, id)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", contract.ErrPathInvalid, id)
	}
	return filepath.Join(w.root, rel), nil
}

func (w *Writer) writeDirect(ctx context.Context, dest string, r io.Reader) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.permF)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return err
	}
	return bw.Flush()
}

func (w *Writer) writeAtomic(ctx context.Context, dest string, r io.Reader) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, w.permF)

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	bw := bufio.NewWriter(tmp)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// 平台特定的原子替换（或最佳努力）
	if err := osReplace(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = syncDir(dir)
	return nil
}

// readerWithCtx: 每次 Read 前检查 ctx 是否已取消。
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
