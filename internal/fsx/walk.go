package fsx

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Walker 以稳定顺序遍历输入：同级先目录后文件，各自按字典序。
// 目录符号链接不跟随；指向常规文件的符号链接视为文件。
type Walker struct {
	// 以小写基名保存
	exclude map[string]struct{}
}

// NewWalker 构造遍历器；excludeDirNames 按基名（忽略大小写）跳过目录。
func NewWalker(excludeDirNames []string) *Walker {
	ex := make(map[string]struct{}, len(excludeDirNames))
	for _, n := range excludeDirNames {
		if n = strings.TrimSpace(n); n != "" {
			ex[strings.ToLower(n)] = struct{}{}
		}
	}
	return &Walker{exclude: ex}
}

// Visit 回调：path 为完整路径，isDir 表示目录条目。
type Visit func(path string, isDir bool) error

// Files 对 root 下（或 root 本身）的每个常规文件调用 fn。
func (w *Walker) Files(ctx context.Context, root string, fn func(path string) error) error {
	return w.Walk(ctx, root, func(p string, isDir bool) error {
		if isDir {
			return nil
		}
		return fn(p)
	})
}

// Walk 先序遍历：目录条目先于其内容回调；root 本身不回调。
// root 为常规文件时只回调该文件。
func (w *Walker) Walk(ctx context.Context, root string, fn Visit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.walkDir(ctx, root, fn)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return fn(root, false)
}

func (w *Walker) walkDir(ctx context.Context, dir string, fn Visit) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !e.IsDir() {
			continue
		}
		if _, skip := w.exclude[strings.ToLower(e.Name())]; skip {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := fn(p, true); err != nil {
			return err
		}
		if err := w.walkDir(ctx, p, fn); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if ok, err := regular(p, e); err != nil {
			return err
		} else if !ok {
			continue
		}
		if err := fn(p, false); err != nil {
			return err
		}
	}
	return nil
}

// regular 判断条目是否为常规文件（跟随指向文件的符号链接）。
func regular(p string, e fs.DirEntry) (bool, error) {
	if e.Type()&fs.ModeSymlink != 0 {
		t, err := os.Stat(p)
		if err != nil {
			return false, err
		}
		return t.Mode().IsRegular(), nil
	}
	return e.Type().IsRegular(), nil
}
