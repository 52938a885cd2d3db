package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	i2stypes "image2svg/type"
)

// SpoolInput 把 r 的内容写入新建的临时目录，返回文件路径和清理函数。
// 出错时临时目录已经删除。
func SpoolInput(r io.Reader) (string, func(), error) {
	dir, err := os.MkdirTemp("", "image2svg-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "input")
	f, err := os.Create(path) //nolint:gosec // 路径位于刚创建的临时目录
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	return path, cleanup, nil
}
