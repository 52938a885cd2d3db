package color2svg

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	svg "github.com/ajstarks/svgo"

	i2stypes "image2svg/type"
)

// SortByArea 按面积降序稳定排序：大区域先画，细节覆盖在上面
func SortByArea(paths []i2stypes.PathRecord) {
	slices.SortStableFunc(paths, func(a, b i2stypes.PathRecord) int {
		return cmp.Compare(b.Area, a.Area)
	})
}

// WriteSVG 按 doc.Paths 的顺序输出 SVG 文档
func WriteSVG(w io.Writer, doc i2stypes.VectorDocument) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Startview(doc.Width, doc.Height, 0, 0, doc.Width, doc.Height)

	strokeAttrs := []string{`stroke="none"`}
	if doc.Stroke != nil {
		strokeAttrs = []string{
			fmt.Sprintf(`stroke="%s"`, doc.Stroke.Color),
			fmt.Sprintf(`stroke-width="%s"`, strconv.FormatFloat(doc.Stroke.Width, 'g', -1, 64)),
		}
	}

	for _, p := range doc.Paths {
		attrs := append([]string{fmt.Sprintf(`fill="%s"`, p.Fill)}, strokeAttrs...)
		canvas.Path(p.PathData, attrs...)
	}
	canvas.End()
	return bw.Flush()
}

// SaveSVG 先写入同目录下的临时文件再重命名，失败时不留下输出文件
func SaveSVG(path string, doc i2stypes.VectorDocument) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = WriteSVG(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil { //nolint:gosec // SVG 输出文件允许其他用户读取
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	return nil
}
