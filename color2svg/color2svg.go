package color2svg

import (
	"context"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	i2stypes "image2svg/type"
)

// ExtractOptions 区域提取和路径生成参数
type ExtractOptions struct {
	DilateIterations int
	EpsilonFactor    float64
	// Workers 并行处理的颜色数上限，<=0 时串行
	Workers int
}

// ConvertToPaths 对每种调色板颜色独立提取路径。
// 结果按调色板顺序拼接，与并行度无关。重复的调色板颜色只处理一次。
func ConvertToPaths(ctx context.Context, img *image.NRGBA, palette []i2stypes.RGB, opts ExtractOptions) ([]i2stypes.PathRecord, error) {
	colors := distinctColors(palette)
	results := make([][]i2stypes.PathRecord, len(colors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	for i, c := range colors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layer := i2stypes.ColorLayer{Color: c, Mask: BuildMask(img, c)}
			results[i] = layerPaths(layer, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []i2stypes.PathRecord
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// layerPaths 单个颜色图层：提取外轮廓并转为路径
func layerPaths(layer i2stypes.ColorLayer, opts ExtractOptions) []i2stypes.PathRecord {
	contours := ExtractRegions(layer.Mask, opts.DilateIterations)

	var records []i2stypes.PathRecord
	for _, c := range contours {
		d, vertices := BuildPath(c, opts.EpsilonFactor)
		if d == "" {
			continue
		}
		records = append(records, i2stypes.PathRecord{
			Area:     ContourArea(c),
			PathData: d,
			Fill:     layer.Color,
			Vertices: vertices,
		})
	}
	slog.Debug("layer traced", "color", layer.Color.String(),
		"contours", len(contours), "paths", len(records))
	return records
}

func distinctColors(palette []i2stypes.RGB) []i2stypes.RGB {
	seen := make(map[i2stypes.RGB]bool, len(palette))
	out := make([]i2stypes.RGB, 0, len(palette))
	for _, c := range palette {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
