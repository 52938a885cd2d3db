// Package converter 对单个请求执行完整的位图转 SVG 流水线
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"image2svg/color2svg"
	"image2svg/config"
	"image2svg/image2color"
	i2stypes "image2svg/type"
)

// Request 一次转换的输入、输出和参数
type Request struct {
	InputPath  string
	OutputPath string
	Options    config.Options
}

// Result 转换成功后的摘要
type Result struct {
	InputPath  string
	OutputPath string
	Width      int
	Height     int
	Palette    []i2stypes.RGB
	Paths      []i2stypes.PathRecord
	Stroke     *i2stypes.Stroke
}

// Vertices 所有路径的顶点总数
func (r *Result) Vertices() int {
	n := 0
	for _, p := range r.Paths {
		n += p.Vertices
	}
	return n
}

// DefaultOutputPath 把输入路径的扩展名换成 .svg
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
}

// Convert 执行完整流水线并写出 SVG。
// 检查顺序：颜色格式，输入文件，参数，然后处理。失败时不会留下输出文件。
func Convert(ctx context.Context, req Request) (*Result, error) {
	opts := req.Options
	output := req.OutputPath
	if output == "" {
		output = DefaultOutputPath(req.InputPath)
	}

	bg, err := image2color.ParseColor(opts.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("background color: %w", err)
	}
	var stroke *i2stypes.Stroke
	if opts.AddStroke {
		sc, err := image2color.ParseColor(opts.StrokeColor)
		if err != nil {
			return nil, fmt.Errorf("stroke color: %w", err)
		}
		stroke = &i2stypes.Stroke{Color: sc, Width: opts.StrokeWidth}
	}

	if _, err := os.Stat(req.InputPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", i2stypes.ErrInputNotFound, req.InputPath)
		}
		return nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Loading image...", "input", req.InputPath)
	img, err := image2color.Load(req.InputPath, image2color.LoadOptions{
		Background:    bg,
		Resize:        opts.ApplyResizing,
		MaxSideLength: opts.MaxSideLength,
		AllowUpscale:  opts.ResizePolicy == config.ResizeUpscale,
		AutoOrient:    opts.AutoOrient,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Preprocessing image...")
	img = image2color.Preprocess(img, image2color.PreprocessOptions{
		MedianBlurKsize:   opts.MedianBlurKsize,
		GaussianBlurKsize: opts.GaussianBlurKsize,
		Sharpen:           opts.ApplySharpening,
	})

	slog.Info("Quantizing colors...", "colors", opts.NumColors, "method", opts.Quantizer)
	quantized, palette, err := image2color.Quantize(img, opts.NumColors, image2color.QuantizeOptions{
		Method: image2color.Method(opts.Quantizer),
		Seed:   opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Tracing color regions...", "workers", opts.Workers)
	paths, err := color2svg.ConvertToPaths(ctx, quantized, palette, color2svg.ExtractOptions{
		DilateIterations: opts.DilateIterations,
		EpsilonFactor:    opts.EpsilonFactor,
		Workers:          opts.Workers,
	})
	if err != nil {
		return nil, err
	}
	color2svg.SortByArea(paths)

	b := quantized.Bounds()
	doc := i2stypes.VectorDocument{
		Width:  b.Dx(),
		Height: b.Dy(),
		Paths:  paths,
		Stroke: stroke,
	}
	slog.Info("Writing SVG...", "output", output, "paths", len(paths))
	if err := color2svg.SaveSVG(output, doc); err != nil {
		return nil, err
	}

	return &Result{
		InputPath:  req.InputPath,
		OutputPath: output,
		Width:      doc.Width,
		Height:     doc.Height,
		Palette:    palette,
		Paths:      paths,
		Stroke:     stroke,
	}, nil
}

// Run 是面向调用方的入口：返回是否成功和一条可读消息，错误类型写入日志的 kind 字段
func Run(ctx context.Context, req Request) (bool, string) {
	res, err := Convert(ctx, req)
	if err != nil {
		slog.Error("conversion failed", "input", req.InputPath, "kind", i2stypes.ErrorKind(err), "error", err)
		return false, err.Error()
	}
	return true, fmt.Sprintf("converted %s to %s (%dx%d, %d paths)",
		res.InputPath, res.OutputPath, res.Width, res.Height, len(res.Paths))
}
