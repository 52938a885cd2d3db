package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"image2svg/config"
	"image2svg/converter"
	"image2svg/report"
	i2stypes "image2svg/type"
)

// NewConvertCmd 创建 convert 命令
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input|->",
		Short: "Convert a raster image to SVG",
		Long: `Convert quantizes the colors of an image and writes every color region as a
filled SVG path. Larger regions are drawn first.

Use "-" as input to read the image from stdin; --output is then required.

Examples:
  image2svg convert photo.png
  image2svg convert photo.png -o out.svg --num-colors 8 --dilate-iterations 0
  cat photo.png | image2svg convert - -o out.svg --report out.md

Options are read from --config, ./.image2svg.yaml or
$XDG_CONFIG_HOME/image2svg/config.yaml, and flags override the file.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvertCmd,
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringP("output", "o", "", "Output SVG path (default: input path with .svg extension)")
	f.StringP("config", "c", "", "Configuration file path")
	f.String("report", "", "Write a Markdown summary to this path")

	f.IntP("num-colors", "n", d.NumColors, "Number of palette colors")
	f.Bool("sharpen", d.ApplySharpening, "Apply a sharpening filter")
	f.Int("median-blur-ksize", d.MedianBlurKsize, "Median blur kernel size, 0 disables")
	f.Int("gaussian-blur-ksize", d.GaussianBlurKsize, "Gaussian blur kernel size, 0 disables")
	f.Int("dilate-iterations", d.DilateIterations, "Dilation iterations for each color mask")
	f.Float64("epsilon-factor", d.EpsilonFactor, "Path simplification tolerance relative to the contour perimeter")
	f.String("bg-color", d.BackgroundColor, "Background color for transparent pixels, 'R,G,B' or '#rrggbb'")
	f.Bool("resize", d.ApplyResizing, "Resize the image so its longest side equals --max-side-length")
	f.Int("max-side-length", d.MaxSideLength, "Longest side after resizing")
	f.String("resize-policy", d.ResizePolicy, "Resize policy: shrink or upscale")
	f.Bool("add-stroke", d.AddStroke, "Outline every path")
	f.String("stroke-color", d.StrokeColor, "Stroke color, 'R,G,B' or '#rrggbb'")
	f.Float64("stroke-width", d.StrokeWidth, "Stroke width")
	f.StringP("quantizer", "q", d.Quantizer, "Quantizer: kmeans, mediancut, sampled or dominant")
	f.Uint64("seed", d.Seed, "Random seed for the quantizer, 0 picks one")
	f.IntP("workers", "w", d.Workers, "Number of colors traced in parallel")
	f.Bool("auto-orient", d.AutoOrient, "Apply the EXIF orientation")

	return cmd
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if req.InputPath == "-" {
		if req.OutputPath == "" {
			return fmt.Errorf("%w: --output is required when reading from stdin", i2stypes.ErrInvalidParameter)
		}
		path, cleanup, err := converter.SpoolInput(cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer cleanup()
		req.InputPath = path
	}

	res, err := converter.Convert(ctx, req)
	if err != nil {
		slog.Error("conversion failed", "kind", i2stypes.ErrorKind(err), "error", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d, %d paths)\n", res.OutputPath, res.Width, res.Height, len(res.Paths))

	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath == "" {
		return nil
	}
	return writeReport(reportPath, res)
}

func writeReport(path string, res *converter.Result) error {
	f, err := os.Create(path) //nolint:gosec // 报告路径由用户指定
	if err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	if err := report.WriteMarkdown(f, res); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrWrite, err)
	}
	slog.Info("report written", "path", path)
	return nil
}

// buildRequest 读取配置文件，再用命令行中显式给出的参数覆盖
func buildRequest(cmd *cobra.Command, args []string) (converter.Request, error) {
	f := cmd.Flags()
	configPath, _ := f.GetString("config")
	opts, err := config.Load(configPath)
	if err != nil {
		return converter.Request{}, fmt.Errorf("load config %q: %w", configPath, err)
	}

	if err := applyFlags(f, &opts); err != nil {
		return converter.Request{}, err
	}

	output, _ := f.GetString("output")
	return converter.Request{InputPath: args[0], OutputPath: output, Options: opts}, nil
}

func applyFlags(f *pflag.FlagSet, opts *config.Options) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && f.Changed(name) {
			err = apply()
		}
	}

	set("num-colors", func() (e error) { opts.NumColors, e = f.GetInt("num-colors"); return })
	set("sharpen", func() (e error) { opts.ApplySharpening, e = f.GetBool("sharpen"); return })
	set("median-blur-ksize", func() (e error) { opts.MedianBlurKsize, e = f.GetInt("median-blur-ksize"); return })
	set("gaussian-blur-ksize", func() (e error) { opts.GaussianBlurKsize, e = f.GetInt("gaussian-blur-ksize"); return })
	set("dilate-iterations", func() (e error) { opts.DilateIterations, e = f.GetInt("dilate-iterations"); return })
	set("epsilon-factor", func() (e error) { opts.EpsilonFactor, e = f.GetFloat64("epsilon-factor"); return })
	set("bg-color", func() (e error) { opts.BackgroundColor, e = f.GetString("bg-color"); return })
	set("resize", func() (e error) { opts.ApplyResizing, e = f.GetBool("resize"); return })
	set("max-side-length", func() (e error) { opts.MaxSideLength, e = f.GetInt("max-side-length"); return })
	set("resize-policy", func() (e error) { opts.ResizePolicy, e = f.GetString("resize-policy"); return })
	set("add-stroke", func() (e error) { opts.AddStroke, e = f.GetBool("add-stroke"); return })
	set("stroke-color", func() (e error) { opts.StrokeColor, e = f.GetString("stroke-color"); return })
	set("stroke-width", func() (e error) { opts.StrokeWidth, e = f.GetFloat64("stroke-width"); return })
	set("quantizer", func() (e error) { opts.Quantizer, e = f.GetString("quantizer"); return })
	set("seed", func() (e error) { opts.Seed, e = f.GetUint64("seed"); return })
	set("workers", func() (e error) { opts.Workers, e = f.GetInt("workers"); return })
	set("auto-orient", func() (e error) { opts.AutoOrient, e = f.GetBool("auto-orient"); return })
	return err
}
