// Package config 转换参数及其 YAML 配置文件
package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	i2stypes "image2svg/type"
)

// 默认参数
const (
	DefaultNumColors        = 16
	DefaultMedianBlurKsize  = 5
	DefaultDilateIterations = 1
	DefaultEpsilonFactor    = 0.001
	DefaultBackgroundColor  = "255,255,255"
	DefaultMaxSideLength    = 1024
	DefaultStrokeColor      = "0,0,0"
	DefaultStrokeWidth      = 1.0

	// MaxKernelSize 模糊核尺寸上限
	MaxKernelSize = 21
	// MaxDilateIterations 膨胀次数上限
	MaxDilateIterations = 5
	// MaxNumColors 调色板颜色数上限
	MaxNumColors = 256

	// AppName 用于 XDG 目录
	AppName = "image2svg"
)

// 缩放策略
const (
	ResizeShrink  = "shrink"
	ResizeUpscale = "upscale"
)

// 量化方法
const (
	QuantizerKMeans    = "kmeans"
	QuantizerMedianCut = "mediancut"
	QuantizerSampled   = "sampled"
	QuantizerDominant  = "dominant"
)

// Options 一次转换的全部参数，每个请求由配置文件和命令行参数构造
type Options struct {
	NumColors         int     `yaml:"num_colors"`
	ApplySharpening   bool    `yaml:"apply_sharpening"`
	MedianBlurKsize   int     `yaml:"median_blur_ksize"`
	GaussianBlurKsize int     `yaml:"gaussian_blur_ksize"`
	DilateIterations  int     `yaml:"dilate_iterations"`
	EpsilonFactor     float64 `yaml:"epsilon_factor"`

	// "R,G,B" 或 "#rrggbb"
	BackgroundColor string `yaml:"bg_color"`

	ApplyResizing bool   `yaml:"apply_resizing"`
	MaxSideLength int    `yaml:"max_side_length"`
	ResizePolicy  string `yaml:"resize_policy"`

	AddStroke   bool    `yaml:"add_stroke"`
	StrokeColor string  `yaml:"stroke_color"`
	StrokeWidth float64 `yaml:"stroke_width"`

	Quantizer string `yaml:"quantizer"`
	// Seed 量化器的随机种子，0 表示按时间取种子
	Seed       uint64 `yaml:"seed"`
	Workers    int    `yaml:"workers"`
	AutoOrient bool   `yaml:"auto_orient"`
}

// Default 返回默认参数
func Default() Options {
	return Options{
		NumColors:        DefaultNumColors,
		MedianBlurKsize:  DefaultMedianBlurKsize,
		DilateIterations: DefaultDilateIterations,
		EpsilonFactor:    DefaultEpsilonFactor,
		BackgroundColor:  DefaultBackgroundColor,
		MaxSideLength:    DefaultMaxSideLength,
		ResizePolicy:     ResizeShrink,
		StrokeColor:      DefaultStrokeColor,
		StrokeWidth:      DefaultStrokeWidth,
		Quantizer:        QuantizerKMeans,
		Workers:          runtime.NumCPU(),
	}
}

// Validate 检查取值范围和枚举值，返回的错误都包装了 i2stypes.ErrInvalidParameter。
// 偶数核尺寸不在这里报错，由预处理修正。
func (o Options) Validate() error {
	var err error
	switch {
	case o.NumColors < 2 || o.NumColors > MaxNumColors:
		err = fmt.Errorf("%w: got %d", ErrInvalidNumColors, o.NumColors)
	case o.MedianBlurKsize < 0 || o.MedianBlurKsize > MaxKernelSize:
		err = fmt.Errorf("%w: median_blur_ksize=%d", ErrInvalidKernelSize, o.MedianBlurKsize)
	case o.GaussianBlurKsize < 0 || o.GaussianBlurKsize > MaxKernelSize:
		err = fmt.Errorf("%w: gaussian_blur_ksize=%d", ErrInvalidKernelSize, o.GaussianBlurKsize)
	case o.DilateIterations < 0 || o.DilateIterations > MaxDilateIterations:
		err = fmt.Errorf("%w: got %d", ErrInvalidDilateIterations, o.DilateIterations)
	case o.EpsilonFactor < 0 || o.EpsilonFactor > 1:
		err = fmt.Errorf("%w: got %g", ErrInvalidEpsilonFactor, o.EpsilonFactor)
	case o.MaxSideLength < 0:
		err = fmt.Errorf("%w: got %d", ErrInvalidMaxSideLength, o.MaxSideLength)
	case o.ResizePolicy != ResizeShrink && o.ResizePolicy != ResizeUpscale:
		err = fmt.Errorf("%w: %q", ErrInvalidResizePolicy, o.ResizePolicy)
	case o.AddStroke && o.StrokeWidth <= 0:
		err = fmt.Errorf("%w: got %g", ErrInvalidStrokeWidth, o.StrokeWidth)
	case !validQuantizer(o.Quantizer):
		err = fmt.Errorf("%w: %q", ErrInvalidQuantizer, o.Quantizer)
	case o.Workers < 1:
		err = fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.Workers)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", i2stypes.ErrInvalidParameter, err)
	}
	return nil
}

func validQuantizer(name string) bool {
	switch name {
	case QuantizerKMeans, QuantizerMedianCut, QuantizerSampled, QuantizerDominant:
		return true
	}
	return false
}

// ConfigDir 返回 $XDG_CONFIG_HOME/image2svg
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
