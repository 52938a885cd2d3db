package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	i2stypes "image2svg/type"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr error
	}{
		{name: "one color", modify: func(o *Options) { o.NumColors = 1 }, wantErr: ErrInvalidNumColors},
		{name: "too many colors", modify: func(o *Options) { o.NumColors = 257 }, wantErr: ErrInvalidNumColors},
		{name: "negative median", modify: func(o *Options) { o.MedianBlurKsize = -1 }, wantErr: ErrInvalidKernelSize},
		{name: "large gaussian", modify: func(o *Options) { o.GaussianBlurKsize = 23 }, wantErr: ErrInvalidKernelSize},
		{name: "dilate", modify: func(o *Options) { o.DilateIterations = 6 }, wantErr: ErrInvalidDilateIterations},
		{name: "epsilon", modify: func(o *Options) { o.EpsilonFactor = -0.1 }, wantErr: ErrInvalidEpsilonFactor},
		{name: "max side", modify: func(o *Options) { o.MaxSideLength = -5 }, wantErr: ErrInvalidMaxSideLength},
		{name: "policy", modify: func(o *Options) { o.ResizePolicy = "grow" }, wantErr: ErrInvalidResizePolicy},
		{name: "stroke width", modify: func(o *Options) { o.AddStroke = true; o.StrokeWidth = 0 }, wantErr: ErrInvalidStrokeWidth},
		{name: "quantizer", modify: func(o *Options) { o.Quantizer = "octree" }, wantErr: ErrInvalidQuantizer},
		{name: "workers", modify: func(o *Options) { o.Workers = 0 }, wantErr: ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := Default()
			tt.modify(&o)
			err := o.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, i2stypes.ErrInvalidParameter) {
				t.Errorf("Validate() = %v, want wrapped ErrInvalidParameter", err)
			}
		})
	}

	t.Run("even kernel accepted", func(t *testing.T) {
		t.Parallel()
		o := Default()
		o.MedianBlurKsize = 4
		if err := o.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "num_colors: 8\nbg_color: \"#000000\"\nresize_policy: upscale\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		opts, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() = %v", err)
		}
		if opts.NumColors != 8 {
			t.Errorf("NumColors = %d, want 8", opts.NumColors)
		}
		if opts.BackgroundColor != "#000000" {
			t.Errorf("BackgroundColor = %q", opts.BackgroundColor)
		}
		if opts.ResizePolicy != ResizeUpscale {
			t.Errorf("ResizePolicy = %q", opts.ResizePolicy)
		}
		if opts.MedianBlurKsize != DefaultMedianBlurKsize {
			t.Errorf("MedianBlurKsize = %d, want default", opts.MedianBlurKsize)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadFile() = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("num_colors: [1"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestLoadExplicitMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() = %v, want ErrConfigNotFound", err)
	}
}
