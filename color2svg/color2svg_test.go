package color2svg

import (
	"context"
	"image"
	"image/color"
	"testing"

	i2stypes "image2svg/type"
)

func stripes(cols ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 30*len(cols), 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30*len(cols); x++ {
			img.SetNRGBA(x, y, cols[x/30])
		}
	}
	return img
}

func TestConvertToPaths(t *testing.T) {
	t.Parallel()

	red := i2stypes.RGB{R: 255}
	green := i2stypes.RGB{G: 255}
	blue := i2stypes.RGB{B: 255}
	img := stripes(
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	)

	t.Run("one path per block", func(t *testing.T) {
		t.Parallel()
		palette := []i2stypes.RGB{red, green, blue}
		paths, err := ConvertToPaths(context.Background(), img, palette, ExtractOptions{EpsilonFactor: 0.001, Workers: 2})
		if err != nil {
			t.Fatalf("ConvertToPaths() = %v", err)
		}
		if len(paths) != 3 {
			t.Fatalf("paths = %d, want 3", len(paths))
		}
		for i, want := range palette {
			if paths[i].Fill != want {
				t.Errorf("paths[%d].Fill = %v, want %v", i, paths[i].Fill, want)
			}
			if paths[i].Area != 29*29 {
				t.Errorf("paths[%d].Area = %v, want %d", i, paths[i].Area, 29*29)
			}
			if paths[i].Vertices < 3 {
				t.Errorf("paths[%d].Vertices = %d", i, paths[i].Vertices)
			}
		}
	})

	t.Run("duplicate and unused palette colors", func(t *testing.T) {
		t.Parallel()
		palette := []i2stypes.RGB{red, red, green, blue, {R: 9, G: 9, B: 9}}
		paths, err := ConvertToPaths(context.Background(), img, palette, ExtractOptions{EpsilonFactor: 0.001, Workers: 1})
		if err != nil {
			t.Fatalf("ConvertToPaths() = %v", err)
		}
		if len(paths) != 3 {
			t.Errorf("paths = %d, want 3", len(paths))
		}
	})

	t.Run("worker count does not change output", func(t *testing.T) {
		t.Parallel()
		palette := []i2stypes.RGB{blue, red, green}
		opts := ExtractOptions{DilateIterations: 1, EpsilonFactor: 0.002}
		opts.Workers = 1
		serial, err := ConvertToPaths(context.Background(), img, palette, opts)
		if err != nil {
			t.Fatal(err)
		}
		opts.Workers = 8
		parallel, err := ConvertToPaths(context.Background(), img, palette, opts)
		if err != nil {
			t.Fatal(err)
		}
		if len(serial) != len(parallel) {
			t.Fatalf("len %d vs %d", len(serial), len(parallel))
		}
		for i := range serial {
			if serial[i] != parallel[i] {
				t.Errorf("record %d differs: %+v vs %+v", i, serial[i], parallel[i])
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ConvertToPaths(ctx, img, []i2stypes.RGB{red, green}, ExtractOptions{Workers: 1})
		if err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
