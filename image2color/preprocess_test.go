package image2color

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/gift"
)

func TestNormalizeKernelSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		k            int
		want         int
		wantAdjusted bool
	}{
		{k: 0, want: 0},
		{k: 1, want: 1},
		{k: 3, want: 3},
		{k: 21, want: 21},
		{k: 2, want: 3, wantAdjusted: true},
		{k: 4, want: 5, wantAdjusted: true},
		{k: 20, want: 21, wantAdjusted: true},
		{k: 22, want: 21, wantAdjusted: true},
	}

	for _, tt := range tests {
		got, adjusted := NormalizeKernelSize(tt.k, MaxKernelSize)
		if got != tt.want || adjusted != tt.wantAdjusted {
			t.Errorf("NormalizeKernelSize(%d) = (%d, %v), want (%d, %v)",
				tt.k, got, adjusted, tt.want, tt.wantAdjusted)
		}
	}
}

func TestGaussianKernel(t *testing.T) {
	t.Parallel()

	for _, k := range []int{1, 3, 5, 7, 21} {
		kernel := gaussianKernel(k)
		if len(kernel) != k*k {
			t.Fatalf("k=%d: len = %d, want %d", k, len(kernel), k*k)
		}
		sum := 0.0
		center := kernel[(k/2)*k+k/2]
		for i, w := range kernel {
			sum += float64(w)
			if w <= 0 || w > center {
				t.Errorf("k=%d: weight[%d] = %v, center %v", k, i, w, center)
			}
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("k=%d: sum = %v, want 1", k, sum)
		}
		// 对称
		if k > 1 && kernel[0] != kernel[k*k-1] {
			t.Errorf("k=%d: corners %v != %v", k, kernel[0], kernel[k*k-1])
		}
	}
}

func TestPreprocess(t *testing.T) {
	t.Parallel()

	t.Run("no filters copies", func(t *testing.T) {
		t.Parallel()
		src := solidNRGBA(5, 5, color.NRGBA{R: 7, G: 8, B: 9, A: 255})
		out := Preprocess(src, PreprocessOptions{})
		if &out.Pix[0] == &src.Pix[0] {
			t.Fatal("Preprocess returned aliased pixels")
		}
		if out.NRGBAAt(2, 2) != src.NRGBAAt(2, 2) {
			t.Errorf("pixel changed: %v", out.NRGBAAt(2, 2))
		}
	})

	t.Run("median removes isolated noise", func(t *testing.T) {
		t.Parallel()
		white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		src := solidNRGBA(9, 9, white)
		src.SetNRGBA(4, 4, color.NRGBA{A: 255})
		out := Preprocess(src, PreprocessOptions{MedianBlurKsize: 2})
		if got := out.NRGBAAt(4, 4); got != white {
			t.Errorf("center = %v, want white", got)
		}
	})

	t.Run("flat image is stable under all filters", func(t *testing.T) {
		t.Parallel()
		c := color.NRGBA{R: 40, G: 120, B: 200, A: 255}
		src := solidNRGBA(12, 12, c)
		out := Preprocess(src, PreprocessOptions{MedianBlurKsize: 5, GaussianBlurKsize: 3, Sharpen: true})
		if out.Bounds() != src.Bounds() {
			t.Fatalf("bounds = %v, want %v", out.Bounds(), src.Bounds())
		}
		if got := out.NRGBAAt(6, 6); got != c {
			t.Errorf("pixel = %v, want %v", got, c)
		}
	})

	t.Run("sharpen increases edge contrast", func(t *testing.T) {
		t.Parallel()
		src := solidNRGBA(6, 3, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		for y := 0; y < 3; y++ {
			for x := 3; x < 6; x++ {
				src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
			}
		}
		out := Preprocess(src, PreprocessOptions{Sharpen: true})
		if got := out.NRGBAAt(2, 1).R; got >= 100 {
			t.Errorf("dark side of edge = %d, want < 100", got)
		}
		if got := out.NRGBAAt(3, 1).R; got <= 200 {
			t.Errorf("bright side of edge = %d, want > 200", got)
		}
	})

	t.Run("gaussian softens a hard edge", func(t *testing.T) {
		t.Parallel()
		src := solidNRGBA(10, 3, color.NRGBA{A: 255})
		for y := 0; y < 3; y++ {
			for x := 5; x < 10; x++ {
				src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
		out := Preprocess(src, PreprocessOptions{GaussianBlurKsize: 5})
		for _, x := range []int{4, 5} {
			if got := out.NRGBAAt(x, 1).R; got == 0 || got == 255 {
				t.Errorf("pixel (%d,1) = %d, want strictly between 0 and 255", x, got)
			}
		}
		if l, r := out.NRGBAAt(4, 1).R, out.NRGBAAt(5, 1).R; l >= r {
			t.Errorf("edge not monotonic: %d >= %d", l, r)
		}
		// 5x5 核只影响边缘两侧各两列
		if got := out.NRGBAAt(0, 1).R; got != 0 {
			t.Errorf("far dark pixel = %d, want 0", got)
		}
		if got := out.NRGBAAt(9, 1).R; got != 255 {
			t.Errorf("far bright pixel = %d, want 255", got)
		}
	})

	t.Run("median runs before sharpen", func(t *testing.T) {
		t.Parallel()
		gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
		src := solidNRGBA(9, 9, gray)
		src.SetNRGBA(4, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

		// 先锐化会把噪点放大到饱和
		sharpened := image.NewNRGBA(src.Bounds())
		gift.New(gift.Convolution(sharpenKernel, false, false, false, 0)).Draw(sharpened, src)
		if got := sharpened.NRGBAAt(4, 4).R; got != 255 {
			t.Fatalf("sharpen alone = %d, want 255", got)
		}

		out := Preprocess(src, PreprocessOptions{MedianBlurKsize: 3, Sharpen: true})
		for y := 0; y < 9; y++ {
			for x := 0; x < 9; x++ {
				if got := out.NRGBAAt(x, y); got != gray {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, gray)
				}
			}
		}
	})
}
