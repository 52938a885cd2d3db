package image2color

import (
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/gift"
)

// MaxKernelSize 模糊核的最大尺寸
const MaxKernelSize = 21

// sharpenKernel 3x3 锐化核，系数和为 1
var sharpenKernel = []float32{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// PreprocessOptions 预处理参数
type PreprocessOptions struct {
	MedianBlurKsize   int
	GaussianBlurKsize int
	Sharpen           bool
}

// NormalizeKernelSize 把非零偶数核尺寸调整为奇数：
// k+1 不超过 maxSize 时取 k+1，否则取 k-1。奇数和 0 保持不变。
func NormalizeKernelSize(k, maxSize int) (int, bool) {
	if k == 0 || k%2 != 0 {
		return k, false
	}
	if k+1 <= maxSize {
		return k + 1, true
	}
	return k - 1, true
}

func normalizeLogged(name string, k int) int {
	n, adjusted := NormalizeKernelSize(k, MaxKernelSize)
	if adjusted {
		slog.Warn("kernel size must be odd, adjusted", "param", name, "from", k, "to", n)
	}
	return n
}

// gaussianSigma 按核尺寸推导标准差（与 OpenCV 的 getGaussianKernel 相同）
func gaussianSigma(ksize int) float32 {
	return float32(0.3*((float64(ksize)-1)*0.5-1) + 0.8)
}

// gaussianKernel k*k 高斯核，行优先，系数和为 1。
// gift.GaussianBlur 的半径取 ceil(3σ)，覆盖范围与 k 不一致，所以自己生成。
func gaussianKernel(ksize int) []float32 {
	sigma := float64(gaussianSigma(ksize))
	c := ksize / 2
	row := make([]float64, ksize)
	for i := range row {
		d := float64(i - c)
		row[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}

	kernel := make([]float32, ksize*ksize)
	sum := 0.0
	for y := range ksize {
		for x := range ksize {
			sum += row[y] * row[x]
		}
	}
	for y := range ksize {
		for x := range ksize {
			kernel[y*ksize+x] = float32(row[y] * row[x] / sum)
		}
	}
	return kernel
}

// Preprocess 依次执行中值模糊、高斯模糊、锐化。顺序固定。
func Preprocess(img *image.NRGBA, opts PreprocessOptions) *image.NRGBA {
	var filters []gift.Filter

	if k := normalizeLogged("median_blur_ksize", opts.MedianBlurKsize); k > 0 {
		filters = append(filters, gift.Median(k, false))
	}
	if k := normalizeLogged("gaussian_blur_ksize", opts.GaussianBlurKsize); k > 0 {
		filters = append(filters, gift.Convolution(gaussianKernel(k), false, false, false, 0))
	}
	if opts.Sharpen {
		filters = append(filters, gift.Convolution(sharpenKernel, false, false, false, 0))
	}

	if len(filters) == 0 {
		return toNRGBA(img)
	}

	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	slog.Debug("preprocess done", "filters", len(filters))
	return dst
}
