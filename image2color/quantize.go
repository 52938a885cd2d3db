package image2color

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"

	i2stypes "image2svg/type"
)

// Method 调色板提取方法
type Method string

const (
	MethodKMeans    Method = "kmeans"
	MethodMedianCut Method = "mediancut"
	MethodSampled   Method = "sampled"
	MethodDominant  Method = "dominant"
)

// k-means 终止条件
const (
	KMeansMaxIter  = 100
	KMeansEpsilon  = 1.0
	KMeansAttempts = 10
)

// QuantizeOptions 量化参数，零值使用默认的 k-means 设置
type QuantizeOptions struct {
	Method   Method
	Seed     uint64
	MaxIter  int
	Epsilon  float64
	Attempts int
}

func (o QuantizeOptions) withDefaults() QuantizeOptions {
	if o.Method == "" {
		o.Method = MethodKMeans
	}
	if o.MaxIter <= 0 {
		o.MaxIter = KMeansMaxIter
	}
	if o.Epsilon <= 0 {
		o.Epsilon = KMeansEpsilon
	}
	if o.Attempts <= 0 {
		o.Attempts = KMeansAttempts
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o
}

// Quantize 把图像量化为 k 种颜色。
// 返回量化后的图像和恰好 k 个调色板颜色（可能有重复）。
func Quantize(img *image.NRGBA, k int, opts QuantizeOptions) (*image.NRGBA, []i2stypes.RGB, error) {
	if k < 2 {
		return nil, nil, fmt.Errorf("%w: num_colors must be at least 2, got %d", i2stypes.ErrInvalidParameter, k)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, nil, fmt.Errorf("%w: empty image", i2stypes.ErrInvalidParameter)
	}
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var palette []i2stypes.RGB
	switch opts.Method {
	case MethodKMeans:
		return kmeansQuantize(img, k, opts, rng)
	case MethodMedianCut:
		palette = medianCutQuantize(img, k)
	case MethodSampled:
		palette = sampledKMeansPalette(img, k)
	case MethodDominant:
		palette = dominantPalette(img, k)
	default:
		return nil, nil, fmt.Errorf("%w: unknown quantizer %q", i2stypes.ErrInvalidParameter, opts.Method)
	}

	palette = padPalette(img, palette, k)
	return Remap(img, palette), palette, nil
}

// colorSample 一种不同的像素颜色及其像素数
type colorSample struct {
	c      [3]float64
	weight float64
}

func colorKey(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// collectSamples 合并相同颜色的像素。相同颜色总是落在同一簇，
// 所以按权重聚类与逐像素聚类结果一致。
func collectSamples(img *image.NRGBA) ([]colorSample, map[uint32]int) {
	b := img.Bounds()
	index := make(map[uint32]int)
	var samples []colorSample
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			key := colorKey(r, g, bl)
			if idx, ok := index[key]; ok {
				samples[idx].weight++
				continue
			}
			index[key] = len(samples)
			samples = append(samples, colorSample{
				c:      [3]float64{float64(r), float64(g), float64(bl)},
				weight: 1,
			})
		}
	}
	return samples, index
}

// maxDistinctColors k-means 直接处理的不同颜色数上限，超过时按位数粗化
const maxDistinctColors = 1 << 13

// coarsenSamples 每个通道丢掉低 shift 位，把同一格里的颜色合并为加权平均色，
// 并把 index 改为指向合并后的样本。
func coarsenSamples(samples []colorSample, index map[uint32]int, shift uint) ([]colorSample, map[uint32]int) {
	bins := make(map[uint32]int)
	var out []colorSample
	remap := make([]int, len(samples))
	for i, s := range samples {
		key := colorKey(uint8(s.c[0])>>shift, uint8(s.c[1])>>shift, uint8(s.c[2])>>shift)
		j, ok := bins[key]
		if !ok {
			j = len(out)
			bins[key] = j
			out = append(out, colorSample{})
		}
		remap[i] = j
		for ch := range 3 {
			out[j].c[ch] += s.c[ch] * s.weight
		}
		out[j].weight += s.weight
	}
	for j := range out {
		for ch := range 3 {
			out[j].c[ch] /= out[j].weight
		}
	}

	coarse := make(map[uint32]int, len(index))
	for key, i := range index {
		coarse[key] = remap[i]
	}
	return out, coarse
}

// limitSamples 逐步加大 shift，直到不同颜色数不超过 maxDistinctColors
func limitSamples(samples []colorSample, index map[uint32]int) ([]colorSample, map[uint32]int) {
	if len(samples) <= maxDistinctColors {
		return samples, index
	}
	distinct := len(samples)
	var shift uint
	out, coarse := samples, index
	for len(out) > maxDistinctColors {
		shift++
		out, coarse = coarsenSamples(samples, index, shift)
	}
	slog.Debug("too many distinct colors, coarsened", "distinct_colors", distinct, "shift", shift, "samples", len(out))
	return out, coarse
}

func kmeansQuantize(img *image.NRGBA, k int, opts QuantizeOptions, rng *rand.Rand) (*image.NRGBA, []i2stypes.RGB, error) {
	samples, index := limitSamples(collectSamples(img))

	best := math.Inf(1)
	var bestCenters [][]float64
	var bestLabels []int
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		centers := seedCenters(samples, k, rng)
		labels, compactness := lloyd(samples, centers, opts.MaxIter, opts.Epsilon)
		if compactness < best {
			best = compactness
			bestCenters = centers
			bestLabels = labels
		}
	}

	palette := make([]i2stypes.RGB, k)
	for i, c := range bestCenters {
		palette[i] = i2stypes.RGB{R: truncate(c[0]), G: truncate(c[1]), B: truncate(c[2])}
	}

	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			c := palette[bestLabels[index[colorKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2])]]]
			o := out.PixOffset(x, y)
			out.Pix[o+0], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = c.R, c.G, c.B, 255
		}
	}

	slog.Debug("kmeans finished", "k", k, "distinct_colors", len(samples), "compactness", best)
	return out, palette, nil
}

func truncate(v float64) uint8 {
	return uint8(min(255, max(0, v)))
}

// seedCenters 按像素数加权随机选取初始中心。
// 不同颜色用完之前不重复选取。
func seedCenters(samples []colorSample, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = s.weight
	}
	w := sampleuv.NewWeighted(weights, rng)

	for len(centers) < k {
		idx, ok := w.Take()
		if !ok {
			idx = rng.IntN(len(samples))
		}
		c := samples[idx].c
		centers = append(centers, []float64{c[0], c[1], c[2]})
	}
	return centers
}

// lloyd 迭代直到达到最大次数或中心最大位移小于 eps。
// 空簇保留原中心。返回标签和紧致度（加权平方距离和）。
func lloyd(samples []colorSample, centers [][]float64, maxIter int, eps float64) ([]int, float64) {
	k := len(centers)
	labels := make([]int, len(samples))
	sums := make([][]float64, k)
	for j := range sums {
		sums[j] = make([]float64, 3)
	}
	weights := make([]float64, k)

	for iter := 0; iter < maxIter; iter++ {
		assign(samples, centers, labels)

		for j := range sums {
			floats.Scale(0, sums[j])
			weights[j] = 0
		}
		for i := range samples {
			l := labels[i]
			floats.AddScaled(sums[l], samples[i].weight, samples[i].c[:])
			weights[l] += samples[i].weight
		}

		shift := 0.0
		for j := range centers {
			if weights[j] == 0 {
				continue
			}
			floats.Scale(1/weights[j], sums[j])
			shift = max(shift, floats.Distance(sums[j], centers[j], 2))
			copy(centers[j], sums[j])
		}
		if shift < eps {
			break
		}
	}

	compactness := assign(samples, centers, labels)
	return labels, compactness
}

// assign 为每个样本选择最近中心，距离相同时取下标最小者
func assign(samples []colorSample, centers [][]float64, labels []int) float64 {
	total := 0.0
	for i := range samples {
		c := &samples[i].c
		best, bestDist := 0, math.MaxFloat64
		for j, ctr := range centers {
			d0 := c[0] - ctr[0]
			d1 := c[1] - ctr[1]
			d2 := c[2] - ctr[2]
			if d := d0*d0 + d1*d1 + d2*d2; d < bestDist {
				best, bestDist = j, d
			}
		}
		labels[i] = best
		total += bestDist * samples[i].weight
	}
	return total
}
