package image2color

import (
	"image"
	"math"
	"slices"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	i2stypes "image2svg/type"
)

// ----------------------
// 工具函数
// ----------------------

type pixel struct {
	R, G, B int
}

// box 表示颜色盒子
type box struct {
	pixels     []pixel
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
}

// 计算盒子范围
func (bx *box) calculateRange() {
	if len(bx.pixels) == 0 {
		return
	}

	bx.rMin, bx.rMax = 255, 0
	bx.gMin, bx.gMax = 255, 0
	bx.bMin, bx.bMax = 255, 0

	for _, p := range bx.pixels {
		bx.rMin, bx.rMax = min(bx.rMin, p.R), max(bx.rMax, p.R)
		bx.gMin, bx.gMax = min(bx.gMin, p.G), max(bx.gMax, p.G)
		bx.bMin, bx.bMax = min(bx.bMin, p.B), max(bx.bMax, p.B)
	}
}

func (bx *box) widest() (channel byte, span int) {
	rRange := bx.rMax - bx.rMin
	gRange := bx.gMax - bx.gMin
	bRange := bx.bMax - bx.bMin
	switch {
	case rRange >= gRange && rRange >= bRange:
		return 'R', rRange
	case gRange >= rRange && gRange >= bRange:
		return 'G', gRange
	default:
		return 'B', bRange
	}
}

// medianCutQuantize 执行中位切分颜色量化
func medianCutQuantize(img *image.NRGBA, colorCount int) []i2stypes.RGB {
	bounds := img.Bounds()
	pixels := make([]pixel, 0, bounds.Dx()*bounds.Dy())

	// 收集所有像素
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := img.PixOffset(x, y)
			pixels = append(pixels, pixel{
				R: int(img.Pix[i]),
				G: int(img.Pix[i+1]),
				B: int(img.Pix[i+2]),
			})
		}
	}

	initial := &box{pixels: pixels}
	initial.calculateRange()
	boxes := []*box{initial}

	// 不断分割范围最大的盒子，单色盒子不再分割
	for len(boxes) < colorCount {
		splitIdx, maxRange := -1, 0
		for i, bx := range boxes {
			if len(bx.pixels) < 2 {
				continue
			}
			if _, span := bx.widest(); span > maxRange {
				maxRange = span
				splitIdx = i
			}
		}
		if splitIdx < 0 {
			break
		}

		toSplit := boxes[splitIdx]
		channel, _ := toSplit.widest()
		sort.Slice(toSplit.pixels, func(i, j int) bool {
			switch channel {
			case 'R':
				return toSplit.pixels[i].R < toSplit.pixels[j].R
			case 'G':
				return toSplit.pixels[i].G < toSplit.pixels[j].G
			default:
				return toSplit.pixels[i].B < toSplit.pixels[j].B
			}
		})

		// 分成两半
		median := len(toSplit.pixels) / 2
		box1 := &box{pixels: toSplit.pixels[:median]}
		box2 := &box{pixels: toSplit.pixels[median:]}
		box1.calculateRange()
		box2.calculateRange()

		boxes = slices.Replace(boxes, splitIdx, splitIdx+1, box1, box2)
	}

	// 计算每个盒子的平均颜色
	result := make([]i2stypes.RGB, 0, len(boxes))
	for _, bx := range boxes {
		var rSum, gSum, bSum int
		for _, p := range bx.pixels {
			rSum += p.R
			gSum += p.G
			bSum += p.B
		}
		count := len(bx.pixels)
		if count == 0 {
			continue
		}
		result = append(result, i2stypes.RGB{
			R: uint8(rSum / count),
			G: uint8(gSum / count),
			B: uint8(bSum / count),
		})
	}
	return result
}

// sampledKMeansPalette 对降采样后的像素运行 muesli/kmeans，按簇大小排序
func sampledKMeansPalette(img *image.NRGBA, k int) []i2stypes.RGB {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	// 降采样，保持 kmeans 在大图上可用
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			i := img.PixOffset(x, y)
			dataset = append(dataset, clusters.Coordinates{
				float64(img.Pix[i]) / 255.0,
				float64(img.Pix[i+1]) / 255.0,
				float64(img.Pix[i+2]) / 255.0,
			})
		}
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, len(dataset)))
	if err != nil || len(cc) == 0 {
		return medianCutQuantize(img, k)
	}

	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	result := make([]i2stypes.RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		result = append(result, i2stypes.RGB{
			R: truncate(c.Center[0] * 255),
			G: truncate(c.Center[1] * 255),
			B: truncate(c.Center[2] * 255),
		})
	}
	return result
}

// dominantPalette 使用 dominantcolor 的加权候选色
func dominantPalette(img *image.NRGBA, k int) []i2stypes.RGB {
	cands := dominantcolor.FindWeight(img, k)
	result := make([]i2stypes.RGB, 0, len(cands))
	for _, c := range cands {
		result = append(result, i2stypes.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	return result
}

// padPalette 保证调色板恰好有 k 种颜色，不足时重复最后一种
func padPalette(img *image.NRGBA, palette []i2stypes.RGB, k int) []i2stypes.RGB {
	if len(palette) > k {
		return palette[:k]
	}
	if len(palette) == 0 {
		b := img.Bounds()
		i := img.PixOffset(b.Min.X, b.Min.Y)
		palette = append(palette, i2stypes.RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]})
	}
	for len(palette) < k {
		palette = append(palette, palette[len(palette)-1])
	}
	return palette
}

// Remap 把每个像素替换为调色板中最近的颜色
func Remap(img *image.NRGBA, palette []i2stypes.RGB) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	cache := make(map[uint32]i2stypes.RGB)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			rr, gg, bb := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
			key := colorKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2])

			c, ok := cache[key]
			if !ok {
				// 找最近颜色
				bestDist := math.MaxInt
				for _, p := range palette {
					dr := rr - int(p.R)
					dg := gg - int(p.G)
					db := bb - int(p.B)
					if dist := dr*dr + dg*dg + db*db; dist < bestDist {
						bestDist = dist
						c = p
					}
				}
				cache[key] = c
			}

			o := out.PixOffset(x, y)
			out.Pix[o+0], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = c.R, c.G, c.B, 255
		}
	}
	return out
}
