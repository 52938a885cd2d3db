package color2svg

import (
	"image"

	i2stypes "image2svg/type"
)

// BuildMask 精确匹配颜色：等于 c 的像素为 255，其余为 0
func BuildMask(img *image.NRGBA, c i2stypes.RGB) *image.Gray {
	b := img.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i] == c.R && img.Pix[i+1] == c.G && img.Pix[i+2] == c.B {
				mask.Pix[mask.PixOffset(x, y)] = 255
			}
		}
	}
	return mask
}

// Dilate 用 3x3 结构元素膨胀 iterations 次。图像外的像素不参与计算。
// iterations <= 0 时返回原掩码的副本。
func Dilate(mask *image.Gray, iterations int) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	cur := image.NewGray(b)
	copy(cur.Pix, mask.Pix)
	if iterations <= 0 || w == 0 || h == 0 {
		return cur
	}

	tmp := image.NewGray(b)
	for it := 0; it < iterations; it++ {
		// 3x3 最大值滤波可分解为水平和垂直两次 1x3
		for y := 0; y < h; y++ {
			row := cur.Pix[y*cur.Stride : y*cur.Stride+w]
			out := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w]
			for x := 0; x < w; x++ {
				v := row[x]
				if x > 0 {
					v = max(v, row[x-1])
				}
				if x < w-1 {
					v = max(v, row[x+1])
				}
				out[x] = v
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := tmp.Pix[y*tmp.Stride+x]
				if y > 0 {
					v = max(v, tmp.Pix[(y-1)*tmp.Stride+x])
				}
				if y < h-1 {
					v = max(v, tmp.Pix[(y+1)*tmp.Stride+x])
				}
				cur.Pix[y*cur.Stride+x] = v
			}
		}
	}
	return cur
}
