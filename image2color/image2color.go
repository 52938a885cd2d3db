package image2color

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/gift"
	exif "github.com/dsoprea/go-exif/v3"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	i2stypes "image2svg/type"
)

// LoadOptions 控制读取、缩放和透明度合成
type LoadOptions struct {
	Background    i2stypes.RGB
	Resize        bool
	MaxSideLength int
	// AllowUpscale 为 false 时只缩小，不放大
	AllowUpscale bool
	AutoOrient   bool
}

// Load 读取图片，按需缩放，并把 alpha 通道合成到背景色上。
// 返回的图像每个像素 A=255。
func Load(path string, opts LoadOptions) (*image.NRGBA, error) {
	data, err := os.ReadFile(path) //nolint:gosec // 输入路径由调用方提供
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", i2stypes.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", i2stypes.ErrImageRead, path, err)
	}
	img := toNRGBA(src)
	slog.Debug("image decoded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if opts.AutoOrient {
		img = applyOrientation(img, readOrientation(data))
	}
	if opts.Resize && opts.MaxSideLength > 0 {
		img = ResizeToMaxSide(img, opts.MaxSideLength, opts.AllowUpscale)
	}
	return Flatten(img, opts.Background), nil
}

// toNRGBA 复制为原点在 (0,0) 的 NRGBA 图像，不与 src 共享内存
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			off := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], n.Pix[off:off+w*4])
		}
		return dst
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// Flatten 把每个像素按 out = rgb*a + bg*(1-a) 合成到背景色上，结果截断为整数。
// 不透明像素保持不变。
func Flatten(img *image.NRGBA, bg i2stypes.RGB) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			a := float64(img.Pix[i+3]) / 255.0
			o := out.PixOffset(x, y)
			out.Pix[o+0] = blend(img.Pix[i+0], bg.R, a)
			out.Pix[o+1] = blend(img.Pix[i+1], bg.G, a)
			out.Pix[o+2] = blend(img.Pix[i+2], bg.B, a)
			out.Pix[o+3] = 255
		}
	}
	return out
}

func blend(c, bg uint8, a float64) uint8 {
	v := float64(c)*a + float64(bg)*(1-a)
	return uint8(min(255, max(0, v)))
}

// ResizeToMaxSide 按比例把最长边缩放到 maxSide。
// 缩小使用区域平均，放大使用双线性插值。
func ResizeToMaxSide(img *image.NRGBA, maxSide int, allowUpscale bool) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cur := max(w, h)
	if maxSide <= 0 || cur == 0 || cur == maxSide {
		return img
	}
	if cur < maxSide && !allowUpscale {
		return img
	}

	scale := float64(maxSide) / float64(cur)
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	var out *image.NRGBA
	if scale < 1 {
		g := gift.New(gift.Resize(nw, nh, gift.BoxResampling))
		out = image.NewNRGBA(g.Bounds(img.Bounds()))
		g.Draw(out, img)
	} else {
		out = toNRGBA(resize.Resize(uint(nw), uint(nh), img, resize.Bilinear))
	}
	slog.Info("image resized", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", nw, nh))
	return out
}

// readOrientation 读取 EXIF Orientation，读取失败时返回 1（正常方向）
func readOrientation(data []byte) int {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return 1
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return 1
	}
	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		if v, ok := entry.Value.([]uint16); ok && len(v) > 0 {
			return int(v[0])
		}
		if n, err := strconv.Atoi(strings.Trim(entry.Formatted, "[] ")); err == nil {
			return n
		}
	}
	return 1
}

func orientationFilter(orientation int) gift.Filter {
	switch orientation {
	case 2:
		return gift.FlipHorizontal()
	case 3:
		return gift.Rotate180()
	case 4:
		return gift.FlipVertical()
	case 5:
		return gift.Transpose()
	case 6:
		return gift.Rotate270()
	case 7:
		return gift.Transverse()
	case 8:
		return gift.Rotate90()
	default:
		return nil
	}
}

func applyOrientation(img *image.NRGBA, orientation int) *image.NRGBA {
	f := orientationFilter(orientation)
	if f == nil {
		return img
	}
	g := gift.New(f)
	out := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(out, img)
	slog.Debug("exif orientation applied", "orientation", orientation)
	return out
}
