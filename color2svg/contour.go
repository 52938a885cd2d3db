package color2svg

import (
	"image"
	"math"

	i2stypes "image2svg/type"
)

// MinContourArea 面积小于该值的区域视为噪点丢弃
const MinContourArea = 50.0

// neighbors 8 邻域方向，下标递增为逆时针（y 轴向下）：
// 0=E 1=NE 2=N 3=NW 4=W 5=SW 6=S 7=SE
var neighbors = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// direction 返回从 from 指向相邻点 to 的方向下标
func direction(from, to image.Point) int {
	d := to.Sub(from)
	for i, n := range neighbors {
		if n == d {
			return i
		}
	}
	return 0
}

// ExtractRegions 膨胀掩码后提取外轮廓，并丢弃面积小于 MinContourArea 的区域
func ExtractRegions(mask *image.Gray, dilateIterations int) []i2stypes.Contour {
	if dilateIterations > 0 {
		mask = Dilate(mask, dilateIterations)
	}
	var kept []i2stypes.Contour
	for _, c := range FindExternalContours(mask) {
		if ContourArea(c) < MinContourArea {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// FindExternalContours 返回掩码中每个最外层连通区域的外边界。
// 前景按 8 连通，背景按 4 连通；位于其他区域孔洞内的区域不返回。
// 轮廓包含全部边界像素，不做压缩。
func FindExternalContours(mask *image.Gray) []i2stypes.Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	fg := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && mask.Pix[y*mask.Stride+x] != 0
	}

	outside := markOutside(fg, w, h)
	labeled := make([]bool, w*h)
	var contours []i2stypes.Contour
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labeled[y*w+x] || !fg(x, y) {
				continue
			}

			// 标记整个连通区域，同时判断它是否与外部背景相邻
			external := false
			labeled[y*w+x] = true
			stack = append(stack[:0], y*w+x)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := p%w, p/w
				if px == 0 || py == 0 || px == w-1 || py == h-1 {
					external = true
				}
				for d, n := range neighbors {
					qx, qy := px+n.X, py+n.Y
					if qx < 0 || qy < 0 || qx >= w || qy >= h {
						continue
					}
					q := qy*w + qx
					if fg(qx, qy) {
						if !labeled[q] {
							labeled[q] = true
							stack = append(stack, q)
						}
					} else if d%2 == 0 && outside[q] {
						external = true
					}
				}
			}

			if external {
				contours = append(contours, traceBorder(fg, image.Pt(x, y), b.Min))
			}
		}
	}
	return contours
}

// markOutside 标记与图像边框 4 连通的背景像素
func markOutside(fg func(x, y int) bool, w, h int) []bool {
	outside := make([]bool, w*h)
	var stack []int
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h || fg(x, y) || outside[y*w+x] {
			return
		}
		outside[y*w+x] = true
		stack = append(stack, y*w+x)
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := p%w, p/w
		push(px+1, py)
		push(px-1, py)
		push(px, py+1)
		push(px, py-1)
	}
	return outside
}

// traceBorder 从区域光栅顺序第一个像素出发跟踪外边界（Suzuki-Abe 外边界跟踪）。
// start 的西侧像素必须是背景。
func traceBorder(fg func(x, y int) bool, start, origin image.Point) i2stypes.Contour {
	// 从西侧开始顺时针寻找第一个前景邻居
	d1 := -1
	for k := 0; k < 8; k++ {
		d := (4 - k + 8) % 8
		if q := start.Add(neighbors[d]); fg(q.X, q.Y) {
			d1 = d
			break
		}
	}
	if d1 < 0 {
		// 孤立像素
		return i2stypes.Contour{start.Add(origin)}
	}

	first := start.Add(neighbors[d1])
	prev, cur := first, start
	var contour i2stypes.Contour
	for {
		// 从 prev 的下一个方向开始逆时针寻找
		dPrev := direction(cur, prev)
		next := prev
		for k := 1; k <= 8; k++ {
			q := cur.Add(neighbors[(dPrev+k)%8])
			if fg(q.X, q.Y) {
				next = q
				break
			}
		}

		contour = append(contour, cur.Add(origin))
		if next == start && cur == first {
			break
		}
		prev, cur = cur, next
	}
	return contour
}

// ContourArea 用鞋带公式计算闭合多边形面积
func ContourArea(c i2stypes.Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	sum := 0
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(float64(sum)) / 2
}
