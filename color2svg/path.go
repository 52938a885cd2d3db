package color2svg

import (
	"image"
	"math"
	"strconv"
	"strings"

	i2stypes "image2svg/type"
)

// Perimeter 闭合折线的周长
func Perimeter(c i2stypes.Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	total := 0.0
	for i := range c {
		total += dist(c[i], c[(i+1)%len(c)])
	}
	return total
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// lineDistance 点 p 到过 a、b 直线的距离；a==b 时退化为点距离
func lineDistance(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return dist(p, a)
	}
	return math.Abs(dx*float64(p.Y-a.Y)-dy*float64(p.X-a.X)) / length
}

// Simplify 用 Douglas-Peucker 近似闭合曲线。
// 曲线在离第一个点最远的点处分成两段，分别迭代简化。
func Simplify(c i2stypes.Contour, epsilon float64) i2stypes.Contour {
	n := len(c)
	if n < 3 {
		return append(i2stypes.Contour(nil), c...)
	}

	far, maxD := 0, 0.0
	for i := 1; i < n; i++ {
		if d := dist(c[0], c[i]); d > maxD {
			far, maxD = i, d
		}
	}
	if far == 0 {
		return i2stypes.Contour{c[0]}
	}

	keep := make([]bool, n)
	keep[0], keep[far] = true, true
	douglasPeucker(c, 0, far, epsilon, keep)
	douglasPeucker(c, far, n, epsilon, keep)

	out := make(i2stypes.Contour, 0, 8)
	for i, k := range keep {
		if k {
			out = append(out, c[i])
		}
	}
	return out
}

// douglasPeucker 处理下标 [first, last] 的链，下标按 len(c) 取模
func douglasPeucker(c i2stypes.Contour, first, last int, epsilon float64, keep []bool) {
	n := len(c)
	type span struct{ a, b int }
	stack := []span{{first, last}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.b-s.a < 2 {
			continue
		}

		pa, pb := c[s.a%n], c[s.b%n]
		idx, maxD := -1, -1.0
		for i := s.a + 1; i < s.b; i++ {
			if d := lineDistance(c[i%n], pa, pb); d > maxD {
				idx, maxD = i, d
			}
		}
		if maxD > epsilon {
			keep[idx%n] = true
			stack = append(stack, span{s.a, idx}, span{idx, s.b})
		}
	}
}

// BuildPath 简化轮廓并序列化为 "M x,y L x,y ... Z"。
// 点数不足 3、周长为 0 或简化后不足 3 个顶点时返回空字符串。
func BuildPath(c i2stypes.Contour, epsilonFactor float64) (string, int) {
	if len(c) < 3 {
		return "", 0
	}
	perimeter := Perimeter(c)
	if perimeter == 0 {
		return "", 0
	}

	approx := Simplify(c, epsilonFactor*perimeter)
	if len(approx) < 3 {
		return "", 0
	}

	var sb strings.Builder
	for i, p := range approx {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(strconv.Itoa(p.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y))
	}
	sb.WriteString(" Z")
	return sb.String(), len(approx)
}
