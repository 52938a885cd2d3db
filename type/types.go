package i2stypes

import (
	"fmt"
	"image"
)

// RGB 表示一个 8 位 RGB 颜色
type RGB struct {
	R, G, B uint8
}

// String 返回 SVG 可用的 rgb(r,g,b) 形式
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Contour 表示一条闭合的轮廓，按顺序排列的像素点
type Contour []image.Point

// ColorLayer 表示某个调色板颜色的分割图层
type ColorLayer struct {
	Color RGB
	Mask  *image.Gray // 二值掩码图：255=该颜色，0=其他
}

// PathRecord 表示一条保留下来的 SVG 路径
type PathRecord struct {
	Area     float64 // 原始（简化前）轮廓面积，用于排序
	PathData string
	Fill     RGB
	Vertices int // 简化后的顶点数
}

// Stroke 全局描边设置
type Stroke struct {
	Color RGB
	Width float64
}

// VectorDocument 最终输出的矢量文档
type VectorDocument struct {
	Width  int
	Height int
	Paths  []PathRecord
	Stroke *Stroke // nil 表示 stroke="none"
}
