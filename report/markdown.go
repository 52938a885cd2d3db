// Package report 生成转换结果的 Markdown 摘要
package report

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"image2svg/converter"
	i2stypes "image2svg/type"
)

// 报告中列出的最大区域数
const largestRegions = 5

// ColorStat 单个调色板颜色的路径统计
type ColorStat struct {
	Color    i2stypes.RGB
	Hex      string
	Paths    int
	Area     float64
	Vertices int
	// CIE L*，用于排序
	lightness float64
}

// Stats 按填充色汇总路径，没有路径的颜色计数为 0。结果从亮到暗排列。
func Stats(res *converter.Result) []ColorStat {
	index := map[i2stypes.RGB]int{}
	var stats []ColorStat
	add := func(c i2stypes.RGB) int {
		if i, ok := index[c]; ok {
			return i
		}
		cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		l, _, _ := cc.Lab()
		index[c] = len(stats)
		stats = append(stats, ColorStat{Color: c, Hex: cc.Hex(), lightness: l})
		return len(stats) - 1
	}

	for _, c := range res.Palette {
		add(c)
	}
	for _, p := range res.Paths {
		s := &stats[add(p.Fill)]
		s.Paths++
		s.Area += p.Area
		s.Vertices += p.Vertices
	}

	slices.SortStableFunc(stats, func(a, b ColorStat) int {
		return cmp.Compare(b.lightness, a.lightness)
	})
	return stats
}

// WriteMarkdown 以 Markdown 格式写出转换摘要
func WriteMarkdown(w io.Writer, res *converter.Result) error {
	md := markdown.NewMarkdown(w)
	stats := Stats(res)

	md.H1("image2svg Report")
	md.PlainText("")

	stroke := "none"
	if res.Stroke != nil {
		stroke = fmt.Sprintf("%s, width %s", res.Stroke.Color, strconv.FormatFloat(res.Stroke.Width, 'g', -1, 64))
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + res.InputPath + "`"},
			{"Output", "`" + res.OutputPath + "`"},
			{"Canvas", fmt.Sprintf("%d x %d", res.Width, res.Height)},
			{"Palette Colors", strconv.Itoa(len(stats))},
			{"Paths", strconv.Itoa(len(res.Paths))},
			{"Vertices", strconv.Itoa(res.Vertices())},
			{"Stroke", stroke},
		},
	})
	md.PlainText("")

	writePalette(md, res, stats)
	writeRegions(md, res)

	return md.Build()
}

func writePalette(md *markdown.Markdown, res *converter.Result, stats []ColorStat) {
	md.H2("Palette")
	md.PlainText("")

	canvas := float64(res.Width * res.Height)
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		share := 0.0
		if canvas > 0 {
			share = 100 * s.Area / canvas
		}
		rows = append(rows, []string{
			"`" + s.Hex + "`",
			s.Color.String(),
			strconv.Itoa(s.Paths),
			strconv.FormatFloat(s.Area, 'f', 0, 64),
			strconv.FormatFloat(share, 'f', 1, 64) + "%",
			strconv.Itoa(s.Vertices),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Hex", "RGB", "Paths", "Area", "Share", "Vertices"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(res.Paths) == 0 {
		return
	}
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Area by Color"),
		piechart.WithShowData(true),
	)
	for _, s := range stats {
		if s.Paths > 0 {
			chart.LabelAndIntValue(s.Hex, uint64(math.Round(s.Area)))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeRegions(md *markdown.Markdown, res *converter.Result) {
	md.H2("Largest Regions")
	md.PlainText("")

	if len(res.Paths) == 0 {
		md.PlainText("No regions were traced.")
		md.PlainText("")
		return
	}

	// 路径已按面积排序
	n := min(largestRegions, len(res.Paths))
	items := make([]string, 0, n)
	for _, p := range res.Paths[:n] {
		items = append(items, fmt.Sprintf("%s: area %s, %d vertices",
			p.Fill, strconv.FormatFloat(p.Area, 'f', 0, 64), p.Vertices))
	}
	md.BulletList(items...)
	md.PlainText("")
}
