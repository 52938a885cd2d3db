package svg2json

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"

	i2stypes "image2svg/type"
)

// PathData 单个 <path> 的填充色与路径数据
type PathData struct {
	Fill string `json:"fill"`
	D    string `json:"d"`
}

// DocumentData 已写出的 SVG 文档摘要
type DocumentData struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	ViewBox [4]float64 `json:"viewBox"`
	Paths   []PathData `json:"paths"`
}

// ParseFile 读取 SVG 文件
func ParseFile(path string) (*DocumentData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", i2stypes.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	return Parse(data)
}

// Parse 解析 SVG 文本
func Parse(data []byte) (*DocumentData, error) {
	parsed, err := svg.ParseSvg(string(data), "document", 1.0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	box, err := parseViewBox(parsed.ViewBox)
	if err != nil {
		return nil, err
	}

	root, err := extractRoot(data)
	if err != nil {
		return nil, err
	}

	doc := &DocumentData{
		ViewBox: box,
		Width:   parseLength(root.Width, box[2]),
		Height:  parseLength(root.Height, box[3]),
		Paths:   make([]PathData, len(root.Paths)),
	}
	for i, p := range root.Paths {
		doc.Paths[i] = PathData{Fill: p.Fill, D: p.D}
	}
	return doc, nil
}

// JSON 返回缩进的 JSON
func (d *DocumentData) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

type xmlPath struct {
	D    string `xml:"d,attr"`
	Fill string `xml:"fill,attr"`
}

type xmlRoot struct {
	Width  string    `xml:"width,attr"`
	Height string    `xml:"height,attr"`
	Paths  []xmlPath `xml:"path"`
}

// extractRoot 从 SVG 中提取根元素尺寸和所有 <path>
func extractRoot(data []byte) (xmlRoot, error) {
	var s xmlRoot
	if err := xml.Unmarshal(data, &s); err != nil {
		return xmlRoot{}, fmt.Errorf("%w: %w", i2stypes.ErrImageRead, err)
	}
	return s, nil
}

// 从 viewBox 读取 4 个数
func parseViewBox(s string) ([4]float64, error) {
	var box [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return box, nil
	}
	if len(fields) != 4 {
		return box, fmt.Errorf("%w: viewBox %q", i2stypes.ErrImageRead, s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return box, fmt.Errorf("%w: viewBox %q", i2stypes.ErrImageRead, s)
		}
		box[i] = v
	}
	return box, nil
}

func parseLength(s string, fallback float64) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return int(fallback)
}
