package image2color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	i2stypes "image2svg/type"
)

// ParseColor 解析 "R,G,B" 或 "#rrggbb" 形式的颜色
func ParseColor(s string) (i2stypes.RGB, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return i2stypes.RGB{}, fmt.Errorf("%w: %q", i2stypes.ErrInvalidColorFormat, s)
		}
		r, g, b := c.RGB255()
		return i2stypes.RGB{R: r, G: g, B: b}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return i2stypes.RGB{}, fmt.Errorf("%w: %q, use 'R,G,B'", i2stypes.ErrInvalidColorFormat, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return i2stypes.RGB{}, fmt.Errorf("%w: %q, use 'R,G,B'", i2stypes.ErrInvalidColorFormat, s)
		}
		ch[i] = uint8(v)
	}
	return i2stypes.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
