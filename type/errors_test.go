package i2stypes

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "input not found", err: fmt.Errorf("%w: a.png", ErrInputNotFound), want: "InputNotFound"},
		{name: "image read", err: fmt.Errorf("decode: %w", ErrImageRead), want: "ImageReadError"},
		{name: "color", err: ErrInvalidColorFormat, want: "InvalidColorFormat"},
		{name: "parameter", err: fmt.Errorf("%w: num_colors", ErrInvalidParameter), want: "InvalidParameter"},
		{name: "write", err: fmt.Errorf("%w: disk full", ErrWrite), want: "WriteError"},
		{name: "other", err: errors.New("boom"), want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	t.Parallel()

	c := RGB{R: 255, G: 10, B: 0}
	if got := c.String(); got != "rgb(255,10,0)" {
		t.Errorf("String() = %q", got)
	}
}
