package svg2json

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"image2svg/color2svg"
	i2stypes "image2svg/type"
)

func TestParseFile(t *testing.T) {
	t.Parallel()

	doc := i2stypes.VectorDocument{
		Width:  120,
		Height: 80,
		Paths: []i2stypes.PathRecord{
			{Area: 9000, PathData: "M 0,0 L 0,79 L 119,79 L 119,0 Z", Fill: i2stypes.RGB{R: 255, G: 255, B: 255}},
			{Area: 100, PathData: "M 10,10 L 10,20 L 20,20 L 20,10 Z", Fill: i2stypes.RGB{R: 12, G: 34, B: 56}},
		},
	}
	path := filepath.Join(t.TempDir(), "doc.svg")
	if err := color2svg.SaveSVG(path, doc); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() = %v", err)
	}
	if got.Width != 120 || got.Height != 80 {
		t.Errorf("size = %dx%d, want 120x80", got.Width, got.Height)
	}
	if got.ViewBox != [4]float64{0, 0, 120, 80} {
		t.Errorf("viewBox = %v", got.ViewBox)
	}
	if len(got.Paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(got.Paths))
	}
	if got.Paths[1].Fill != "rgb(12,34,56)" || got.Paths[1].D != doc.Paths[1].PathData {
		t.Errorf("paths[1] = %+v", got.Paths[1])
	}

	out, err := got.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var back DocumentData
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("JSON output invalid: %v", err)
	}
	if len(back.Paths) != 2 {
		t.Errorf("round-tripped paths = %d", len(back.Paths))
	}
}

func TestParseFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ParseFile(filepath.Join(t.TempDir(), "nope.svg"))
		if !errors.Is(err, i2stypes.ErrInputNotFound) {
			t.Errorf("err = %v, want ErrInputNotFound", err)
		}
	})

	t.Run("not svg", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.svg")
		if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := ParseFile(path); !errors.Is(err, i2stypes.ErrImageRead) {
			t.Errorf("err = %v, want ErrImageRead", err)
		}
	})
}

func TestParseViewBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    [4]float64
		wantErr bool
	}{
		{in: "0 0 10 20", want: [4]float64{0, 0, 10, 20}},
		{in: "1,2,3,4", want: [4]float64{1, 2, 3, 4}},
		{in: "", want: [4]float64{}},
		{in: "0 0 10", wantErr: true},
		{in: "a b c d", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseViewBox(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseViewBox(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseViewBox(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
