package pixkernel

import (
	stdcolor "image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#fff", RGBA{R: 1, G: 1, B: 1, A: 1}},
		{"f00", RGBA{R: 1, A: 1}},
		{"#0f08", RGBA{G: 1, A: 136.0 / 255}},
		{"#336699", RGBA{R: 0x33 / 255.0, G: 0x66 / 255.0, B: 0x99 / 255.0, A: 1}},
		{"#00000080", RGBA{A: 128.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHex() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) should fail", in)
		}
	}
}

func TestColorConversions(t *testing.T) {
	c := RGB{R: 1, G: 0.5, B: -1}
	if got := c.WithAlpha(0.25); got != (RGBA{R: 1, G: 0.5, B: -1, A: 0.25}) {
		t.Errorf("WithAlpha() = %+v", got)
	}
	if got := c.WithAlpha(1).RGB(); got != c {
		t.Errorf("RGB() = %+v", got)
	}
	if got := c.Color(); got != (stdcolor.NRGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Errorf("Color() = %v", got)
	}
}
