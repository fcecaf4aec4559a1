package layout

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LogoSize fits the logo into a 120x50pt box keeping its aspect ratio. ok is
// false when there is no logo or its format is not recognized; the header is
// then laid out without one.
func LogoSize(img []byte) (w, h float64, ok bool) {
	if len(img) == 0 {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}
	scale := min(logoMaxW/float64(cfg.Width), logoMaxH/float64(cfg.Height))
	return float64(cfg.Width) * scale, float64(cfg.Height) * scale, true
}
