package pdfdoc

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// registerImage registers data with pdf under a content-derived name and
// returns that name. PNG, JPEG and GIF are embedded as is; WEBP and BMP are
// converted to PNG first.
func registerImage(pdf *fpdf.Fpdf, data []byte) (string, error) {
	sum := sha1.Sum(data)
	name := "img-" + hex.EncodeToString(sum[:8])
	if info := pdf.GetImageInfo(name); info != nil {
		return name, nil
	}

	imgType, payload, err := embeddable(data)
	if err != nil {
		return "", err
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(payload))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return "", fmt.Errorf("pdfdoc: registering image: %w", err)
	}
	return name, nil
}

// embeddable returns the fpdf image type for data, converting formats fpdf
// cannot read natively.
func embeddable(data []byte) (string, []byte, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/png":
		return "PNG", data, nil
	case "image/jpeg":
		return "JPG", data, nil
	case "image/gif":
		return "GIF", data, nil
	case "image/webp", "image/bmp":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return "", nil, fmt.Errorf("pdfdoc: decoding %s: %w", ct, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", nil, fmt.Errorf("pdfdoc: converting %s: %w", ct, err)
		}
		return "PNG", buf.Bytes(), nil
	default:
		return "", nil, fmt.Errorf("pdfdoc: unsupported image type %s", ct)
	}
}
