package invoicekit

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Image is raw image data. In JSON it is written as a data URL and accepts
// either a data URL ("data:image/png;base64,...") or a bare base64 string.
type Image []byte

// MIMEType sniffs the content type of the image data.
func (img Image) MIMEType() string {
	if len(img) == 0 {
		return ""
	}
	return http.DetectContentType(img)
}

func (img Image) MarshalJSON() ([]byte, error) {
	if len(img) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal("data:" + img.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img))
}

func (img *Image) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: image must be a string: %v", ErrInvalidParam, err)
	}
	decoded, err := DecodeDataURL(s)
	if err != nil {
		return err
	}
	*img = decoded
	return nil
}

// DecodeDataURL decodes a base64 data URL or a bare base64 payload.
// An empty string decodes to nil.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.Contains(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URL", ErrInvalidParam)
		}
		s = s[comma+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: image data: %v", ErrInvalidParam, err)
	}
	return bytes.Clone(b), nil
}
