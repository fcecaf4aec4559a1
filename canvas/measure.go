package canvas

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the rendered width of a string in points.
type Measurer interface {
	StringWidth(text string, f Font) float64
}

// FixedMeasurer assumes every rune is Ratio x font size wide. It is
// deterministic and font-free, which is handy for layout tests.
type FixedMeasurer struct {
	Ratio float64 // 0 means 0.5
}

func (m FixedMeasurer) StringWidth(text string, f Font) float64 {
	r := m.Ratio
	if r == 0 {
		r = 0.5
	}
	return float64(utf8.RuneCountInString(text)) * f.Size * r
}

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept, words longer than a line are split by rune, and blank lines are
// dropped.
func Wrap(m Measurer, text string, f Font, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		cur := ""
		for _, w := range words {
			for m.StringWidth(w, f) > width && utf8.RuneCountInString(w) > 1 {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				head, tail := splitToWidth(m, w, f, width)
				lines = append(lines, head)
				w = tail
			}
			switch {
			case cur == "":
				cur = w
			case m.StringWidth(cur+" "+w, f) <= width:
				cur += " " + w
			default:
				lines = append(lines, cur)
				cur = w
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// splitToWidth returns the longest rune prefix of w that fits, at least one rune.
func splitToWidth(m Measurer, w string, f Font, width float64) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && m.StringWidth(string(runes[:n+1]), f) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
