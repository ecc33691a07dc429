package sink

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 20.0
)

// fontSize picks the largest size at which text fits a w×h box.
func fontSize(w, h float64, text string) float64 {
	n := max(1, len([]rune(text)))
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens text to fit a box of width w at size, ending in "..".
func truncate(text string, w, size float64) string {
	runes := []rune(text)
	maxChars := max(3, int(w*fontWidthRatio/(size*fontCharWidth)))
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
