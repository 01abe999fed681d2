package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 18.0
)

// FontSize picks a font size that fits text of n characters into a box.
func FontSize(availWidth, availHeight float64, n int) float64 {
	n = max(1, n)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens label to what fits into availWidth at fontSize.
func TruncateLabel(label string, availWidth, fontSize float64) string {
	maxChars := int(availWidth*fontWidthRatio/(fontSize*fontCharWidth) + 1e-9)
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// headerText writes a label centered in a header strip, reading bottom-up.
func headerText(buf *bytes.Buffer, s Shape) {
	if s.W <= 0 || s.H <= 0 {
		return
	}
	size := FontSize(s.H, s.W, len([]rune(s.Label)))
	label := TruncateLabel(s.Label, s.H, size)
	cx, cy := s.X+s.W/2, s.Y+s.H/2
	fmt.Fprintf(buf, `  <text class="lane-label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" transform="rotate(-90 %.2f %.2f)">%s</text>`+"\n",
		cx, cy, size, cx, cy, EscapeXML(label))
}

// stripText writes a label centered in a milestone strip cell.
func stripText(buf *bytes.Buffer, s Shape) {
	if s.W <= 0 || s.H <= 0 {
		return
	}
	size := FontSize(s.W, s.H, len([]rune(s.Label)))
	label := TruncateLabel(s.Label, s.W, size)
	fmt.Fprintf(buf, `  <text class="milestone-label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		s.X+s.W/2, s.Y+s.H/2, size, EscapeXML(label))
}
