package sink

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"

	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Average Helvetica glyph width as a fraction of the font size, used where
// the sink cannot measure text.
const fontCharWidth = 0.55

const ellipsis = "…"

// fitText shortens s with an ellipsis until width(s) <= maxW.
func fitText(s string, maxW float64, width func(string) float64) string {
	if maxW <= 0 || width(s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && width(string(r)+ellipsis) > maxW {
		r = r[:len(r)-1]
	}
	if len(r) == 0 {
		return ""
	}
	return string(r) + ellipsis
}

// estimateWidth approximates the rendered width of s in millimetres.
func estimateWidth(sizePt float64) func(string) float64 {
	em := sheet.PtToMM(sizePt)
	return func(s string) float64 {
		return float64(len([]rune(s))) * em * fontCharWidth
	}
}

// fitCaption returns the text and point size c is drawn with when it must
// fit maxW. width measures text at c.Size. The serial caption is never
// shortened, so the printed text always matches the bars; it shrinks to fit
// instead. Other lines keep their size and are shortened with an ellipsis.
func fitCaption(l sheet.Label, c sheet.Caption, maxW float64, width func(string) float64) (string, float64) {
	if l.Serial == nil || c != *l.Serial {
		return fitText(c.Text, maxW, width), c.Size
	}
	if w := width(c.Text); maxW > 0 && w > maxW {
		return c.Text, c.Size * maxW / w
	}
	return c.Text, c.Size
}

// captions returns the non-empty captions of l in drawing order.
func captions(l sheet.Label) []sheet.Caption {
	out := make([]sheet.Caption, 0, 3)
	if l.Serial != nil && l.Serial.Text != "" && l.Serial.Size > 0 {
		out = append(out, *l.Serial)
	}
	for _, c := range l.Lines {
		if c.Text != "" && c.Size > 0 {
			out = append(out, c)
		}
	}
	return out
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a length with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
