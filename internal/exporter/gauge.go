package exporter

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

const gaugeSize = 400

// renderGauge draws a radial progress indicator: a light track ring
// with a colored arc whose sweep is proportional to fraction, starting
// at 12 o'clock. The percentage text is layered on top as a native
// slide text box, not baked into the image.
func renderGauge(fraction float64, hexColor string) ([]byte, error) {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = math.Max(0, math.Min(1, fraction))

	dc := gg.NewContext(gaugeSize, gaugeSize)

	cx := float64(gaugeSize) / 2
	cy := float64(gaugeSize) / 2
	radius := float64(gaugeSize) * 0.38
	ring := float64(gaugeSize) * 0.12

	dc.SetLineWidth(ring)
	dc.SetHexColor("#E6E6E6")
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()

	if fraction > 0 {
		dc.SetHexColor(hexColor)
		start := -math.Pi / 2
		dc.DrawArc(cx, cy, radius, start, start+2*math.Pi*fraction)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("gauge: png encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
