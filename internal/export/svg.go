package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/viz"
)

var palette = []string{"#ffcc00", "#00d7ff", "#ff5f87", "#5fff87", "#af87ff", "#ff8700"}

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h)
}

// CanvasToSVG draws every lit Braille sub-pixel of canvas as a dot, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width*2)*scale, float64(canvas.Height*4)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, scale*0.4)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Orbits draws one path per body through its sampled positions, in a square
// view of side size pixels covering [-radius, radius] on both axes. Every
// sample must list the bodies in the same order. The last position of each
// body is marked and labelled with its asset.
func Orbits(samples [][]*body.Body, radius float64, size int) string {
	if len(samples) == 0 || radius <= 0 || size <= 0 {
		return ""
	}

	s := float64(size)
	project := func(x, y float64) (float64, float64) {
		return (x/radius + 1) / 2 * s, (1 - y/radius) / 2 * s
	}

	var sb strings.Builder
	header(&sb, s, s)

	n := len(samples[0])
	for i := 0; i < n; i++ {
		color := palette[i%len(palette)]

		var path strings.Builder
		for _, bodies := range samples {
			if i >= len(bodies) || !finite(bodies[i]) {
				continue
			}
			px, py := project(bodies[i].X(), bodies[i].Y())
			if path.Len() == 0 {
				fmt.Fprintf(&path, "M%.1f,%.1f", px, py)
			} else {
				fmt.Fprintf(&path, " L%.1f,%.1f", px, py)
			}
		}
		if path.Len() > 0 {
			fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1\" d=\"%s\"/>\n", color, path.String())
		}

		last := samples[len(samples)-1]
		if i < len(last) && finite(last[i]) {
			px, py := project(last[i].X(), last[i].Y())
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", px, py, color)
			fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-size=\"10\">%s</text>\n", px+5, py-5, color, escape(last[i].Asset()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(b *body.Body) bool {
	return !math.IsNaN(b.X()) && !math.IsNaN(b.Y()) && !math.IsInf(b.X(), 0) && !math.IsInf(b.Y(), 0)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
