package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cellsim/internal/viz"
)

const background = "#0a0a0a"

// FrameToSVG draws one generation as an SVG document. Each cell is a square
// of side scale, or for hexagonal grids a pointy-top hexagon of radius
// scale/2 with odd rows shifted right by half a cell. Colors come from the
// current theme's palette, indexed by state.
func FrameToSVG(frame [][]string, states []string, scale float64, hex bool) string {
	if len(frame) == 0 || len(frame[0]) == 0 {
		return ""
	}
	colors := make(map[string]string, len(states))
	for i, s := range states {
		colors[s] = string(viz.CurrentTheme.StateColor(i))
	}
	if hex {
		return hexSVG(frame, colors, scale)
	}
	return rectSVG(frame, colors, scale)
}

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

func rectSVG(frame [][]string, colors map[string]string, scale float64) string {
	rows, cols := len(frame), len(frame[0])

	var sb strings.Builder
	header(&sb, float64(cols)*scale, float64(rows)*scale)
	for y, row := range frame {
		for x, name := range row {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>
`, float64(x)*scale, float64(y)*scale, scale, scale, fill(colors, name), name))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func hexSVG(frame [][]string, colors map[string]string, scale float64) string {
	rows, cols := len(frame), len(frame[0])
	r := scale / 2
	w := math.Sqrt(3) * r
	vstep := 1.5 * r

	var sb strings.Builder
	header(&sb, w*(float64(cols)+0.5), vstep*float64(rows-1)+2*r)
	for y, row := range frame {
		for x, name := range row {
			cx := w*float64(x) + w/2
			if y&1 == 1 {
				cx += w / 2
			}
			cy := vstep*float64(y) + r
			sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="%s"><title>%s</title></polygon>
`, hexPoints(cx, cy, r), fill(colors, name), name))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func hexPoints(cx, cy, r float64) string {
	pts := make([]string, 6)
	for i := range pts {
		a := math.Pi/180*(60*float64(i)) - math.Pi/2
		pts[i] = fmt.Sprintf("%.1f,%.1f", cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return strings.Join(pts, " ")
}

func fill(colors map[string]string, name string) string {
	if c, ok := colors[name]; ok {
		return c
	}
	return string(viz.CurrentTheme.Muted)
}
