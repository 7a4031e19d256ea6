// Package export renders body snapshots to static formats.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/body"
)

// OrbitsToSVG draws a top-down (XZ plane) view of bodies and their trails.
// Both axes share one scale so orbits keep their shape.
func OrbitsToSVG(bodies []body.Snapshot, width, height int) string {
	minX, maxX, minZ, maxZ := bounds(bodies)

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	span := math.Max(rangeX, rangeZ)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	scale := float64(min(width, height)) / span

	project := func(p [3]float64) (float64, float64) {
		return float64(width)/2 + (p[0]-cx)*scale, float64(height)/2 + (p[2]-cz)*scale
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<defs>
`, width, height, width, height)
	for i, b := range bodies {
		if b.Gradient == nil {
			continue
		}
		fmt.Fprintf(&sb, `<radialGradient id="g%d"><stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/></radialGradient>
`, i, hexColor(b.Gradient.From), hexColor(b.Gradient.To))
	}
	sb.WriteString("</defs>\n")

	for _, b := range bodies {
		if len(b.Trail) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="`, hexColor(b.Color))
		for i, p := range b.Trail {
			x, y := project(p)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for i, b := range bodies {
		x, y := project(b.Position)
		r := 1.5 + math.Log10(1+b.Radius)
		fill := hexColor(b.Color)
		if b.Gradient != nil {
			fill = fmt.Sprintf("url(#g%d)", i)
		}
		if b.Rings != nil {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="1.5"/>
`, x, y, r*1.8, hexColor(b.Rings.Color), b.Rings.Opacity)
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, x, y, r, fill, b.Name)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func bounds(bodies []body.Snapshot) (minX, maxX, minZ, maxZ float64) {
	minX, minZ = math.Inf(1), math.Inf(1)
	maxX, maxZ = math.Inf(-1), math.Inf(-1)
	grow := func(p [3]float64) {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minZ, maxZ = math.Min(minZ, p[2]), math.Max(maxZ, p[2])
	}
	for _, b := range bodies {
		grow(b.Position)
		for _, p := range b.Trail {
			grow(p)
		}
	}
	if len(bodies) == 0 {
		return 0, 0, 0, 0
	}
	return
}

// hexColor converts a 0..1 RGB triple to #rrggbb.
func hexColor(c body.RGB) string {
	var sb strings.Builder
	sb.WriteByte('#')
	for _, v := range c {
		fmt.Fprintf(&sb, "%02x", int(math.Round(math.Max(0, math.Min(1, v))*255)))
	}
	return sb.String()
}
