package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/patternsynth/pkg/render"
)

// RenderSVG renders the snapshot as an SVG document in world coordinates.
func RenderSVG(s render.Snapshot, opts ...Option) ([]byte, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	v := c.view(s)
	w, h := c.pixels(v)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%d" height="%d">`+"\n",
		num(v.MinX), num(v.MinY), num(v.Width()), num(v.Height()), w, h)
	fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="white"/>`+"\n",
		num(v.MinX), num(v.MinY), num(v.Width()), num(v.Height()))

	fmt.Fprintf(&buf, `  <g fill="none" stroke="black" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		num(c.stroke/c.scale))
	for _, l := range s.Lines {
		if len(l.Points) < 2 {
			continue
		}
		fmt.Fprintf(&buf, `    <polyline id="line-%s" points="`, l.ID)
		for i, p := range l.Points {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(num(p[0]))
			buf.WriteByte(',')
			buf.WriteString(num(p[1]))
		}
		buf.WriteString(`"/>` + "\n")
	}
	buf.WriteString("  </g>\n")

	if c.bodies {
		renderBodies(&buf, s)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderBodies(buf *bytes.Buffer, s render.Snapshot) {
	side := num(2 * BodyHalfExtent)
	buf.WriteString(`  <g fill="black" class="bodies">` + "\n")
	for _, l := range s.Lines {
		for _, p := range l.Points {
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s"/>`+"\n",
				num(p[0]-BodyHalfExtent), num(p[1]-BodyHalfExtent), side, side)
		}
	}
	buf.WriteString("  </g>\n")
}

// num formats a coordinate compactly.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
