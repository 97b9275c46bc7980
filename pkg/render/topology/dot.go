package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/render"
)

// Options configures joint graph rendering.
type Options struct {
	// Detailed adds the line ID and segment count to node labels and the
	// recorded angle to edge labels.
	Detailed bool
}

// ToDOT converts a snapshot's lines and joints to an undirected Graphviz
// graph.
func ToDOT(s render.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for i, l := range s.Lines {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(nodeAttrs(i, l, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, j := range s.Joints {
		label := j.EndA + "-" + j.EndB
		if opts.Detailed {
			label += fmt.Sprintf("\n%.3f", j.Angle)
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", nodeID(j.A), nodeID(j.B), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "line-" + strconv.Itoa(i) }

func nodeAttrs(i int, l render.Line, detailed bool) []string {
	label := strconv.Itoa(i)
	if detailed {
		segs := max(len(l.Points)-1, 0)
		label = fmt.Sprintf("%d\n%s\nsegments: %d", i, shortID(l.ID), segs)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if l.Dynamic {
		attrs = append(attrs, "fillcolor=black", "fontcolor=white")
	}
	return attrs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
