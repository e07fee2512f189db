// html.go: an HTML render sink built on gomponents.
//
// HTMLFormatter collects labeled text segments during rendering and
// lowers them to a gomponents node tree afterwards: each segment becomes
// a text node wrapped in one <span class="label"> per active label,
// innermost label innermost span.
package jj

import (
	"io"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type htmlSegment struct {
	text   string
	labels []string
}

// HTMLFormatter implements Formatter by accumulating segments. Call
// Node or Render once formatting is done.
type HTMLFormatter struct {
	stack    []string
	segments []htmlSegment
}

func NewHTMLFormatter() *HTMLFormatter { return &HTMLFormatter{} }

func (f *HTMLFormatter) WriteString(s string) error {
	if s == "" {
		return nil
	}
	labels := append([]string(nil), f.stack...)
	f.segments = append(f.segments, htmlSegment{text: s, labels: labels})
	return nil
}

func (f *HTMLFormatter) AddLabel(label string) {
	f.stack = append(f.stack, label)
}

func (f *HTMLFormatter) RemoveLabel() {
	if len(f.stack) > 0 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

// Node lowers the collected segments to a single gomponents node.
func (f *HTMLFormatter) Node() g.Node {
	nodes := make([]g.Node, 0, len(f.segments))
	for _, seg := range f.segments {
		node := g.Text(seg.text)
		for i := len(seg.labels) - 1; i >= 0; i-- {
			node = h.Span(h.Class(seg.labels[i]), node)
		}
		nodes = append(nodes, node)
	}
	return g.Group(nodes)
}

// Render writes the lowered HTML to w.
func (f *HTMLFormatter) Render(w io.Writer) error {
	return f.Node().Render(w)
}
