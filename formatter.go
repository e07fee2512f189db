// formatter.go: output sinks for rendered templates.
//
// Every renderer writes through a Formatter. A formatter keeps a stack of
// style labels; AddLabel/RemoveLabel bracket a region, and each
// WriteString call is styled according to the labels active at that
// moment. PlainTextFormatter ignores labels entirely, which also makes it
// the sink DynamicLabelTemplate uses to compute label words from rendered
// text. ColorFormatter maps the innermost recognized label to an ANSI
// color.
package jj

import "io"

// Formatter accepts rendered text plus the style-label context it was
// rendered under.
type Formatter interface {
	WriteString(s string) error
	AddLabel(label string)
	RemoveLabel()
}

// ---------------------------------------------------------------------------
// Plain text
// ---------------------------------------------------------------------------

// PlainTextFormatter writes text as-is and drops all label information.
type PlainTextFormatter struct {
	w io.Writer
}

func NewPlainTextFormatter(w io.Writer) *PlainTextFormatter {
	return &PlainTextFormatter{w: w}
}

func (f *PlainTextFormatter) WriteString(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *PlainTextFormatter) AddLabel(string) {}
func (f *PlainTextFormatter) RemoveLabel()    {}

// ---------------------------------------------------------------------------
// ANSI color
// ---------------------------------------------------------------------------

const ansiReset = "\x1b[0m"

// defaultPalette maps labels to ANSI escape sequences. Labels without an
// entry render unstyled.
var defaultPalette = map[string]string{
	"commit_id":      "\x1b[34m",
	"change_id":      "\x1b[35m",
	"author":         "\x1b[33m",
	"committer":      "\x1b[33m",
	"timestamp":      "\x1b[36m",
	"working_copies": "\x1b[32m",
	"branches":       "\x1b[35m",
	"tags":           "\x1b[35m",
	"git_refs":       "\x1b[32m",
	"git_head":       "\x1b[32m",
	"divergent":      "\x1b[31m",
	"conflict":       "\x1b[31m",
	"empty":          "\x1b[32m",
	"prefix":         "\x1b[1m",
	"rest":           "\x1b[90m",
}

// ColorFormatter styles each write with the color of the innermost
// active label that has a palette entry.
type ColorFormatter struct {
	w       io.Writer
	stack   []string
	palette map[string]string
}

// NewColorFormatter uses the default palette.
func NewColorFormatter(w io.Writer) *ColorFormatter {
	return NewColorFormatterWithPalette(w, defaultPalette)
}

func NewColorFormatterWithPalette(w io.Writer, palette map[string]string) *ColorFormatter {
	return &ColorFormatter{w: w, palette: palette}
}

func (f *ColorFormatter) WriteString(s string) error {
	if s == "" {
		return nil
	}
	color := f.currentColor()
	if color == "" {
		_, err := io.WriteString(f.w, s)
		return err
	}
	_, err := io.WriteString(f.w, color+s+ansiReset)
	return err
}

func (f *ColorFormatter) AddLabel(label string) {
	f.stack = append(f.stack, label)
}

func (f *ColorFormatter) RemoveLabel() {
	if len(f.stack) > 0 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

// currentColor scans from the innermost label outwards.
func (f *ColorFormatter) currentColor() string {
	for i := len(f.stack) - 1; i >= 0; i-- {
		if color, ok := f.palette[f.stack[i]]; ok {
			return color
		}
	}
	return ""
}
