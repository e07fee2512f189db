// errors.go: user-facing error wrapping and caret-snippet rendering.
//
// Turns lexer/parser/builder diagnostics into readable snippets with a
// caret pointing at the offending column:
//
//	BUILD ERROR at 1:13: no such string method: name
//
//	   1 | description.name
//	     |             ^
//
// The snippet includes up to one line of context before and after the
// error, numbers the lines, and places the caret under the 1-based
// column. Errors of any other type pass through unchanged.
package jj

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource augments lex/parse/build errors with a
// caret-annotated snippet of the template source. Other errors are
// returned untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Col is 0-based; render 1-based.
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	case *BuildError:
		return fmt.Errorf("%s", snippet(src, "BUILD ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// snippet builds the snippet with a header and a caret. Coordinates are
// 1-based and clamped to the source bounds so rendering never fails.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
