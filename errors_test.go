package jj

import (
	"errors"
	"strings"
	"testing"
)

// --- small helpers ----------------------------------------------------------

// snippetLinePrefix is the width of the "%4d | " gutter every snippet
// line carries; the caret line uses the same width with blank digits.
const snippetLinePrefix = 7

// caretTarget locates the caret line in a rendered snippet and returns
// the source line printed above it plus the caret's 0-based column
// within that source line.
func caretTarget(t *testing.T, rendered string) (srcLine string, caretCol int) {
	t.Helper()
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "     | ") || !strings.Contains(line, "^") {
			continue
		}
		if i == 0 {
			t.Fatalf("caret line without a source line above it:\n%s", rendered)
		}
		src := lines[i-1]
		if len(src) < snippetLinePrefix {
			t.Fatalf("source line %q shorter than the gutter:\n%s", src, rendered)
		}
		return src[snippetLinePrefix:], strings.Index(line, "^") - snippetLinePrefix
	}
	t.Fatalf("no caret line in:\n%s", rendered)
	return "", 0
}

func wantCaretUnder(t *testing.T, rendered string, wantLine string, wantCol int) {
	t.Helper()
	srcLine, col := caretTarget(t, rendered)
	if srcLine != wantLine {
		t.Fatalf("caret under line %q, want %q\n%s", srcLine, wantLine, rendered)
	}
	if col != wantCol {
		t.Fatalf("caret at column %d, want %d\n%s", col, wantCol, rendered)
	}
}

// --- tests ------------------------------------------------------------------

func Test_Errors_LexSnippetCaret(t *testing.T) {
	src := "description %"
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("Lex(%q): expected error", src)
	}
	rendered := WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(rendered, "LEX ERROR at 1:13: unexpected character '%'") {
		t.Fatalf("unexpected header:\n%s", rendered)
	}
	wantCaretUnder(t, rendered, src, 12)
}

func Test_Errors_ParseSnippetCaret(t *testing.T) {
	src := "description,"
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("Parse(%q): expected error", src)
	}
	rendered := WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(rendered, "PARSE ERROR at 1:12: expected end of input, found ','") {
		t.Fatalf("unexpected header:\n%s", rendered)
	}
	wantCaretUnder(t, rendered, src, 11)
}

func Test_Errors_BuildSnippetCaretAndContext(t *testing.T) {
	repo, _, _ := testRepo(t)
	src := "description\ncommit_id.bogus()\nauthor"
	_, err := Build(repo, DefaultWorkspaceID, src)
	if err == nil {
		t.Fatalf("Build(%q): expected error", src)
	}
	rendered := err.Error()
	if !strings.HasPrefix(rendered, "BUILD ERROR at 2:11: no such commit or change id method: bogus") {
		t.Fatalf("unexpected header:\n%s", rendered)
	}
	wantCaretUnder(t, rendered, "commit_id.bogus()", 10)
	// One numbered context line on each side.
	if !strings.Contains(rendered, "   1 | description\n") {
		t.Fatalf("missing preceding context line:\n%s", rendered)
	}
	if !strings.Contains(rendered, "   3 | author\n") {
		t.Fatalf("missing following context line:\n%s", rendered)
	}
}

func Test_Errors_InvalidEscapeCaretAtBackslash(t *testing.T) {
	repo, _, _ := testRepo(t)
	src := `"ab\q"`
	_, err := Build(repo, DefaultWorkspaceID, src)
	if err == nil {
		t.Fatalf("Build(%q): expected error", src)
	}
	rendered := err.Error()
	if !strings.HasPrefix(rendered, `BUILD ERROR at 1:4: invalid escape: \q`) {
		t.Fatalf("unexpected header:\n%s", rendered)
	}
	wantCaretUnder(t, rendered, src, 3)
}

func Test_Errors_SnippetClampsCoordinates(t *testing.T) {
	// Coordinates below range clamp to 1:1.
	out := snippet("abc", "PARSE ERROR", 0, 0, "boom")
	if !strings.HasPrefix(out, "PARSE ERROR at 1:1: boom") {
		t.Fatalf("low coordinates not clamped:\n%s", out)
	}
	wantCaretUnder(t, out, "abc", 0)

	// A line past the end clamps to the last line.
	out = snippet("a\nb", "PARSE ERROR", 9, 1, "boom")
	if !strings.HasPrefix(out, "PARSE ERROR at 2:1: boom") {
		t.Fatalf("high line not clamped:\n%s", out)
	}
	wantCaretUnder(t, out, "b", 0)
	if !strings.Contains(out, "   1 | a\n") {
		t.Fatalf("missing preceding context line:\n%s", out)
	}

	// Empty source still renders a single numbered line.
	out = snippet("", "LEX ERROR", 1, 1, "boom")
	wantCaretUnder(t, out, "", 0)
}

func Test_Errors_UnknownErrorsPassThrough(t *testing.T) {
	err := errors.New("disk on fire")
	if got := WrapErrorWithSource(err, "description"); got != err {
		t.Fatalf("WrapErrorWithSource rewrote an unrelated error: %v", got)
	}
}
