package jj

import (
	"strings"
	"testing"
)

// recordingFormatter captures each write with the labels active at that
// moment, for asserting label regions precisely.
type recordedWrite struct {
	text   string
	labels []string
}

type recordingFormatter struct {
	stack  []string
	writes []recordedWrite
}

func newRecordingFormatter() *recordingFormatter { return &recordingFormatter{} }

func (f *recordingFormatter) WriteString(s string) error {
	f.writes = append(f.writes, recordedWrite{text: s, labels: append([]string(nil), f.stack...)})
	return nil
}

func (f *recordingFormatter) AddLabel(label string) { f.stack = append(f.stack, label) }

func (f *recordingFormatter) RemoveLabel() {
	if len(f.stack) > 0 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

func formatRecorded(t *testing.T, tmpl Template[*Commit], c *Commit) []recordedWrite {
	t.Helper()
	f := newRecordingFormatter()
	if err := tmpl.Format(c, f); err != nil {
		t.Fatalf("Format error: %v", err)
	}
	return f.writes
}

// --- renderer variants ------------------------------------------------------

func Test_Templater_Literal(t *testing.T) {
	var buf strings.Builder
	if err := Literal[*Commit]("hi").Format(nil, NewPlainTextFormatter(&buf)); err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if buf.String() != "hi" {
		t.Fatalf("literal: got %q", buf.String())
	}
}

func Test_Templater_LabelNesting(t *testing.T) {
	inner := NewLabelTemplate[*Commit](Literal[*Commit]("x"), []string{"b", "c"})
	outer := NewLabelTemplate[*Commit](inner, []string{"a"})
	writes := formatRecorded(t, outer, nil)
	if len(writes) != 1 {
		t.Fatalf("writes: got %#v", writes)
	}
	if got := strings.Join(writes[0].labels, ","); got != "a,b,c" {
		t.Fatalf("nested labels: got %q", got)
	}
}

func Test_Templater_LabelsPoppedAfterRegion(t *testing.T) {
	labeled := NewLabelTemplate[*Commit](Literal[*Commit]("in"), []string{"x"})
	list := ListTemplate[*Commit]{labeled, Literal[*Commit]("out")}
	writes := formatRecorded(t, list, nil)
	if len(writes) != 2 {
		t.Fatalf("writes: got %#v", writes)
	}
	if len(writes[1].labels) != 0 {
		t.Fatalf("labels leaked past region: %#v", writes[1])
	}
}

func Test_Templater_ConditionalIsStateless(t *testing.T) {
	_, c1, c2 := testRepo(t)
	cond := NewConditionalTemplate(
		func(c *Commit) bool { return c.Conflict },
		Literal[*Commit]("T"),
		Literal[*Commit]("F"),
	)
	// Re-rendering against alternating commits never accumulates state.
	for i := 0; i < 3; i++ {
		if got := renderText(t, cond, c2); got != "T" {
			t.Fatalf("round %d true: got %q", i, got)
		}
		if got := renderText(t, cond, c1); got != "F" {
			t.Fatalf("round %d false: got %q", i, got)
		}
	}
}

func Test_Templater_DynamicLabelRendersSharedSourceTwice(t *testing.T) {
	repo, c1, _ := testRepo(t)
	// The same underlying template serves as both label source and
	// content; both renders must see identical output.
	source := mustBuild(t, repo, "branches")
	tmpl := NewDynamicLabelTemplate[*Commit](source, dynamicLabels(source))
	writes := formatRecorded(t, tmpl, c1)
	var text strings.Builder
	for _, w := range writes {
		text.WriteString(w.text)
	}
	if text.String() != "dev main" {
		t.Fatalf("content: got %q", text.String())
	}
	for _, w := range writes {
		if got := strings.Join(w.labels[:2], ","); got != "dev,main" {
			t.Fatalf("labels: got %v", w.labels)
		}
	}
}

func Test_Templater_StyledIDLabels(t *testing.T) {
	repo, c1, _ := testRepo(t)
	tmpl := mustBuild(t, repo, "commit_id.shortest_styled_prefix")
	writes := formatRecorded(t, tmpl, c1)
	if len(writes) != 2 {
		t.Fatalf("writes: got %#v", writes)
	}
	if writes[0].text != "0a1" || writes[0].labels[len(writes[0].labels)-1] != "prefix" {
		t.Fatalf("prefix write: got %#v", writes[0])
	}
	if writes[1].text != "b2c3d4e5f" || writes[1].labels[len(writes[1].labels)-1] != "rest" {
		t.Fatalf("rest write: got %#v", writes[1])
	}
}

// --- label accumulation through the builder ---------------------------------

func Test_Templater_KeywordAndMethodLabels(t *testing.T) {
	repo, c1, _ := testRepo(t)
	tmpl := mustBuild(t, repo, "description.first_line")
	writes := formatRecorded(t, tmpl, c1)
	if len(writes) != 1 {
		t.Fatalf("writes: got %#v", writes)
	}
	// Identifier first, then each method name, in source order.
	if got := strings.Join(writes[0].labels, ","); got != "description,first_line" {
		t.Fatalf("labels: got %q", got)
	}
}

func Test_Templater_PlainLiteralHasNoLabels(t *testing.T) {
	repo, c1, _ := testRepo(t)
	writes := formatRecorded(t, mustBuild(t, repo, `"x"`), c1)
	if len(writes) != 1 || len(writes[0].labels) != 0 {
		t.Fatalf("writes: got %#v", writes)
	}
}
