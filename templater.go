// templater.go: renderer variants and native-kind formatting.
//
// A Template is the terminal, non-chainable form of an expression: it
// formats itself against a context into a Formatter. All variants are
// stateless and re-entrant; a built template may be rendered against any
// number of contexts, in any order, including twice against the same one
// (DynamicLabelTemplate relies on that when it renders its label source
// separately from its content).
package jj

import (
	"fmt"
	"strings"
)

// Template formats itself against a context into a text/style sink.
type Template[C any] interface {
	Format(ctx C, formatter Formatter) error
}

// Literal emits fixed text, ignoring the context.
type Literal[C any] string

func (l Literal[C]) Format(_ C, formatter Formatter) error {
	return formatter.WriteString(string(l))
}

// LabelTemplate renders its content under a fixed, precomputed label set.
type LabelTemplate[C any] struct {
	content Template[C]
	labels  []string
}

func NewLabelTemplate[C any](content Template[C], labels []string) *LabelTemplate[C] {
	return &LabelTemplate[C]{content: content, labels: labels}
}

func (t *LabelTemplate[C]) Format(ctx C, formatter Formatter) error {
	for _, label := range t.labels {
		formatter.AddLabel(label)
	}
	err := t.content.Format(ctx, formatter)
	for range t.labels {
		formatter.RemoveLabel()
	}
	return err
}

// ConditionalTemplate renders its true branch when the condition holds,
// its false branch (if any) otherwise, and nothing when the condition is
// false and no false branch exists.
type ConditionalTemplate[C any] struct {
	condition     func(C) bool
	trueTemplate  Template[C]
	falseTemplate Template[C] // may be nil
}

func NewConditionalTemplate[C any](condition func(C) bool, trueTemplate, falseTemplate Template[C]) *ConditionalTemplate[C] {
	return &ConditionalTemplate[C]{
		condition:     condition,
		trueTemplate:  trueTemplate,
		falseTemplate: falseTemplate,
	}
}

func (t *ConditionalTemplate[C]) Format(ctx C, formatter Formatter) error {
	if t.condition(ctx) {
		return t.trueTemplate.Format(ctx, formatter)
	}
	if t.falseTemplate != nil {
		return t.falseTemplate.Format(ctx, formatter)
	}
	return nil
}

// DynamicLabelTemplate computes its label set per context, then renders
// its content under those labels. The label function typically renders
// another template to plain text and tokenizes it.
type DynamicLabelTemplate[C any] struct {
	content Template[C]
	labels  func(C) []string
}

func NewDynamicLabelTemplate[C any](content Template[C], labels func(C) []string) *DynamicLabelTemplate[C] {
	return &DynamicLabelTemplate[C]{content: content, labels: labels}
}

func (t *DynamicLabelTemplate[C]) Format(ctx C, formatter Formatter) error {
	labels := t.labels(ctx)
	for _, label := range labels {
		formatter.AddLabel(label)
	}
	err := t.content.Format(ctx, formatter)
	for range labels {
		formatter.RemoveLabel()
	}
	return err
}

// ListTemplate renders each child in order against the same context.
type ListTemplate[C any] []Template[C]

func (t ListTemplate[C]) Format(ctx C, formatter Formatter) error {
	for _, child := range t {
		if err := child.Format(ctx, formatter); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Property realization
// ---------------------------------------------------------------------------

// formattablePropertyTemplate evaluates a typed property and formats its
// native value. The write function is fixed per native kind.
type formattablePropertyTemplate[C, O any] struct {
	property func(C) O
	write    func(Formatter, O) error
}

func formattable[C, O any](property func(C) O, write func(Formatter, O) error) Template[C] {
	return &formattablePropertyTemplate[C, O]{property: property, write: write}
}

func (t *formattablePropertyTemplate[C, O]) Format(ctx C, formatter Formatter) error {
	return t.write(formatter, t.property(ctx))
}

func writeString(f Formatter, s string) error { return f.WriteString(s) }

func writeBool(f Formatter, b bool) error {
	if b {
		return f.WriteString("true")
	}
	return f.WriteString("false")
}

func writeCommitOrChangeID(f Formatter, id CommitOrChangeID) error {
	return f.WriteString(id.Hex())
}

func writeStyledID(f Formatter, id IDWithHighlightedPrefix) error {
	f.AddLabel("prefix")
	err := f.WriteString(id.Prefix)
	f.RemoveLabel()
	if err != nil {
		return err
	}
	f.AddLabel("rest")
	err = f.WriteString(id.Rest)
	f.RemoveLabel()
	return err
}

func writeSignature(f Formatter, sig Signature) error {
	return f.WriteString(fmt.Sprintf("%s <%s>", sig.Name, sig.Email))
}

func writeTimestamp(f Formatter, ts Timestamp) error {
	return f.WriteString(FormatTimestamp(ts))
}

// ---------------------------------------------------------------------------
// Commit keyword evaluators
// ---------------------------------------------------------------------------

// workingCopiesText lists "name@" for every workspace whose working copy
// is this commit, sorted by workspace name. With at most one workspace
// the column carries no information, so it renders empty.
func workingCopiesText(repo Repo, c *Commit) string {
	copies := repo.WorkingCopies()
	if len(copies) <= 1 {
		return ""
	}
	var names []string
	for ws, commitID := range copies {
		if commitID == c.CommitID {
			names = append(names, string(ws)+"@")
		}
	}
	return strings.Join(sortedNames(names), " ")
}

func isWorkingCopy(repo Repo, workspaceID WorkspaceID, c *Commit) bool {
	return repo.WorkingCopies()[workspaceID] == c.CommitID
}

func gitHeadText(repo Repo, c *Commit) string {
	if repo.GitHead() == c.CommitID {
		return "HEAD@git"
	}
	return ""
}

func refListText(names []string) string {
	return strings.Join(names, " ")
}
