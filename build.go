// build.go: the term/template builder.
//
// This is the semantic core: it walks the syntax tree from parser.go and
// produces an executable renderer. Expressions are type-checked as the
// tree is walked; a term starts as a typed Property (string literal or
// commit keyword), each chained method re-dispatches on the current kind
// and re-parameterizes the result over the commit type, and control-flow
// functions (label, if) produce terminal templates directly.
//
// Construction failures (unknown names, bad escapes, wrong argument
// counts, non-boolean conditions) abort the whole build. Internally they
// are signalled with a typed panic and recovered into a *BuildError at
// the Build boundary, the same fail-then-recover shape the rest of the
// package uses for diagnostics. Node-kind assertions are a precondition
// on the parser's output contract, not input validation; a violation is
// a plain panic.
package jj

import (
	"fmt"
	"strings"
)

// BuildError reports a construction-time failure with 1-based line and
// 0-based col of the offending token.
type BuildError struct {
	Line int
	Col  int
	Msg  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

type buildPanic struct {
	line int
	col  int
	msg  string
}

// buildFail aborts construction, pointing at node n.
func buildFail(n *Node, format string, args ...any) {
	panic(buildPanic{line: n.Line, col: n.Col, msg: fmt.Sprintf(format, args...)})
}

// assertKind documents the parser's output contract. A mismatch is a bug
// in the caller, not a user error.
func assertKind(n *Node, kind NodeKind) {
	if n.Kind != kind {
		panic(fmt.Sprintf("syntax tree contract violated: expected %s node, got %s", kind, n.Kind))
	}
}

// Build parses template text and constructs a renderer over commits.
// The repo handle and workspace id are borrowed read-only for the
// lifetime of the returned template.
func Build(repo Repo, workspaceID WorkspaceID, text string) (tmpl Template[*Commit], err error) {
	root, perr := Parse(text)
	if perr != nil {
		return nil, WrapErrorWithSource(perr, text)
	}
	defer func() {
		if r := recover(); r != nil {
			bp, ok := r.(buildPanic)
			if !ok {
				panic(r)
			}
			tmpl = nil
			err = WrapErrorWithSource(&BuildError{Line: bp.line, Col: bp.col, Msg: bp.msg}, text)
		}
	}()

	assertKind(root, KindProgram)
	first := root.Children[0]
	if first.Kind == KindEOI {
		return Literal[*Commit](""), nil
	}
	b := &builder{repo: repo, workspaceID: workspaceID}
	return b.parseTemplateNode(first).intoTemplate(), nil
}

type builder struct {
	repo        Repo
	workspaceID WorkspaceID
}

// propertyAndLabels pairs a still-chainable property with the style
// labels accumulated from the identifiers and method names that built
// it, in source order.
type propertyAndLabels struct {
	property Property[*Commit]
	labels   []string
}

func (pl propertyAndLabels) intoTemplate() Template[*Commit] {
	if len(pl.labels) == 0 {
		return pl.property.intoTemplate()
	}
	return NewLabelTemplate(pl.property.intoTemplate(), pl.labels)
}

// expression is the builder's intermediate result: either a chainable
// property or an already terminal template. Exactly one field is set.
type expression struct {
	property *propertyAndLabels
	template Template[*Commit]
}

func propertyExpr(pl propertyAndLabels) expression { return expression{property: &pl} }
func templateExpr(t Template[*Commit]) expression  { return expression{template: t} }

func (e expression) tryIntoBoolean() (func(*Commit) bool, bool) {
	if e.property == nil {
		return nil, false
	}
	return e.property.property.tryIntoBoolean()
}

func (e expression) intoTemplate() Template[*Commit] {
	if e.property != nil {
		return e.property.intoTemplate()
	}
	return e.template
}

// parseStringLiteral decodes a literal node's raw and escape segments.
// Supported escapes: \" \\ \n. Anything else fails the build.
func parseStringLiteral(n *Node) string {
	assertKind(n, KindLiteral)
	var out []byte
	for _, part := range n.Children {
		switch part.Kind {
		case KindRawLiteral:
			out = append(out, part.Text...)
		case KindEscape:
			switch part.Text[1] {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			default:
				buildFail(part, "invalid escape: \\%c", part.Text[1])
			}
		default:
			panic(fmt.Sprintf("syntax tree contract violated: unexpected %s inside literal", part.Kind))
		}
	}
	return string(out)
}

// parseCommitKeyword maps an identifier to its record accessor. The
// identifier name becomes the first style label of the chain.
func (b *builder) parseCommitKeyword(n *Node) propertyAndLabels {
	assertKind(n, KindIdentifier)
	repo, workspaceID := b.repo, b.workspaceID
	var property Property[*Commit]
	switch n.Text {
	case "description":
		property = StringProperty(func(c *Commit) string { return c.Description })
	case "change_id":
		property = CommitOrChangeIDProperty(func(c *Commit) CommitOrChangeID {
			return NewCommitOrChangeID(repo, c.ChangeID)
		})
	case "commit_id":
		property = CommitOrChangeIDProperty(func(c *Commit) CommitOrChangeID {
			return NewCommitOrChangeID(repo, c.CommitID)
		})
	case "author":
		property = SignatureProperty(func(c *Commit) Signature { return c.Author })
	case "committer":
		property = SignatureProperty(func(c *Commit) Signature { return c.Committer })
	case "working_copies":
		property = StringProperty(func(c *Commit) string { return workingCopiesText(repo, c) })
	case "current_working_copy":
		property = BooleanProperty(func(c *Commit) bool { return isWorkingCopy(repo, workspaceID, c) })
	case "branches":
		property = StringProperty(func(c *Commit) string { return refListText(repo.Branches(c.CommitID)) })
	case "tags":
		property = StringProperty(func(c *Commit) string { return refListText(repo.Tags(c.CommitID)) })
	case "git_refs":
		property = StringProperty(func(c *Commit) string { return refListText(repo.GitRefs(c.CommitID)) })
	case "git_head":
		property = StringProperty(func(c *Commit) string { return gitHeadText(repo, c) })
	case "divergent":
		property = BooleanProperty(func(c *Commit) bool { return repo.Divergent(c.ChangeID) })
	case "conflict":
		property = BooleanProperty(func(c *Commit) bool { return c.Conflict })
	case "empty":
		property = BooleanProperty(func(c *Commit) bool { return c.Empty })
	default:
		buildFail(n, "unknown identifier: %s", n.Text)
	}
	return propertyAndLabels{property: property, labels: []string{n.Text}}
}

// functionParts splits a function node into its name and argument nodes.
func functionParts(n *Node) (name *Node, args *Node) {
	assertKind(n, KindFunction)
	name, args = n.Children[0], n.Children[1]
	assertKind(name, KindIdentifier)
	assertKind(args, KindFunctionArguments)
	return name, args
}

// parseMethodChain applies each chained method call, dispatching on the
// property's current kind and accumulating method names as labels.
func parseMethodChain(n *Node, pl propertyAndLabels) propertyAndLabels {
	assertKind(n, KindMaybeMethod)
	property, labels := pl.property, pl.labels
	for _, call := range n.Children {
		name, args := functionParts(call)
		labels = append(labels, name.Text)
		switch property.kind {
		case kindString:
			property = after(parseStringMethod(name, args), property.asString)
		case kindBoolean:
			property = after(parseBooleanMethod(name, args), property.asBool)
		case kindCommitOrChangeID:
			property = after(parseCommitOrChangeIDMethod(name, args), property.asID)
		case kindIDWithHighlightedPrefix:
			buildFail(name, "id with styled prefix has no methods: %s", name.Text)
		case kindSignature:
			property = after(parseSignatureMethod(name, args), property.asSignature)
		case kindTimestamp:
			property = after(parseTimestampMethod(name, args), property.asTimestamp)
		}
	}
	return propertyAndLabels{property: property, labels: labels}
}

// applyMethodChain attaches a trailing method chain to an expression. A
// terminal template has no kind to dispatch on, so chaining onto one
// fails loudly instead of silently dropping the methods.
func applyMethodChain(n *Node, e expression) expression {
	assertKind(n, KindMaybeMethod)
	if len(n.Children) == 0 {
		return e
	}
	if e.property == nil {
		name, _ := functionParts(n.Children[0])
		buildFail(name, "cannot call method %s on a template", name.Text)
	}
	return propertyExpr(parseMethodChain(n, *e.property))
}

// parseTerm interprets one term: its head expression plus its method
// chain.
func (b *builder) parseTerm(n *Node) expression {
	assertKind(n, KindTerm)
	head, method := n.Children[0], n.Children[1]

	switch head.Kind {
	case KindLiteral:
		text := parseStringLiteral(head)
		term := propertyAndLabels{property: StringProperty(func(*Commit) string { return text })}
		return propertyExpr(parseMethodChain(method, term))
	case KindIdentifier:
		return propertyExpr(parseMethodChain(method, b.parseCommitKeyword(head)))
	case KindFunction:
		return applyMethodChain(method, b.parseFunction(head))
	case KindTemplate:
		return applyMethodChain(method, b.parseTemplateNode(head))
	default:
		panic(fmt.Sprintf("syntax tree contract violated: unexpected term head %s", head.Kind))
	}
}

// parseFunction interprets a top-level function call. Only the
// control-flow functions exist; everything else is unimplemented.
func (b *builder) parseFunction(n *Node) expression {
	name, args := functionParts(n)
	switch name.Text {
	case "label":
		if len(args.Children) != 2 {
			buildFail(n, "label() requires exactly two arguments")
		}
		labelTemplate := b.parseTemplateNode(args.Children[0]).intoTemplate()
		content := b.parseTemplateNode(args.Children[1]).intoTemplate()
		return templateExpr(NewDynamicLabelTemplate(content, dynamicLabels(labelTemplate)))
	case "if":
		if len(args.Children) < 2 {
			buildFail(n, "if() requires at least two arguments")
		}
		if len(args.Children) > 3 {
			buildFail(n, "if() accepts at most three arguments")
		}
		conditionNode := args.Children[0]
		condition, ok := b.parseTemplateNode(conditionNode).tryIntoBoolean()
		if !ok {
			buildFail(conditionNode, "cannot use this expression as a boolean condition")
		}
		trueTemplate := b.parseTemplateNode(args.Children[1]).intoTemplate()
		var falseTemplate Template[*Commit]
		if len(args.Children) == 3 {
			falseTemplate = b.parseTemplateNode(args.Children[2]).intoTemplate()
		}
		return templateExpr(NewConditionalTemplate(condition, trueTemplate, falseTemplate))
	default:
		buildFail(name, "function %s not implemented", name.Text)
		panic("unreachable")
	}
}

// parseTemplateNode reduces a template node. A single term passes
// through unchanged (it may still be chainable); multiple terms realize
// into a concatenation, since a bare value sequence has no standalone
// rendering.
func (b *builder) parseTemplateNode(n *Node) expression {
	assertKind(n, KindTemplate)
	if len(n.Children) == 1 {
		return b.parseTerm(n.Children[0])
	}
	list := make(ListTemplate[*Commit], 0, len(n.Children))
	for _, term := range n.Children {
		list = append(list, b.parseTerm(term).intoTemplate())
	}
	return templateExpr(list)
}

// dynamicLabels renders the label-source template to plain text for a
// given commit and tokenizes the result on whitespace. The captured
// template may be rendered any number of times, once per formatted
// commit, which is safe because templates are stateless.
func dynamicLabels(labelTemplate Template[*Commit]) func(*Commit) []string {
	return func(c *Commit) []string {
		var buf strings.Builder
		_ = labelTemplate.Format(c, NewPlainTextFormatter(&buf))
		return strings.Fields(buf.String())
	}
}
