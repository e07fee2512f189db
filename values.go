// values.go: the type-indexed value model behind template expressions.
//
// The template language is untyped at the source level, but every
// expression is type-checked while the syntax tree is walked, over a
// closed set of six value kinds. Property[C] is that closed union: a
// kind tag plus exactly one typed evaluator func(C) native, the one
// matching the tag. The tag never changes after construction; every
// kind-changing operation (method application, chaining, coercion)
// builds a fresh Property around a fresh evaluator.
//
// Keeping one evaluator field per kind instead of a single func(C) any
// is deliberate: the per-kind method tables in methods.go dispatch on
// the tag and read only the matching field, so a kind mismatch is
// impossible to express.
package jj

type propertyKind int

const (
	kindString propertyKind = iota
	kindBoolean
	kindCommitOrChangeID
	kindIDWithHighlightedPrefix
	kindSignature
	kindTimestamp
)

func (k propertyKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBoolean:
		return "boolean"
	case kindCommitOrChangeID:
		return "commit or change id"
	case kindIDWithHighlightedPrefix:
		return "id with styled prefix"
	case kindSignature:
		return "signature"
	case kindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Property is a typed, chainable evaluator from a context C to one of
// the closed set of native kinds. Exactly one evaluator field is set.
type Property[C any] struct {
	kind        propertyKind
	asString    func(C) string
	asBool      func(C) bool
	asID        func(C) CommitOrChangeID
	asStyledID  func(C) IDWithHighlightedPrefix
	asSignature func(C) Signature
	asTimestamp func(C) Timestamp
}

func StringProperty[C any](f func(C) string) Property[C] {
	return Property[C]{kind: kindString, asString: f}
}

func BooleanProperty[C any](f func(C) bool) Property[C] {
	return Property[C]{kind: kindBoolean, asBool: f}
}

func CommitOrChangeIDProperty[C any](f func(C) CommitOrChangeID) Property[C] {
	return Property[C]{kind: kindCommitOrChangeID, asID: f}
}

func StyledIDProperty[C any](f func(C) IDWithHighlightedPrefix) Property[C] {
	return Property[C]{kind: kindIDWithHighlightedPrefix, asStyledID: f}
}

func SignatureProperty[C any](f func(C) Signature) Property[C] {
	return Property[C]{kind: kindSignature, asSignature: f}
}

func TimestampProperty[C any](f func(C) Timestamp) Property[C] {
	return Property[C]{kind: kindTimestamp, asTimestamp: f}
}

// chain composes two evaluators end to end. Evaluation stays lazy:
// neither function runs until the returned one is called with a context.
func chain[C, I, O any](first func(C) I, second func(I) O) func(C) O {
	return func(c C) O { return second(first(c)) }
}

// after re-parameterizes p over an outer context type: first maps the
// outer context to p's context, and p's evaluator runs on the result.
// The output kind is p's kind. This is what turns a method's property
// (parameterized over the receiver's native kind) back into a property
// over the original record type.
func after[C, I any](p Property[I], first func(C) I) Property[C] {
	switch p.kind {
	case kindString:
		return StringProperty(chain(first, p.asString))
	case kindBoolean:
		return BooleanProperty(chain(first, p.asBool))
	case kindCommitOrChangeID:
		return CommitOrChangeIDProperty(chain(first, p.asID))
	case kindIDWithHighlightedPrefix:
		return StyledIDProperty(chain(first, p.asStyledID))
	case kindSignature:
		return SignatureProperty(chain(first, p.asSignature))
	case kindTimestamp:
		return TimestampProperty(chain(first, p.asTimestamp))
	default:
		panic("unreachable property kind")
	}
}

// tryIntoBoolean returns an evaluator usable as a condition. Booleans
// pass through; a string coerces to "non-empty is true". No other kind
// coerces.
func (p Property[C]) tryIntoBoolean() (func(C) bool, bool) {
	switch p.kind {
	case kindString:
		s := p.asString
		return func(c C) bool { return s(c) != "" }, true
	case kindBoolean:
		return p.asBool, true
	default:
		return nil, false
	}
}

// intoTemplate realizes the property as a renderer that evaluates it
// and formats the native value.
func (p Property[C]) intoTemplate() Template[C] {
	switch p.kind {
	case kindString:
		return formattable(p.asString, writeString)
	case kindBoolean:
		return formattable(p.asBool, writeBool)
	case kindCommitOrChangeID:
		return formattable(p.asID, writeCommitOrChangeID)
	case kindIDWithHighlightedPrefix:
		return formattable(p.asStyledID, writeStyledID)
	case kindSignature:
		return formattable(p.asSignature, writeSignature)
	case kindTimestamp:
		return formattable(p.asTimestamp, writeTimestamp)
	default:
		panic("unreachable property kind")
	}
}
