// methods.go: per-kind method dispatch tables.
//
// One lookup function per value kind. Each takes the method-name node
// plus the raw argument node and returns a new Property parameterized
// over the receiver's native kind; build.go then re-parameterizes it
// over the record type with after(). Arguments are accepted and ignored
// in every method for now; the language defines no argument semantics
// yet.
//
// Unknown method names fail the whole construction, naming both the
// kind and the method. The styled-prefix id kind has no table at all:
// it is display-only and any method call on it fails.
package jj

// parseStringMethod resolves a method on a string value.
func parseStringMethod(name *Node, _ *Node) Property[string] {
	switch name.Text {
	case "first_line":
		return StringProperty(firstLine)
	default:
		buildFail(name, "no such string method: %s", name.Text)
		panic("unreachable")
	}
}

// firstLine requires at least one line to exist. Rendering an empty
// string through it aborts; that mirrors the language's current
// behavior, where the failure depends on record data, not template text.
func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		// "\r\n" is a single line terminator; a lone "\r" is not.
		if i > 0 && s[i-1] == '\r' {
			return s[:i-1]
		}
		return s[:i]
	}
	if s == "" {
		panic("first_line: text has no lines")
	}
	return s
}

// parseBooleanMethod resolves a method on a boolean value. Booleans
// define no methods, so every name fails.
func parseBooleanMethod(name *Node, _ *Node) Property[bool] {
	buildFail(name, "no such boolean method: %s", name.Text)
	panic("unreachable")
}

// parseCommitOrChangeIDMethod resolves a method on an id value.
func parseCommitOrChangeIDMethod(name *Node, _ *Node) Property[CommitOrChangeID] {
	switch name.Text {
	case "short":
		return StringProperty(CommitOrChangeID.Short)
	case "shortest_prefix_and_brackets":
		return StringProperty(CommitOrChangeID.ShortestPrefixAndBrackets)
	case "shortest_styled_prefix":
		return StyledIDProperty(CommitOrChangeID.ShortestStyledPrefix)
	default:
		buildFail(name, "no such commit or change id method: %s", name.Text)
		panic("unreachable")
	}
}

// parseSignatureMethod resolves a method on a signature value.
func parseSignatureMethod(name *Node, _ *Node) Property[Signature] {
	switch name.Text {
	case "name":
		return StringProperty(func(sig Signature) string { return sig.Name })
	case "email":
		return StringProperty(func(sig Signature) string { return sig.Email })
	case "timestamp":
		return TimestampProperty(func(sig Signature) Timestamp { return sig.Timestamp })
	default:
		buildFail(name, "no such signature method: %s", name.Text)
		panic("unreachable")
	}
}

// parseTimestampMethod resolves a method on a timestamp value.
func parseTimestampMethod(name *Node, _ *Node) Property[Timestamp] {
	switch name.Text {
	case "ago":
		return StringProperty(FormatTimestampRelativeToNow)
	default:
		buildFail(name, "no such timestamp method: %s", name.Text)
		panic("unreachable")
	}
}
