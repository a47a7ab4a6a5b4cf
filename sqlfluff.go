// Package sqlfluff implements the grammar combinator core of a SQL
// parser. A grammar is a tree of composable matchers which consume a
// linear sequence of already-lexed segments and report how much of it
// they matched.
//
// Every matcher obeys the same protocol: Match returns a MatchResult
// splitting the input into a matched prefix and an unmatched suffix,
// and concatenating the two always reproduces the input (modulo
// inserted meta segments). Match failure is a value, not an error;
// the error channel carries only structural problems such as unclosed
// brackets or unknown dialect references.
//
// Overlook of combinators
//
// References into the dialect registry, resolved at match time so that
// grammars may be cyclic:
//     Ref(name), KeywordRef(keyword), Anything(), Nothing()
// Combination and repetition:
//     Sequence(elem, ...), OneOf(elem, ...), AnyNumberOf(elem, ...)
//     Delimited(elem, ..., Delimiter(d)), Bracketed(elem, ...)
//     GreedyUntil(term, ...), StartsWith(target, ...)
// Shared options are applied as trailing arguments:
//     AllowGaps(false), Optional(), Ephemeral(name), MinTimes(n),
//     MaxTimes(n), Exclude(m), Terminator(m), AllowTrailing(),
//     MinDelimiters(n), Square(), EnforceWhitespacePreceding(),
//     IncludeTerminator()
// A plain string element is shorthand for a keyword reference:
// "select" resolves to Ref("SelectKeywordSegment").
//
// Matching needs a ParseContext, which carries the dialect, a depth
// counter, the negative match cache and a logger. One context serves
// exactly one top-level parse.
package sqlfluff

// Matcher is a value that tries to consume a prefix of a segment
// sequence. Grammars, references and terminal matchers all implement
// it.
type Matcher interface {
	// Match consumes a prefix of segments. A failed match is an
	// unmatched result, not an error; errors are structural.
	Match(segments []Segment, ctx *ParseContext) (MatchResult, error)

	// Simple reports the finite set of uppercase leaf strings, one of
	// which must be present for any match, enabling the hash-based
	// lookahead fast path. The second return is false when the
	// matcher cannot make that promise.
	Simple(ctx *ParseContext) ([]string, bool)

	// IsOptional tells a containing Sequence whether this element may
	// be skipped when it does not match.
	IsOptional() bool

	String() string
}

// Match runs a matcher over segments within the given context.
func Match(m Matcher, segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return m.Match(segments, ctx)
}

// IsFullMatched tells whether the matcher consumes the segments
// entirely.
func IsFullMatched(m Matcher, segments []Segment, ctx *ParseContext) (bool, error) {
	res, err := m.Match(segments, ctx)
	if err != nil {
		return false, err
	}
	return res.HasMatch() && res.IsComplete(), nil
}
