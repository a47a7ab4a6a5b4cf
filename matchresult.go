package sqlfluff

import (
	"fmt"
	"strings"
)

// MatchResult is the value returned by every matcher. It splits the
// input into a matched prefix and an unmatched suffix. Concatenating
// the two always reproduces the input the matcher was called with,
// modulo any inserted meta segments.
type MatchResult struct {
	matched   []Segment
	unmatched []Segment
}

// NewMatchResult builds a result from an explicit prefix and suffix.
func NewMatchResult(matched, unmatched []Segment) MatchResult {
	return MatchResult{matched: matched, unmatched: unmatched}
}

// FromMatched builds a result which consumed all the given segments.
func FromMatched(segments []Segment) MatchResult {
	return MatchResult{matched: segments}
}

// FromUnmatched builds a result which consumed nothing.
func FromUnmatched(segments []Segment) MatchResult {
	return MatchResult{unmatched: segments}
}

// FromEmpty builds a result over no input at all.
func FromEmpty() MatchResult {
	return MatchResult{}
}

// Matched returns the matched prefix.
func (m MatchResult) Matched() []Segment {
	return m.matched
}

// Unmatched returns the unmatched suffix.
func (m MatchResult) Unmatched() []Segment {
	return m.unmatched
}

// HasMatch tells whether anything at all was matched.
func (m MatchResult) HasMatch() bool {
	return len(m.matched) > 0
}

// IsComplete tells whether the whole input was consumed.
func (m MatchResult) IsComplete() bool {
	return len(m.unmatched) == 0
}

// Len is the number of matched segments.
func (m MatchResult) Len() int {
	return len(m.matched)
}

// RawMatched is the concatenated raw text of the matched segments.
// Its length serves as the tie-break when picking the longest match.
func (m MatchResult) RawMatched() string {
	var sb strings.Builder
	for _, seg := range m.matched {
		sb.WriteString(seg.Raw())
	}
	return sb.String()
}

// AllSegments returns the matched and unmatched segments rejoined.
func (m MatchResult) AllSegments() []Segment {
	return concatSegments(m.matched, m.unmatched)
}

func (m MatchResult) String() string {
	return fmt.Sprintf("<MatchResult %d/%d>", len(m.matched), len(m.matched)+len(m.unmatched))
}

// concatSegments joins segment slices into a fresh slice, so results
// never alias a caller's backing array.
func concatSegments(parts ...[]Segment) []Segment {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	if n == 0 {
		return nil
	}
	out := make([]Segment, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
