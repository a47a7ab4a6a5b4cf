package sqlfluff

import (
	"fmt"
)

// BracketedGrammar matches a paired pair of brackets whose interior
// matches its elements as a sequence. The bracket matchers themselves
// come from the dialect.
type BracketedGrammar struct {
	base
	content      *SequenceGrammar
	startBracket Matcher
	endBracket   Matcher
	square       bool
}

// Bracketed builds a bracketed sequence. The Square option switches
// from round to square brackets.
func Bracketed(args ...interface{}) *BracketedGrammar {
	elements, s := splitArgs(args)
	startRef, endRef := "StartBracketSegment", "EndBracketSegment"
	if s.square {
		startRef, endRef = "StartSquareBracketSegment", "EndSquareBracketSegment"
	}
	content := &SequenceGrammar{base: newBase(elements, s)}
	content.ephemeralName = ""
	g := &BracketedGrammar{
		base:         newBase(elements, s),
		content:      content,
		startBracket: Ref(startRef),
		endBracket:   Ref(endRef),
		square:       s.square,
	}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// Simple just looks for the opening bracket.
func (g *BracketedGrammar) Simple(ctx *ParseContext) ([]string, bool) {
	return g.startBracket.Simple(ctx)
}

// Match finds the opening bracket, bracket counts forward to its
// partner, and requires the interior to match the content sequence
// completely.
func (g *BracketedGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch("Bracketed", segments, ctx, g.matchImpl)
}

func (g *BracketedGrammar) matchImpl(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	// Work forward to the opening bracket, over leading non-code when
	// gaps are allowed.
	restore := ctx.DeeperMatch()
	startMatch, err := codeOnlySensitiveMatch(segments, g.startBracket, ctx, g.allowGaps)
	restore()
	if err != nil {
		return MatchResult{}, err
	}
	if !startMatch.HasMatch() {
		return FromUnmatched(segments), nil
	}

	// Bracket count forward for its partner.
	contentSegs, endMatch, _, err := bracketSensitiveLookAheadMatch(
		startMatch.Unmatched(), []Matcher{g.endBracket}, ctx, g.allowGaps,
	)
	if err != nil {
		return MatchResult{}, err
	}
	if !endMatch.HasMatch() {
		open := startMatch.Matched()
		return MatchResult{}, parseErrorf(open[len(open)-1], "couldn't find closing bracket for opening bracket")
	}

	// Totally empty brackets.
	if len(contentSegs) == 0 {
		if len(g.elements) == 0 || allOptionalOrMeta(g.elements) {
			return NewMatchResult(
				concatSegments(startMatch.Matched(), endMatch.Matched()),
				endMatch.Unmatched(),
			), nil
		}
		return FromUnmatched(segments), nil
	}

	// Brackets holding nothing but non-code.
	var preNC, postNC []Segment
	if g.allowGaps {
		preNC, contentSegs, postNC = trimNonCode(contentSegs)
	}
	if len(contentSegs) == 0 {
		if len(g.elements) == 0 || (allOptionalOrMeta(g.elements) && g.allowGaps) {
			return NewMatchResult(
				concatSegments(startMatch.Matched(), preNC, postNC, endMatch.Matched()),
				endMatch.Unmatched(),
			), nil
		}
		return FromUnmatched(segments), nil
	}

	// The interior is an expected sequence and has to match whole.
	restore = ctx.DeeperMatch()
	contentMatch, err := g.content.matchImpl(contentSegs, ctx)
	restore()
	if err != nil {
		return MatchResult{}, err
	}
	if !contentMatch.HasMatch() || !contentMatch.IsComplete() {
		return FromUnmatched(segments), nil
	}

	// Wrap the content in indents, keeping the non-code outside them.
	inner := contentMatch.Matched()
	preMeta := NewIndentSegment(inner[0].StartPos())
	postMeta := NewDedentSegment(inner[len(inner)-1].EndPos())
	matched := concatSegments(startMatch.Matched(), preNC)
	matched = append(matched, preMeta)
	matched = append(matched, inner...)
	matched = append(matched, postMeta)
	matched = append(matched, postNC...)
	matched = append(matched, endMatch.Matched()...)
	return NewMatchResult(matched, endMatch.Unmatched()), nil
}

func (g *BracketedGrammar) String() string {
	if g.square {
		return fmt.Sprintf("<Bracketed: [%s]>", describeElements(g.elements))
	}
	return fmt.Sprintf("<Bracketed: (%s)>", describeElements(g.elements))
}
