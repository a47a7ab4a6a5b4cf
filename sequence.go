package sqlfluff

import (
	"fmt"
)

// SequenceGrammar matches its elements in order, with optional and
// meta elements handled along the way.
type SequenceGrammar struct {
	base
}

// Sequence builds an ordered grammar over the given elements.
func Sequence(args ...interface{}) *SequenceGrammar {
	elements, s := splitArgs(args)
	g := &SequenceGrammar{base: newBase(elements, s)}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// Simple is the union of the simple sets of the leading elements up to
// and including the first non-optional one, or non-simple if any of
// those cannot promise a string.
func (g *SequenceGrammar) Simple(ctx *ParseContext) ([]string, bool) {
	var buff []string
	for _, opt := range g.elements {
		options, ok := opt.Simple(ctx)
		if !ok {
			return nil, false
		}
		buff = append(buff, options...)
		if !opt.IsOptional() {
			return buff, true
		}
	}
	return buff, true
}

// Match matches the elements in order against the input.
func (g *SequenceGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch("Sequence", segments, ctx, g.matchImpl)
}

func (g *SequenceGrammar) matchImpl(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	var matched []Segment
	unmatched := segments

	for idx, elem := range g.elements {
		// Meta elements emit a positioned segment without consuming
		// anything.
		if mm, ok := elem.(*metaMatcher); ok {
			if !mm.enabled(ctx) {
				continue
			}
			matched = append(matched, mm.makeSegment(metaAnchor(matched, unmatched)))
			continue
		}

		var preNC, mid, postNC []Segment
		if g.allowGaps {
			preNC, mid, postNC = trimNonCode(unmatched)
		} else {
			mid = unmatched
		}

		if len(unmatched) == 0 {
			// Input exhausted mid-sequence. That's fine as long as
			// everything left is optional or meta.
			if !allOptionalOrMeta(g.elements[idx:]) {
				return FromUnmatched(segments), nil
			}
			pos := metaAnchor(matched, unmatched)
			for _, e := range g.elements[idx:] {
				if mm, ok := e.(*metaMatcher); ok && mm.enabled(ctx) {
					matched = append(matched, mm.makeSegment(pos))
				}
			}
			return FromMatched(matched), nil
		}

		restore := ctx.DeeperMatch()
		elemMatch, err := elem.Match(mid, ctx)
		restore()
		if err != nil {
			return MatchResult{}, err
		}

		if !elemMatch.HasMatch() {
			if elem.IsOptional() {
				continue
			}
			return FromUnmatched(segments), nil
		}

		// Partial matches are expected here; don't be greedy with the
		// trailing whitespace.
		matched = append(matched, preNC...)
		matched = append(matched, elemMatch.Matched()...)
		unmatched = concatSegments(elemMatch.Unmatched(), postNC)
		if err := checkStillComplete(segments, matched, unmatched); err != nil {
			return MatchResult{}, err
		}
	}

	// All elements matched or were skipped; any leftovers stay
	// unmatched for the caller.
	return NewMatchResult(matched, unmatched), nil
}

func (g *SequenceGrammar) String() string {
	return fmt.Sprintf("<Sequence: [%s]>", describeElements(g.elements))
}

// metaAnchor picks the position for an inserted meta segment: the end
// of what's matched so far, or failing that the start of what's next.
func metaAnchor(matched, unmatched []Segment) Position {
	if len(matched) > 0 {
		return matched[len(matched)-1].EndPos()
	}
	if len(unmatched) > 0 {
		return unmatched[0].Pos()
	}
	return Position{}
}

func allOptionalOrMeta(elements []Matcher) bool {
	for _, e := range elements {
		if _, ok := e.(*metaMatcher); ok {
			continue
		}
		if !e.IsOptional() {
			return false
		}
	}
	return true
}
