package sqlfluff

import (
	"fmt"
)

// GreedyUntilGrammar consumes input up to, but not including, the
// first bracket-balanced occurrence of any of its terminators.
type GreedyUntilGrammar struct {
	base
	enforceWhitespacePreceding bool
}

// GreedyUntil builds a matcher consuming everything before its
// terminators. With no terminators at all, the entire input matches.
// The EnforceWhitespacePreceding option demands whitespace before a
// terminator counts, which guards keywords that false alarm inside
// accessors.
func GreedyUntil(args ...interface{}) *GreedyUntilGrammar {
	elements, s := splitArgs(args)
	g := &GreedyUntilGrammar{
		base:                       newBase(elements, s),
		enforceWhitespacePreceding: s.enforceWhitespacePreceding,
	}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// Match consumes up to the first terminator.
func (g *GreedyUntilGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch("GreedyUntil", segments, ctx, func(segments []Segment, ctx *ParseContext) (MatchResult, error) {
		return greedyMatch(segments, ctx, g.elements, g.allowGaps, g.enforceWhitespacePreceding, false)
	})
}

func (g *GreedyUntilGrammar) String() string {
	return fmt.Sprintf("<GreedyUntil: [%s]>", describeElements(g.elements))
}

// greedyMatch is the scan-until-terminator core shared by GreedyUntil
// and StartsWith.
func greedyMatch(segments []Segment, ctx *ParseContext, matchers []Matcher, allowGaps, enforceWhitespacePreceding, includeTerminator bool) (MatchResult, error) {
	if len(matchers) == 0 {
		return FromMatched(segments), nil
	}

	segBuff := segments
	var segBank []Segment

	for {
		restore := ctx.DeeperMatch()
		pre, mat, _, err := bracketSensitiveLookAheadMatch(segBuff, matchers, ctx, allowGaps)
		restore()
		if err != nil {
			return MatchResult{}, err
		}

		if !mat.HasMatch() {
			// Terminator never found: the whole input matches.
			return FromMatched(segments), nil
		}

		if enforceWhitespacePreceding {
			allow := false
			// Does the match itself open with whitespace?
			for _, elem := range mat.Matched() {
				if elem.IsMeta() {
					continue
				}
				allow = elem.Type() == "whitespace" || elem.Type() == "newline"
				break
			}
			// If not, check what precedes it, tolerating meta
			// segments. Running off the front counts as permitted.
			if !allow {
				allow = true
				for i := len(segBank) + len(pre) - 1; i >= 0; i-- {
					var elem Segment
					if i >= len(segBank) {
						elem = pre[i-len(segBank)]
					} else {
						elem = segBank[i]
					}
					if elem.IsMeta() {
						continue
					}
					allow = elem.Type() == "whitespace" || elem.Type() == "newline"
					break
				}
			}
			if !allow {
				// Not a real terminator here; consume it as content
				// and keep scanning.
				segBank = concatSegments(segBank, pre, mat.Matched())
				segBuff = mat.Unmatched()
				continue
			}
		}

		if includeTerminator {
			return NewMatchResult(
				concatSegments(segBank, pre, mat.Matched()),
				mat.Unmatched(),
			), nil
		}

		// Non-code can't be claimed at the end of the match; trim it
		// onto the unmatched side.
		leadingNC, mid, trailingNC := trimNonCode(concatSegments(segBank, pre))
		return NewMatchResult(
			concatSegments(leadingNC, mid),
			concatSegments(trailingNC, mat.AllSegments()),
		), nil
	}
}

// StartsWithGrammar requires the first code segment to match its
// target, then consumes greedily up to its terminator.
type StartsWithGrammar struct {
	base
	target            Matcher
	terminator        Matcher
	includeTerminator bool

	enforceWhitespacePreceding bool
}

// StartsWith builds a grammar anchored on a target matcher. The
// Terminator option bounds the greedy tail; IncludeTerminator keeps
// the terminator inside the match.
func StartsWith(target interface{}, args ...interface{}) *StartsWithGrammar {
	elements, s := splitArgs(args)
	g := &StartsWithGrammar{
		base:                       newBase(elements, s),
		target:                     resolveElement(target),
		terminator:                 s.terminator,
		includeTerminator:          s.includeTerminator,
		enforceWhitespacePreceding: s.enforceWhitespacePreceding,
	}
	if g.target == nil {
		panic(configErrorf("StartsWith requires a target"))
	}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// Simple delegates to the target: StartsWith is simple if the thing it
// starts with is.
func (g *StartsWithGrammar) Simple(ctx *ParseContext) ([]string, bool) {
	return g.target.Simple(ctx)
}

// Match anchors on the target and then matches greedily up to the
// terminator.
func (g *StartsWithGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch("StartsWith", segments, ctx, g.matchImpl)
}

func (g *StartsWithGrammar) matchImpl(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	if !g.allowGaps {
		return MatchResult{}, configErrorf("StartsWith requires gaps to be allowed")
	}

	firstCode := -1
	for idx, seg := range segments {
		if seg.IsCode() {
			firstCode = idx
			break
		}
	}
	if firstCode < 0 {
		// Nothing but non-code: not a match.
		return FromUnmatched(segments), nil
	}

	restore := ctx.DeeperMatch()
	match, err := g.target.Match(segments[firstCode:], ctx)
	restore()
	if err != nil {
		return MatchResult{}, err
	}
	if !match.HasMatch() {
		return FromUnmatched(segments), nil
	}

	// The target match may be partial or full; either is fine since
	// only the start matters. The greedy tail picks up from wherever
	// it stopped.
	var terminators []Matcher
	if g.terminator != nil {
		terminators = []Matcher{g.terminator}
	}
	greedy, err := greedyMatch(
		match.Unmatched(), ctx, terminators,
		g.allowGaps, g.enforceWhitespacePreceding, g.includeTerminator,
	)
	if err != nil {
		return MatchResult{}, err
	}
	return NewMatchResult(
		concatSegments(segments[:firstCode], match.Matched(), greedy.Matched()),
		greedy.Unmatched(),
	), nil
}

func (g *StartsWithGrammar) String() string {
	return fmt.Sprintf("<StartsWith: %s>", curtail(fmt.Sprint(g.target), 40))
}
