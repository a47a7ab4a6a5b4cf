package sqlfluff

import (
	"fmt"
)

// DelimitedGrammar matches an arbitrary number of elements separated
// by a delimiter. Multiple elements are treated as alternatives for
// each slot, not as a sequence.
type DelimitedGrammar struct {
	base
	delimiter        Matcher
	terminator       Matcher
	allowTrailing    bool
	minDelimiters    int
	hasMinDelimiters bool
}

// Delimited builds a delimiter-interleaved grammar. The Delimiter
// option is required; Terminator, AllowTrailing and MinDelimiters are
// optional.
func Delimited(args ...interface{}) *DelimitedGrammar {
	elements, s := splitArgs(args)
	if s.delimiter == nil {
		panic(configErrorf("Delimited grammars require a delimiter"))
	}
	g := &DelimitedGrammar{
		base:             newBase(elements, s),
		delimiter:        s.delimiter,
		terminator:       s.terminator,
		allowTrailing:    s.allowTrailing,
		minDelimiters:    s.minDelimiters,
		hasMinDelimiters: s.hasMinDelimiters,
	}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// Simple is the union of the elements' simple sets, unless any element
// is non-simple.
func (g *DelimitedGrammar) Simple(ctx *ParseContext) ([]string, bool) {
	var buff []string
	for _, opt := range g.elements {
		options, ok := opt.Simple(ctx)
		if !ok {
			return nil, false
		}
		buff = append(buff, options...)
	}
	return buff, true
}

func (g *DelimitedGrammar) enoughDelimiters(count int) bool {
	return !g.hasMinDelimiters || count >= g.minDelimiters
}

// Match scans for delimiters bracket-sensitively and requires each
// content slice between them to completely match one of the elements.
func (g *DelimitedGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch("Delimited", segments, ctx, g.matchImpl)
}

func (g *DelimitedGrammar) matchImpl(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	if len(segments) == 0 {
		return FromEmpty(), nil
	}

	matchers := []Matcher{g.delimiter}
	if g.terminator != nil {
		matchers = append(matchers, g.terminator)
	}

	segBuff := segments
	var matched []Segment
	delimiterCount := 0

	for {
		// If we're here with nothing left then the previous iteration
		// ended on a delimiter: a trailing case.
		if len(segBuff) == 0 {
			if g.allowTrailing && g.enoughDelimiters(delimiterCount) {
				return FromMatched(matched), nil
			}
			return FromUnmatched(segments), nil
		}

		// Gap handling happens around each content slice, not inside
		// the scan itself.
		restore := ctx.DeeperMatch()
		preContent, delimMatch, m, err := bracketSensitiveLookAheadMatch(segBuff, matchers, ctx, false)
		restore()
		if err != nil {
			return MatchResult{}, err
		}
		preContentLen := len(preContent)

		if !delimMatch.HasMatch() {
			// No delimiter or terminator ahead: the final slice.
			if !g.enoughDelimiters(delimiterCount) {
				return FromUnmatched(segments), nil
			}
			var preTermNC, final, postTermNC []Segment
			if g.allowGaps {
				preTermNC, final, postTermNC = trimNonCode(segBuff)
			} else {
				final = segBuff
			}
			restore := ctx.DeeperMatch()
			mat, _, err := longestCodeOnlySensitiveMatch(final, g.elements, ctx, g.allowGaps)
			restore()
			if err != nil {
				return MatchResult{}, err
			}
			if mat.HasMatch() {
				if !mat.IsComplete() {
					return NewMatchResult(
						concatSegments(matched, preTermNC, mat.Matched()),
						concatSegments(mat.Unmatched(), postTermNC),
					), nil
				}
				return FromMatched(concatSegments(matched, preTermNC, mat.Matched(), postTermNC)), nil
			}
			if g.allowTrailing {
				return NewMatchResult(matched, concatSegments(preTermNC, final, postTermNC)), nil
			}
			return FromUnmatched(segments), nil
		}

		if m == g.delimiter {
			delimiterCount++
		}

		var preNC, content, postNC []Segment
		if g.allowGaps {
			preNC, content, postNC = trimNonCode(preContent)
		} else {
			content = preContent
		}

		// A zero length section between delimiters is never valid.
		if len(content) == 0 {
			return FromUnmatched(segments), nil
		}

		matchedElem := false
		for _, elem := range g.elements {
			restore := ctx.DeeperMatch()
			elemMatch, err := codeOnlySensitiveMatch(content, elem, ctx, g.allowGaps)
			restore()
			if err != nil {
				return MatchResult{}, err
			}
			// A complete match is required between delimiters or up
			// to a terminator; partials don't count.
			if !elemMatch.HasMatch() || !elemMatch.IsComplete() {
				continue
			}

			matched = append(matched, preNC...)
			matched = append(matched, elemMatch.Matched()...)
			matched = append(matched, postNC...)

			if m == g.delimiter {
				matched = append(matched, delimMatch.Matched()...)
				segBuff = delimMatch.Unmatched()
				matchedElem = true
				break
			}

			// Terminator. It stays with the unmatched parts, along
			// with everything after it.
			if !g.enoughDelimiters(delimiterCount) {
				return FromUnmatched(segments), nil
			}
			return NewMatchResult(matched, segBuff[preContentLen:]), nil
		}
		if !matchedElem {
			return FromUnmatched(segments), nil
		}
	}
}

func (g *DelimitedGrammar) String() string {
	return fmt.Sprintf("<Delimited: [%s]>", describeElements(g.elements))
}
