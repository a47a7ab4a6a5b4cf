package sqlfluff

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// AnyNumberOfGrammar matches any of its elements repeatedly, longest
// alternative first at each step. OneOf is the specialisation matching
// exactly once.
type AnyNumberOfGrammar struct {
	base
	label       string
	minTimes    int
	maxTimes    int
	hasMaxTimes bool
	exclude     Matcher
}

// AnyNumberOf builds a repetition over alternatives. Repetition bounds
// come from the MinTimes and MaxTimes options; Exclude attaches a
// matcher whose success vetoes the whole grammar.
func AnyNumberOf(args ...interface{}) *AnyNumberOfGrammar {
	return newAnyNumberOf("AnyNumberOf", args)
}

// OneOf matches any one of the given elements exactly once. If several
// match it takes the longest, ties going to the earliest element.
func OneOf(args ...interface{}) *AnyNumberOfGrammar {
	return newAnyNumberOf("OneOf", append(args, MinTimes(1), MaxTimes(1)))
}

func newAnyNumberOf(label string, args []interface{}) *AnyNumberOfGrammar {
	elements, s := splitArgs(args)
	g := &AnyNumberOfGrammar{
		base:     newBase(elements, s),
		label:       label,
		minTimes:    s.minTimes,
		maxTimes:    s.maxTimes,
		hasMaxTimes: s.hasMaxTimes,
		exclude:     s.exclude,
	}
	if s.ephemeralName != "" {
		clone := *g
		clone.ephemeralName = ""
		g.parseGrammar = &clone
	}
	return g
}

// IsOptional is true when configured optional, and also when zero
// repetitions are acceptable.
func (g *AnyNumberOfGrammar) IsOptional() bool {
	return g.optional || g.minTimes == 0
}

// Simple is the union of the elements' simple sets, unless any element
// is non-simple.
func (g *AnyNumberOfGrammar) Simple(ctx *ParseContext) ([]string, bool) {
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

// pruneOptions drops simple elements whose advertised strings cannot
// appear in the input. Non-simple elements always stay.
func (g *AnyNumberOfGrammar) pruneOptions(segments []Segment, ctx *ParseContext) []Matcher {
	var strBuff []string
	for _, seg := range segments {
		for _, leaf := range seg.RawSegments() {
			strBuff = append(strBuff, leaf.RawUpper())
		}
	}

	var available []Matcher
	nonSimple, prunedSimple, matchedSimple := 0, 0, 0
	for _, opt := range g.elements {
		options, ok := opt.Simple(ctx)
		if !ok {
			available = append(available, opt)
			nonSimple++
			continue
		}
		kept := false
		for _, simpleOpt := range options {
			if !containsString(strBuff, simpleOpt) {
				continue
			}
			// A non-whitespace option additionally has to match the
			// first non-whitespace leaf, not merely appear somewhere.
			if strings.TrimSpace(simpleOpt) != "" {
				first := firstNonWhitespace(strBuff)
				if first != simpleOpt {
					continue
				}
			}
			available = append(available, opt)
			matchedSimple++
			kept = true
			break
		}
		if !kept {
			prunedSimple++
		}
	}

	ctx.logMatch(g.label, "match", "PRN", 3, logrus.Fields{
		"ns": nonSimple, "ps": prunedSimple, "ms": matchedSimple,
	})
	return available
}

// matchOnce matches the input against the retained elements a single
// time: first complete match wins, otherwise the longest partial.
func (g *AnyNumberOfGrammar) matchOnce(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	available := g.pruneOptions(segments, ctx)
	if len(available) == 0 {
		return FromUnmatched(segments), nil
	}

	var best MatchResult
	haveBest := false
	for _, opt := range available {
		restore := ctx.DeeperMatch()
		m, err := opt.Match(segments, ctx)
		restore()
		if err != nil {
			return MatchResult{}, err
		}
		if m.HasMatch() && m.IsComplete() {
			return m, nil
		}
		if m.HasMatch() {
			if !haveBest || len(m.RawMatched()) > len(best.RawMatched()) {
				best = m
				haveBest = true
				ctx.logMatch(g.label, "match", "SAVE", 3, logrus.Fields{
					"match_length": len(m.RawMatched()),
				})
			}
		}
	}
	if haveBest {
		return best, nil
	}
	return FromUnmatched(segments), nil
}

// Match applies the elements a permitted number of times.
func (g *AnyNumberOfGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return g.wrapMatch(g.label, segments, ctx, g.matchImpl)
}

func (g *AnyNumberOfGrammar) matchImpl(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	if g.exclude != nil {
		restore := ctx.DeeperMatch()
		excl, err := g.exclude.Match(segments, ctx)
		restore()
		if err != nil {
			return MatchResult{}, err
		}
		if excl.HasMatch() {
			return FromUnmatched(segments), nil
		}
	}

	var matched []Segment
	unmatched := segments
	nMatches := 0
	for {
		if g.hasMaxTimes && nMatches >= g.maxTimes {
			return NewMatchResult(matched, unmatched), nil
		}

		if len(unmatched) == 0 {
			if nMatches >= g.minTimes {
				return NewMatchResult(matched, unmatched), nil
			}
			return FromUnmatched(segments), nil
		}

		// Past the first match, consume any intervening non-code.
		var pre []Segment
		if nMatches > 0 && g.allowGaps {
			var mid, post []Segment
			pre, mid, post = trimNonCode(unmatched)
			unmatched = concatSegments(mid, post)
		}

		m, err := g.matchOnce(unmatched, ctx)
		if err != nil {
			return MatchResult{}, err
		}
		if !m.HasMatch() {
			// The next segments are not what we're looking for.
			if nMatches >= g.minTimes {
				return NewMatchResult(matched, concatSegments(pre, unmatched)), nil
			}
			return FromUnmatched(segments), nil
		}
		matched = append(matched, pre...)
		matched = append(matched, m.Matched()...)
		unmatched = m.Unmatched()
		nMatches++
	}
}

func (g *AnyNumberOfGrammar) String() string {
	return fmt.Sprintf("<%s: [%s]>", g.label, describeElements(g.elements))
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func firstNonWhitespace(strBuff []string) string {
	for _, s := range strBuff {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
