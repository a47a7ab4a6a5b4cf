package sqlfluff

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// codeOnlySensitiveMatch matches, but also deals with leading and
// trailing non-code. When gaps are allowed the non-code bands are
// trimmed before the inner matcher runs and reattached afterwards: a
// complete match claims both bands, a partial match claims only the
// leading one.
func codeOnlySensitiveMatch(segments []Segment, matcher Matcher, ctx *ParseContext, allowGaps bool) (MatchResult, error) {
	if !allowGaps {
		return matcher.Match(segments, ctx)
	}
	pre, mid, post := trimNonCode(segments)
	if len(mid) == 0 {
		return FromUnmatched(segments), nil
	}
	m, err := matcher.Match(mid, ctx)
	if err != nil {
		return MatchResult{}, err
	}
	switch {
	case m.HasMatch() && m.IsComplete():
		return FromMatched(concatSegments(pre, m.Matched(), post)), nil
	case m.HasMatch():
		return NewMatchResult(
			concatSegments(pre, m.Matched()),
			concatSegments(m.Unmatched(), post),
		), nil
	default:
		return FromUnmatched(segments), nil
	}
}

// longestCodeOnlySensitiveMatch tries each matcher at the same
// starting position. The first complete match wins outright; otherwise
// the longest partial does, with ties going to the earliest matcher in
// the list.
func longestCodeOnlySensitiveMatch(segments []Segment, matchers []Matcher, ctx *ParseContext, allowGaps bool) (MatchResult, Matcher, error) {
	if len(segments) == 0 {
		return FromEmpty(), nil, nil
	}
	var best MatchResult
	var bestMatcher Matcher
	for _, m := range matchers {
		res, err := codeOnlySensitiveMatch(segments, m, ctx, allowGaps)
		if err != nil {
			return MatchResult{}, nil, err
		}
		if res.HasMatch() && res.IsComplete() {
			return res, m, nil
		}
		if res.HasMatch() && res.Len() > best.Len() {
			best = res
			bestMatcher = m
		}
	}
	if best.HasMatch() {
		return best, bestMatcher, nil
	}
	return FromUnmatched(segments), nil, nil
}

// lookAheadCandidate is a provisional winner of lookAheadMatch.
type lookAheadCandidate struct {
	pre     []Segment
	match   MatchResult
	matcher Matcher
}

// lookAheadMatch scans for matches beyond the first segment, returning
// the skipped segments, the match, and the winning matcher.
//
// Simple matchers take a fast path: a buffer of the uppercase raws is
// scanned for each advertised string, candidates are tried in position
// order and the first that really matches wins. Non-simple matchers
// walk the input position by position. When both routes produce a
// candidate the earlier starting position wins, then the longer match,
// then the earlier matcher in the input list.
func lookAheadMatch(segments []Segment, matchers []Matcher, ctx *ParseContext, allowGaps bool) ([]Segment, MatchResult, Matcher, error) {
	ctx.logMatch("lookAhead", "match", "IN", 4, logrus.Fields{
		"ls":  len(segments),
		"seg": joinSegmentsForLog(segments),
	})
	if len(segments) == 0 {
		return nil, FromEmpty(), nil, nil
	}

	var simpleMatchers, nonSimpleMatchers []Matcher
	for _, m := range matchers {
		if _, ok := m.Simple(ctx); ok {
			simpleMatchers = append(simpleMatchers, m)
		} else {
			nonSimpleMatchers = append(nonSimpleMatchers, m)
		}
	}

	var best *lookAheadCandidate
	if len(simpleMatchers) > 0 {
		// Buffer the uppercase raw of each segment. Compound segments
		// are deliberately kept whole rather than enumerated leaf by
		// leaf: within an existing segment things are internally
		// consistent, and splitting them breaks bracket matching.
		strBuff := make([]string, len(segments))
		segIdxBuff := make([]int, len(segments))
		for idx, seg := range segments {
			strBuff[idx] = seg.RawUpper()
			segIdxBuff[idx] = idx
		}

		type queued struct {
			matcher Matcher
			pos     int
			option  string
		}
		var queue []queued
		for _, m := range simpleMatchers {
			options, _ := m.Simple(ctx)
			for _, option := range options {
				for pos, raw := range strBuff {
					if raw == option {
						queue = append(queue, queued{matcher: m, pos: pos, option: option})
						break
					}
				}
			}
		}
		sort.SliceStable(queue, func(i, j int) bool { return queue[i].pos < queue[j].pos })

		ctx.logMatch("lookAhead", "match", "SI", 4, logrus.Fields{"queued": len(queue)})

		for _, cand := range queue {
			segIdx := segIdxBuff[cand.pos]
			match, err := cand.matcher.Match(segments[segIdx:], ctx)
			if err != nil {
				return nil, MatchResult{}, nil, err
			}
			if !match.HasMatch() {
				// Found by the hash route but excluded by the real
				// matcher. Try the next candidate.
				ctx.logMatch("lookAhead", "match", "NM", 4, logrus.Fields{"option": cand.option})
				continue
			}
			pre := segments[:segIdx]
			if allowGaps {
				// Absorb any non-code immediately before the match.
				for len(pre) > 0 && !pre[len(pre)-1].IsCode() {
					match = NewMatchResult(
						concatSegments(pre[len(pre)-1:len(pre)], match.Matched()),
						match.Unmatched(),
					)
					pre = pre[:len(pre)-1]
				}
				// And the tail, but only when it is the whole of the
				// rest; otherwise the next matcher will pick it up.
				if allNonCode(match.Unmatched()) {
					match = FromMatched(match.AllSegments())
				}
			}
			best = &lookAheadCandidate{pre: pre, match: match, matcher: cand.matcher}
			break
		}
	}

	if len(nonSimpleMatchers) == 0 {
		ctx.logMatch("lookAhead", "match", "SC", 4, nil)
		if best != nil {
			return best.pre, best.match, best.matcher, nil
		}
		return nil, FromUnmatched(segments), nil, nil
	}

	segBuff := segments
	var preSegBuff []Segment
	for {
		if len(segBuff) == 0 {
			// Got to the end without a non-simple match.
			if best != nil {
				return best.pre, best.match, best.matcher, nil
			}
			return nil, FromUnmatched(segments), nil, nil
		}

		mat, m, err := longestCodeOnlySensitiveMatch(segBuff, nonSimpleMatchers, ctx, allowGaps)
		if err != nil {
			return nil, MatchResult{}, nil, err
		}
		if mat.HasMatch() && best == nil {
			return preSegBuff, mat, m, nil
		}
		if mat.HasMatch() {
			// There is a simple candidate too. Earlier position wins,
			// then length, then order in the original matcher list.
			switch {
			case len(preSegBuff) < len(best.pre),
				len(preSegBuff) == len(best.pre) && mat.Len() > best.match.Len(),
				len(preSegBuff) == len(best.pre) && mat.Len() == best.match.Len() &&
					indexOfMatcher(matchers, m) < indexOfMatcher(matchers, best.matcher):
				return preSegBuff, mat, m, nil
			default:
				return best.pre, best.match, best.matcher, nil
			}
		}

		// No match here. If the scan has reached the simple
		// candidate's position, that candidate stands.
		if best != nil && len(preSegBuff) >= len(best.pre) {
			return best.pre, best.match, best.matcher, nil
		}
		preSegBuff = append(preSegBuff, segBuff[0])
		segBuff = segBuff[1:]
		if allowGaps {
			for len(segBuff) > 0 && !segBuff[0].IsCode() {
				preSegBuff = append(preSegBuff, segBuff[0])
				segBuff = segBuff[1:]
			}
		}
	}
}

// bracketSensitiveLookAheadMatch is lookAheadMatch with bracket
// counting: matches inside unclosed brackets are ignored, and bracket
// mismatches surface as parse errors. A successful return guarantees
// the skipped segments are bracket balanced.
func bracketSensitiveLookAheadMatch(segments []Segment, matchers []Matcher, ctx *ParseContext, allowGaps bool) ([]Segment, MatchResult, Matcher, error) {
	if len(segments) == 0 {
		return nil, FromUnmatched(segments), nil, nil
	}

	var startBrackets, endBrackets []Matcher
	for _, name := range []string{"StartBracketSegment", "StartSquareBracketSegment"} {
		m, err := ctx.Dialect().Ref(name)
		if err != nil {
			return nil, MatchResult{}, nil, err
		}
		startBrackets = append(startBrackets, m)
	}
	for _, name := range []string{"EndBracketSegment", "EndSquareBracketSegment"} {
		m, err := ctx.Dialect().Ref(name)
		if err != nil {
			return nil, MatchResult{}, nil, err
		}
		endBrackets = append(endBrackets, m)
	}
	bracketMatchers := append(append([]Matcher{}, startBrackets...), endBrackets...)
	allMatchers := append(append([]Matcher{}, matchers...), bracketMatchers...)

	segBuff := segments
	var preSegBuff []Segment
	var bracketStack []Segment

	for {
		if len(segBuff) == 0 {
			if len(bracketStack) > 0 {
				top := bracketStack[len(bracketStack)-1]
				return nil, MatchResult{}, nil, parseErrorf(top, "couldn't find closing bracket for opening bracket")
			}
			return nil, FromUnmatched(segments), nil, nil
		}

		if len(bracketStack) > 0 {
			// Inside brackets only other brackets are interesting.
			pre, match, matcher, err := lookAheadMatch(segBuff, bracketMatchers, ctx, allowGaps)
			if err != nil {
				return nil, MatchResult{}, nil, err
			}
			if !match.HasMatch() {
				top := bracketStack[len(bracketStack)-1]
				return nil, MatchResult{}, nil, parseErrorf(top, "couldn't find closing bracket for opening bracket")
			}
			if containsMatcher(startBrackets, matcher) {
				bracketStack = append(bracketStack, match.Matched()[0])
			} else {
				bracketStack = bracketStack[:len(bracketStack)-1]
			}
			preSegBuff = append(preSegBuff, pre...)
			preSegBuff = append(preSegBuff, match.Matched()...)
			segBuff = match.Unmatched()
			continue
		}

		pre, match, matcher, err := lookAheadMatch(segBuff, allMatchers, ctx, allowGaps)
		if err != nil {
			return nil, MatchResult{}, nil, err
		}
		if !match.HasMatch() {
			// A friendly unmatched exit.
			return nil, FromUnmatched(segments), nil, nil
		}
		switch {
		case containsMatcher(startBrackets, matcher):
			bracketStack = append(bracketStack, match.Matched()[0])
			preSegBuff = append(preSegBuff, pre...)
			preSegBuff = append(preSegBuff, match.Matched()...)
			segBuff = match.Unmatched()
		case containsMatcher(endBrackets, matcher):
			return nil, MatchResult{}, nil, parseErrorf(match.Matched()[0], "found unexpected end bracket")
		default:
			return concatSegments(preSegBuff, pre), match, matcher, nil
		}
	}
}

func allNonCode(segments []Segment) bool {
	for _, seg := range segments {
		if seg.IsCode() {
			return false
		}
	}
	return true
}

func containsMatcher(matchers []Matcher, m Matcher) bool {
	for _, candidate := range matchers {
		if candidate == m {
			return true
		}
	}
	return false
}

func indexOfMatcher(matchers []Matcher, m Matcher) int {
	for i, candidate := range matchers {
		if candidate == m {
			return i
		}
	}
	return len(matchers)
}
