package sqlfluff

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// settings holds the configuration shared across grammar constructors.
// Each grammar reads the fields it understands and ignores the rest.
type settings struct {
	allowGaps     bool
	optional      bool
	ephemeralName string

	// AnyNumberOf and friends.
	minTimes    int
	maxTimes    int
	hasMaxTimes bool
	exclude     Matcher

	// Delimited.
	delimiter        Matcher
	terminator       Matcher
	allowTrailing    bool
	minDelimiters    int
	hasMinDelimiters bool

	// Bracketed.
	square bool

	// GreedyUntil and StartsWith.
	enforceWhitespacePreceding bool
	includeTerminator          bool
}

func defaultSettings() settings {
	return settings{allowGaps: true}
}

// Option configures a grammar at construction. Options are passed as
// trailing arguments alongside the grammar's elements.
type Option struct {
	apply func(*settings)
}

// AllowGaps sets whether the grammar tolerates non-code segments
// between the elements it matches. Defaults to true.
func AllowGaps(allow bool) Option {
	return Option{func(s *settings) { s.allowGaps = allow }}
}

// Optional marks the grammar as skippable inside a Sequence.
func Optional() Option {
	return Option{func(s *settings) { s.optional = true }}
}

// Ephemeral makes the grammar match anything, wrapping the input in a
// single EphemeralSegment of the given name whose parse grammar is a
// copy of the grammar taken before this wrapping.
func Ephemeral(name string) Option {
	return Option{func(s *settings) { s.ephemeralName = name }}
}

// MinTimes sets the minimum repetition count for AnyNumberOf.
func MinTimes(n int) Option {
	return Option{func(s *settings) { s.minTimes = n }}
}

// MaxTimes sets the maximum repetition count for AnyNumberOf.
// Unset means unbounded.
func MaxTimes(n int) Option {
	return Option{func(s *settings) {
		s.maxTimes = n
		s.hasMaxTimes = true
	}}
}

// Exclude attaches a matcher which, when it matches the input, makes
// the grammar fail immediately.
func Exclude(m Matcher) Option {
	return Option{func(s *settings) { s.exclude = m }}
}

// Delimiter sets the delimiter of a Delimited grammar. Strings resolve
// to keyword references just like elements.
func Delimiter(elem interface{}) Option {
	m := resolveElement(elem)
	return Option{func(s *settings) { s.delimiter = m }}
}

// Terminator sets the optional terminator of a Delimited or StartsWith
// grammar.
func Terminator(elem interface{}) Option {
	m := resolveElement(elem)
	return Option{func(s *settings) { s.terminator = m }}
}

// AllowTrailing permits a Delimited grammar to end on a delimiter.
func AllowTrailing() Option {
	return Option{func(s *settings) { s.allowTrailing = true }}
}

// MinDelimiters requires at least n delimiters for a Delimited match.
func MinDelimiters(n int) Option {
	return Option{func(s *settings) {
		s.minDelimiters = n
		s.hasMinDelimiters = true
	}}
}

// Square switches a Bracketed grammar from round to square brackets.
func Square() Option {
	return Option{func(s *settings) { s.square = true }}
}

// EnforceWhitespacePreceding makes GreedyUntil accept a terminator
// only when whitespace precedes it. Useful for keywords which false
// alarm inside accessors.
func EnforceWhitespacePreceding() Option {
	return Option{func(s *settings) { s.enforceWhitespacePreceding = true }}
}

// IncludeTerminator makes StartsWith keep the terminator inside the
// match rather than leaving it for the caller.
func IncludeTerminator() Option {
	return Option{func(s *settings) { s.includeTerminator = true }}
}

// resolveElement turns a constructor argument into a matcher. Strings
// are shorthand for keyword references. Anything else is a grammar
// misconfiguration, which is a programmer error, so it panics.
func resolveElement(elem interface{}) Matcher {
	switch e := elem.(type) {
	case nil:
		return nil
	case string:
		return KeywordRef(e)
	case Matcher:
		return e
	default:
		panic(configErrorf("grammar element %v of unexpected type %T", elem, elem))
	}
}

// splitArgs separates a constructor's variadic arguments into resolved
// elements and applied settings. Nil elements are dropped.
func splitArgs(args []interface{}) ([]Matcher, settings) {
	s := defaultSettings()
	var elements []Matcher
	for _, arg := range args {
		if opt, ok := arg.(Option); ok {
			opt.apply(&s)
			continue
		}
		if m := resolveElement(arg); m != nil {
			elements = append(elements, m)
		}
	}
	return elements, s
}

// base carries the configuration common to all grammars.
type base struct {
	elements      []Matcher
	allowGaps     bool
	optional      bool
	ephemeralName string

	// parseGrammar is the pre-wrapping copy of the grammar which an
	// EphemeralSegment hands to the next parse pass.
	parseGrammar Matcher
}

func newBase(elements []Matcher, s settings) base {
	return base{
		elements:      elements,
		allowGaps:     s.allowGaps,
		optional:      s.optional,
		ephemeralName: s.ephemeralName,
	}
}

// IsOptional reports whether the grammar may be skipped in a Sequence.
func (b *base) IsOptional() bool { return b.optional }

// Simple defaults to non-simple; concrete grammars override where they
// can enumerate their leading strings.
func (b *base) Simple(ctx *ParseContext) ([]string, bool) { return nil, false }

type matchFunc func(segments []Segment, ctx *ParseContext) (MatchResult, error)

// wrapMatch is the shared prologue of every grammar's Match: logging
// plus the ephemeral replacement.
func (b *base) wrapMatch(name string, segments []Segment, ctx *ParseContext, inner matchFunc) (MatchResult, error) {
	ctx.logMatch(name, "match", "IN", 4, logrus.Fields{
		"ls":  len(segments),
		"seg": joinSegmentsForLog(segments),
	})
	if b.ephemeralName != "" && len(segments) > 0 {
		eph := NewEphemeralSegment(b.ephemeralName, segments, b.parseGrammar)
		return FromMatched([]Segment{eph}), nil
	}
	res, err := inner(segments, ctx)
	if err != nil {
		return res, err
	}
	ctx.logMatch(name, "match", "OUT", 4, logrus.Fields{
		"matched":  res.Len(),
		"complete": res.IsComplete(),
	})
	return res, nil
}

// describeElements renders an element list for String methods,
// curtailed the way log lines are.
func describeElements(elements []Matcher) string {
	strs := make([]string, len(elements))
	for i, e := range elements {
		strs[i] = curtail(fmt.Sprint(e), 40)
	}
	return curtail(strings.Join(strs, ", "), 100)
}

// Indent and Dedent are the meta elements usable inside a Sequence.
// When the sequence reaches one, it emits a positioned meta segment
// instead of consuming input.
var (
	Indent Matcher = &metaMatcher{typ: "indent", mk: func(pos Position) Segment {
		return NewIndentSegment(pos)
	}}
	Dedent Matcher = &metaMatcher{typ: "dedent", mk: func(pos Position) Segment {
		return NewDedentSegment(pos)
	}}
)

type metaMatcher struct {
	typ string
	mk  func(Position) Segment
}

// Match on a meta element never consumes anything. Sequences handle
// meta elements before matching, so this only runs if a meta element
// is used somewhere it does not belong.
func (m *metaMatcher) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return FromUnmatched(segments), nil
}

func (m *metaMatcher) Simple(ctx *ParseContext) ([]string, bool) { return nil, false }
func (m *metaMatcher) IsOptional() bool                          { return true }
func (m *metaMatcher) String() string                            { return "<" + m.typ + ">" }

func (m *metaMatcher) enabled(ctx *ParseContext) bool {
	return ctx.metaEnabled(m.typ)
}

func (m *metaMatcher) makeSegment(pos Position) Segment {
	return m.mk(pos)
}
