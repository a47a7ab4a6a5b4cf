package sqlfluff

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RefGrammar is a matcher that resolves another grammar by name at
// match time. The late binding through the dialect is what permits
// cyclic grammar graphs, such as expressions containing expressions.
type RefGrammar struct {
	base
	name string
}

// Ref builds a reference to the named grammar or segment matcher in
// the dialect. Strings here are reference names, never keyword
// shorthand.
func Ref(name string, opts ...Option) *RefGrammar {
	if name == "" {
		panic(configErrorf("Ref requires precisely one non-empty reference name"))
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}
	return &RefGrammar{base: newBase(nil, s), name: name}
}

// KeywordRef is syntactic sugar generating a reference to a keyword by
// name: KeywordRef("select") == Ref("SelectKeywordSegment").
func KeywordRef(keyword string, opts ...Option) *RefGrammar {
	return Ref(keywordRefName(keyword), opts...)
}

// Name is the name this reference resolves through the dialect.
func (g *RefGrammar) Name() string { return g.name }

// Simple delegates to the referent: a reference is simple if the thing
// it references is. Resolution failures fall back to non-simple and
// surface as structural errors when Match runs.
func (g *RefGrammar) Simple(ctx *ParseContext) ([]string, bool) {
	elem, err := ctx.Dialect().Ref(g.name)
	if err != nil {
		return nil, false
	}
	return elem.Simple(ctx)
}

// Match resolves the referent and matches against it, consulting the
// parse blacklist first: a (name, input fingerprint) pair that already
// failed short-circuits without re-running the referent.
func (g *RefGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	elem, err := ctx.Dialect().Ref(g.name)
	if err != nil {
		return MatchResult{}, err
	}

	fingerprint := fingerprintSegments(segments)
	if ctx.Blacklist().Check(g.name, fingerprint) {
		ctx.logMatch("Ref", "match", "SKIP", 3, logrus.Fields{"name": g.name})
		return FromUnmatched(segments), nil
	}

	// References don't really count as a depth of match, so only the
	// matching-segment name is scoped here.
	restore := ctx.MatchingSegment(g.name)
	resp, err := elem.Match(segments, ctx)
	restore()
	if err != nil {
		return MatchResult{}, err
	}
	if !resp.HasMatch() {
		ctx.Blacklist().Mark(g.name, fingerprint)
	}
	return resp, nil
}

func (g *RefGrammar) String() string {
	if g.IsOptional() {
		return fmt.Sprintf("<Ref: %s [opt]>", g.name)
	}
	return fmt.Sprintf("<Ref: %s>", g.name)
}

// AnythingGrammar matches any input whole. Most useful as a dialect
// placeholder where a later parse pass works out what is inside.
type AnythingGrammar struct {
	base
}

// Anything builds a matcher that consumes whatever it is given.
func Anything(opts ...Option) *AnythingGrammar {
	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}
	return &AnythingGrammar{base: newBase(nil, s)}
}

// Match consumes the whole input.
func (g *AnythingGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return FromMatched(segments), nil
}

func (g *AnythingGrammar) String() string { return "<Anything>" }

// NothingGrammar never matches. Useful for placeholders which other
// dialects overwrite.
type NothingGrammar struct {
	base
}

// Nothing builds a matcher that never matches.
func Nothing(opts ...Option) *NothingGrammar {
	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}
	return &NothingGrammar{base: newBase(nil, s)}
}

// Match matches... nothing.
func (g *NothingGrammar) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	return FromUnmatched(segments), nil
}

func (g *NothingGrammar) String() string { return "<Nothing>" }
