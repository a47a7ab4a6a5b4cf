package sqlfluff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveElementKeywordShorthand(t *testing.T) {
	m := resolveElement("select")
	ref, ok := m.(*RefGrammar)
	require.True(t, ok)
	assert.Equal(t, "SelectKeywordSegment", ref.Name())

	// Grammars pass through untouched.
	g := Sequence(Ref("AKeywordSegment"))
	assert.Same(t, g, resolveElement(g))
}

func TestResolveElementRejectsJunk(t *testing.T) {
	assert.PanicsWithError(t, "sqlfluff: grammar element 42 of unexpected type int", func() {
		Sequence(42)
	})
}

func TestKeywordStringShorthandMatches(t *testing.T) {
	ctx := newTestContext()
	input := lex("SELECT", " ", "FROM")
	g := Sequence("select", "from")

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
}

func TestOptionalOption(t *testing.T) {
	assert.False(t, Sequence(Ref("AKeywordSegment")).IsOptional())
	assert.True(t, Sequence(Ref("AKeywordSegment"), Optional()).IsOptional())
	// Zero minimum repetitions also count as optional.
	assert.True(t, AnyNumberOf(Ref("AKeywordSegment")).IsOptional())
	assert.False(t, OneOf(Ref("AKeywordSegment")).IsOptional())
}

func TestEphemeralWrapping(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", " ", "B")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment"), Ephemeral("inner"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.True(t, res.IsComplete())

	eph, ok := res.Matched()[0].(*EphemeralSegment)
	require.True(t, ok)
	assert.Equal(t, "inner", eph.Name())
	assert.Equal(t, []string{"A", " ", "B"}, raws(eph.Segments()))

	// The carried parse grammar is the pre-wrapping copy: matching
	// with it does real work instead of wrapping again.
	inner, err := eph.ParseGrammar().Match(eph.Segments(), ctx)
	require.NoError(t, err)
	assert.True(t, inner.IsComplete())
	assert.Equal(t, 3, inner.Len())
}

func TestAnythingAndNothing(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", "B")

	res, err := Anything().Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, 2, res.Len())

	res, err = Nothing().Match(input, ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
	assert.Equal(t, []string{"A", "B"}, raws(res.Unmatched()))
}

func TestRefSimpleDelegates(t *testing.T) {
	ctx := newTestContext()

	options, ok := Ref("AKeywordSegment").Simple(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"A"}, options)

	_, ok = Ref("NumericLiteralSegment").Simple(ctx)
	assert.False(t, ok)

	// Unknown names fall back to non-simple; Match surfaces the error.
	_, ok = Ref("NoSuchGrammar").Simple(ctx)
	assert.False(t, ok)
}

func TestKeywordRefSugar(t *testing.T) {
	assert.Equal(t, "SelectKeywordSegment", KeywordRef("select").Name())
	assert.Equal(t, "SelectKeywordSegment", KeywordRef("SELECT").Name())
}

func TestRefRequiresName(t *testing.T) {
	assert.Panics(t, func() { Ref("") })
}

func TestStringMatcher(t *testing.T) {
	ctx := newTestContext()
	m := NewStringMatcher("CommaSegment", ",", "comma")

	res, err := m.Match(lex(",", "A"), ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{","}, raws(res.Matched()))
	assert.Equal(t, []string{"A"}, raws(res.Unmatched()))

	res, err = m.Match(lex("A"), ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())

	options, ok := m.Simple(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{","}, options)
}

func TestStringMatcherCaseFolds(t *testing.T) {
	ctx := newTestContext()
	m := NewKeywordMatcher("select")
	res, err := m.Match(lex("select"), ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
}

func TestTypedMatcher(t *testing.T) {
	ctx := newTestContext()
	m := NewTypedMatcher("NumericLiteralSegment", "numeric_literal")

	res, err := m.Match(lex("42", "A"), ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, raws(res.Matched()))

	_, ok := m.Simple(ctx)
	assert.False(t, ok)
}
