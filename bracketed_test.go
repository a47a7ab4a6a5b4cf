package sqlfluff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketedRoundTripFiltersMeta(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", "X", ")")
	g := Bracketed(Ref("IdentifierSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	// Meta segments out, the input comes back exactly.
	assertPreserved(t, input, res)
}

func TestBracketedLeadingNonCode(t *testing.T) {
	ctx := newTestContext()
	input := lex(" ", "(", "X", ")")
	g := Bracketed(Ref("IdentifierSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, []string{" ", "(", "", "X", "", ")"}, raws(res.Matched()))
}

func TestBracketedInteriorNonCodeStaysOutsideIndent(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", " ", "X", " ", ")")
	g := Bracketed(Ref("IdentifierSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start_bracket", "whitespace", "indent", "raw", "dedent", "whitespace", "end_bracket",
	}, types(res.Matched()))
	assertPreserved(t, input, res)
}

func TestBracketedEmptyWithOptionalContent(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", ")")
	g := Bracketed(Ref("IdentifierSegment", Optional()))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, []string{"(", ")"}, raws(res.Matched()))

	// Required content makes empty brackets a non-match.
	g = Bracketed(Ref("IdentifierSegment"))
	res, err = g.Match(input, ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
}

func TestBracketedNonCodeOnlyInterior(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", " ", ")")
	g := Bracketed(Ref("IdentifierSegment", Optional()))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, []string{"(", " ", ")"}, raws(res.Matched()))
}

func TestBracketedNoOpeningBracket(t *testing.T) {
	ctx := newTestContext()
	input := lex("X", ")")
	g := Bracketed(Ref("IdentifierSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
}

func TestBracketedUnclosedBracketErrors(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", "X")
	g := Bracketed(Ref("IdentifierSegment"))

	_, err := g.Match(input, ctx)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "(", parseErr.Segment().Raw())
}

func TestBracketedSquare(t *testing.T) {
	ctx := newTestContext()
	g := Bracketed(Ref("IdentifierSegment"), Square())

	res, err := g.Match(lex("[", "X", "]"), ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())

	// Round brackets don't satisfy a square grammar.
	res, err = g.Match(lex("(", "X", ")"), ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
}

func TestBracketedNestedSequenceContent(t *testing.T) {
	ctx := newTestContext()
	input := lex("(", "A", " ", "B", ")")
	g := Bracketed(Ref("AKeywordSegment"), Ref("BKeywordSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assertPreserved(t, input, res)
}

func TestBracketedSimpleIsOpeningBracket(t *testing.T) {
	ctx := newTestContext()
	options, ok := Bracketed(Ref("IdentifierSegment")).Simple(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"("}, options)
}
