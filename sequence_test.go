package sqlfluff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceBasic(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", "B")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
}

func TestSequenceLeavesTrailingInputUnmatched(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", " ", "B", " ", "C")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", " ", "B"}, raws(res.Matched()))
	assert.Equal(t, []string{" ", "C"}, raws(res.Unmatched()))
	assertPreserved(t, input, res)
}

func TestSequenceRequiredElementFails(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", " ", "C")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment"))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
	assert.Equal(t, []string{"A", " ", "C"}, raws(res.Unmatched()))
}

func TestSequenceSkipsOptionalElement(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", " ", "C")
	g := Sequence(
		Ref("AKeywordSegment"),
		Ref("BKeywordSegment", Optional()),
		Ref("CKeywordSegment"),
	)

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, []string{"A", " ", "C"}, raws(res.Matched()))
}

func TestSequenceAllOptionalTailAtEndOfInput(t *testing.T) {
	ctx := newTestContext()
	input := lex("A")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment", Optional()))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, []string{"A"}, raws(res.Matched()))
}

func TestSequenceGapsDisallowed(t *testing.T) {
	ctx := newTestContext()
	input := lex("A", " ", "B")
	g := Sequence(Ref("AKeywordSegment"), Ref("BKeywordSegment"), AllowGaps(false))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMatch())
}

func TestSequenceEmitsMetaSegments(t *testing.T) {
	ctx := newTestContext()
	input := lex("A")
	g := Sequence(Indent, Ref("AKeywordSegment"), Dedent)

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"indent", "raw", "dedent"}, types(res.Matched()))
	// The indent anchors on the start of the next segment, the dedent
	// on the end of the last matched one.
	assert.Equal(t, input[0].Pos(), res.Matched()[0].Pos())
	assert.Equal(t, input[0].EndPos(), res.Matched()[2].Pos())
	assertPreserved(t, input, res)
}

func TestSequenceMetaDisabledByContext(t *testing.T) {
	ctx := newTestContext(WithIndentsDisabled("indent", "dedent"))
	input := lex("A")
	g := Sequence(Indent, Ref("AKeywordSegment"), Dedent)

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, raws(res.Matched()))
}

func TestSequenceTrailingMetaAfterExhaustion(t *testing.T) {
	ctx := newTestContext()
	input := lex("A")
	g := Sequence(Ref("AKeywordSegment"), Dedent, Ref("BKeywordSegment", Optional()))

	res, err := g.Match(input, ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, "dedent", res.Matched()[1].Type())
	assert.Equal(t, input[0].EndPos(), res.Matched()[1].Pos())
}

func TestSequenceSimpleStopsAtFirstRequired(t *testing.T) {
	ctx := newTestContext()
	g := Sequence(
		Ref("AKeywordSegment", Optional()),
		Ref("BKeywordSegment"),
		Ref("CKeywordSegment"),
	)
	options, ok := g.Simple(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, options)

	_, ok = Sequence(Ref("NumericLiteralSegment"), Ref("AKeywordSegment")).Simple(ctx)
	assert.False(t, ok)
}
