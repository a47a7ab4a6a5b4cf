package sqlfluff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeeperMatchScoped(t *testing.T) {
	ctx := newTestContext()
	assert.Equal(t, 0, ctx.MatchDepth())

	restore := ctx.DeeperMatch()
	assert.Equal(t, 1, ctx.MatchDepth())
	inner := ctx.DeeperMatch()
	assert.Equal(t, 2, ctx.MatchDepth())
	inner()
	restore()
	assert.Equal(t, 0, ctx.MatchDepth())
}

func TestDeeperMatchRestoresOnPanic(t *testing.T) {
	ctx := newTestContext()
	func() {
		defer func() { _ = recover() }()
		func() {
			defer ctx.DeeperMatch()()
			panic("boom")
		}()
	}()
	assert.Equal(t, 0, ctx.MatchDepth())
}

func TestMatchingSegmentScoped(t *testing.T) {
	ctx := newTestContext()

	restore := ctx.MatchingSegment("SelectStatementSegment")
	assert.Equal(t, "SelectStatementSegment", ctx.matchSegment)
	inner := ctx.MatchingSegment("ColumnExpressionSegment")
	assert.Equal(t, "ColumnExpressionSegment", ctx.matchSegment)
	inner()
	assert.Equal(t, "SelectStatementSegment", ctx.matchSegment)
	restore()
	assert.Equal(t, "", ctx.matchSegment)
}

func TestBlacklistMarkAndCheck(t *testing.T) {
	b := NewBlacklist()
	segs := lex("A", "B")
	fp := fingerprintSegments(segs)

	assert.False(t, b.Check("FooGrammar", fp))
	b.Mark("FooGrammar", fp)
	assert.True(t, b.Check("FooGrammar", fp))
	// Keyed by name as well as fingerprint.
	assert.False(t, b.Check("BarGrammar", fp))
}

func TestFingerprintSegments(t *testing.T) {
	segs := lex("A", " ", "B")

	// Stable for the same slice.
	assert.Equal(t, fingerprintSegments(segs), fingerprintSegments(segs))
	// A prefix must not collide with the full slice.
	assert.NotEqual(t, fingerprintSegments(segs), fingerprintSegments(segs[:1]))
	// Equal raws at different identities are different inputs.
	other := lex("A", " ", "B")
	assert.NotEqual(t, fingerprintSegments(segs), fingerprintSegments(other))
}

func TestUnknownReferenceIsStructural(t *testing.T) {
	ctx := newTestContext()
	_, err := Ref("NoSuchGrammar").Match(lex("A"), ctx)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
