package sqlfluff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchResultConstructors(t *testing.T) {
	segs := lex("A", " ", "B")

	m := FromMatched(segs)
	assert.True(t, m.HasMatch())
	assert.True(t, m.IsComplete())
	assert.Equal(t, 3, m.Len())

	u := FromUnmatched(segs)
	assert.False(t, u.HasMatch())
	assert.False(t, u.IsComplete())
	assert.Equal(t, 0, u.Len())

	e := FromEmpty()
	assert.False(t, e.HasMatch())
	assert.True(t, e.IsComplete())
}

func TestMatchResultSplit(t *testing.T) {
	segs := lex("A", " ", "B")
	m := NewMatchResult(segs[:2], segs[2:])

	assert.True(t, m.HasMatch())
	assert.False(t, m.IsComplete())
	assert.Equal(t, []string{"A", " "}, raws(m.Matched()))
	assert.Equal(t, []string{"B"}, raws(m.Unmatched()))
	assert.Equal(t, []string{"A", " ", "B"}, raws(m.AllSegments()))
}

func TestMatchResultRawMatched(t *testing.T) {
	segs := lex("SELECT", " ", "1")
	m := NewMatchResult(segs[:2], segs[2:])
	assert.Equal(t, "SELECT ", m.RawMatched())
	assert.Equal(t, "", FromUnmatched(segs).RawMatched())
}
