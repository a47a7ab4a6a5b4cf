package sqlfluff

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Position is offset and line-column numbers counting from zero.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (pos Position) String() string {
	return fmt.Sprintf("%d:%d+%d", pos.Line+1, pos.Column+1, pos.Offset)
}

// Advance returns the position just past the given raw text.
func (pos Position) Advance(raw string) Position {
	next := pos
	next.Offset += len(raw)
	for {
		idx := strings.IndexAny(raw, "\r\n")
		if idx < 0 {
			next.Column += len([]rune(raw))
			return next
		}
		if raw[idx] == '\r' && strings.HasPrefix(raw[idx+1:], "\n") {
			idx++
		}
		raw = raw[idx+1:]
		next.Line++
		next.Column = 0
	}
}

// Segment is the capability set the combinator core consumes from the
// lexer's output. Implementations must be pointer-backed so that
// object identity is stable for the duration of a parse; the blacklist
// fingerprints rely on it.
type Segment interface {
	// Raw is the exact source text of the segment.
	Raw() string
	// RawUpper is the uppercase canonical text, used by the simple
	// matching fast path.
	RawUpper() string
	// Type is a string tag, at minimum distinguishing "whitespace"
	// and "newline".
	Type() string
	// IsCode is false for whitespace, newlines and comments.
	IsCode() bool
	// IsMeta is true for indent/dedent/ephemeral placeholders.
	IsMeta() bool
	// Pos, StartPos and EndPos are position handles.
	Pos() Position
	StartPos() Position
	EndPos() Position
	// RawSegments yields the leaf segments beneath this one.
	RawSegments() []Segment
}

// RawSegment is a plain leaf segment as produced by a lexer.
type RawSegment struct {
	raw string
	typ string
	pos Position
}

// NewRawSegment builds a leaf segment of the given type at a position.
func NewRawSegment(raw, typ string, pos Position) *RawSegment {
	return &RawSegment{raw: raw, typ: typ, pos: pos}
}

func (s *RawSegment) Raw() string      { return s.raw }
func (s *RawSegment) RawUpper() string { return strings.ToUpper(s.raw) }
func (s *RawSegment) Type() string     { return s.typ }

func (s *RawSegment) IsCode() bool {
	switch s.typ {
	case "whitespace", "newline", "comment":
		return false
	}
	return true
}

func (s *RawSegment) IsMeta() bool           { return false }
func (s *RawSegment) Pos() Position          { return s.pos }
func (s *RawSegment) StartPos() Position     { return s.pos }
func (s *RawSegment) EndPos() Position       { return s.pos.Advance(s.raw) }
func (s *RawSegment) RawSegments() []Segment { return []Segment{s} }

func (s *RawSegment) String() string {
	return fmt.Sprintf("<%s: %q@%s>", s.typ, s.raw, s.pos.String())
}

// metaSegment is the common body of the synthetic segments inserted by
// combinators. They carry only a position and never take part in raw
// text reconstruction.
type metaSegment struct {
	typ string
	pos Position
}

func (s *metaSegment) Raw() string            { return "" }
func (s *metaSegment) RawUpper() string       { return "" }
func (s *metaSegment) Type() string           { return s.typ }
func (s *metaSegment) IsCode() bool           { return false }
func (s *metaSegment) IsMeta() bool           { return true }
func (s *metaSegment) Pos() Position          { return s.pos }
func (s *metaSegment) StartPos() Position     { return s.pos }
func (s *metaSegment) EndPos() Position       { return s.pos }
func (s *metaSegment) RawSegments() []Segment { return nil }

func (s *metaSegment) String() string {
	return fmt.Sprintf("<%s@%s>", s.typ, s.pos.String())
}

// IndentSegment marks where an indent would sit in the parsed tree.
type IndentSegment struct{ metaSegment }

// DedentSegment closes a matching IndentSegment.
type DedentSegment struct{ metaSegment }

// NewIndentSegment builds an indent marker at a position.
func NewIndentSegment(pos Position) *IndentSegment {
	return &IndentSegment{metaSegment{typ: "indent", pos: pos}}
}

// NewDedentSegment builds a dedent marker at a position.
func NewDedentSegment(pos Position) *DedentSegment {
	return &DedentSegment{metaSegment{typ: "dedent", pos: pos}}
}

// EphemeralSegment is a placeholder wrapping a run of segments, to be
// re-parsed later with the grammar it carries.
type EphemeralSegment struct {
	name     string
	segments []Segment
	grammar  Matcher
}

// NewEphemeralSegment wraps segments under a named placeholder whose
// parse grammar is the given matcher.
func NewEphemeralSegment(name string, segments []Segment, grammar Matcher) *EphemeralSegment {
	return &EphemeralSegment{name: name, segments: segments, grammar: grammar}
}

// Name is the ephemeral name the segment was declared with.
func (s *EphemeralSegment) Name() string { return s.name }

// ParseGrammar is the grammar a later parse pass should apply to the
// wrapped segments.
func (s *EphemeralSegment) ParseGrammar() Matcher { return s.grammar }

// Segments returns the wrapped run.
func (s *EphemeralSegment) Segments() []Segment { return s.segments }

func (s *EphemeralSegment) Raw() string {
	var sb strings.Builder
	for _, seg := range s.segments {
		sb.WriteString(seg.Raw())
	}
	return sb.String()
}

func (s *EphemeralSegment) RawUpper() string { return strings.ToUpper(s.Raw()) }
func (s *EphemeralSegment) Type() string     { return "ephemeral" }
func (s *EphemeralSegment) IsCode() bool     { return true }
func (s *EphemeralSegment) IsMeta() bool     { return true }

func (s *EphemeralSegment) Pos() Position {
	if len(s.segments) == 0 {
		return Position{}
	}
	return s.segments[0].Pos()
}

func (s *EphemeralSegment) StartPos() Position { return s.Pos() }

func (s *EphemeralSegment) EndPos() Position {
	if len(s.segments) == 0 {
		return Position{}
	}
	return s.segments[len(s.segments)-1].EndPos()
}

func (s *EphemeralSegment) RawSegments() []Segment {
	var out []Segment
	for _, seg := range s.segments {
		out = append(out, seg.RawSegments()...)
	}
	return out
}

func (s *EphemeralSegment) String() string {
	return fmt.Sprintf("<ephemeral %s: %d segs>", s.name, len(s.segments))
}

// trimNonCode splits segments into a leading non-code band, a code
// middle, and a trailing non-code band.
func trimNonCode(segments []Segment) (pre, mid, post []Segment) {
	start := 0
	for start < len(segments) && !segments[start].IsCode() {
		start++
	}
	end := len(segments)
	for end > start && !segments[end-1].IsCode() {
		end--
	}
	return segments[:start], segments[start:end], segments[end:]
}

// checkStillComplete verifies that splitting the input into matched
// and unmatched has not dropped or invented any raw text. Meta
// segments carry no raw text so insertions are tolerated.
func checkStillComplete(input, matched, unmatched []Segment) error {
	initial := joinRaw(input)
	current := joinRaw(matched) + joinRaw(unmatched)
	if initial != current {
		return errors.Errorf("parse completeness check failed: %q != %q", initial, current)
	}
	return nil
}

func joinRaw(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Raw())
	}
	return sb.String()
}
