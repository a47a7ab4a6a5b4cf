package sqlfluff

import (
	"fmt"
	"strings"
)

// StringMatcher is the terminal matcher: it consumes exactly one
// segment whose uppercase raw text equals its template. Dialects build
// their keyword and symbol entries from it.
type StringMatcher struct {
	name     string
	template string
	typ      string
	optional bool
}

// NewStringMatcher builds a terminal matcher. The template is
// canonicalised to uppercase. The type tag names what the matched
// segment represents ("keyword", "comma", "start_bracket", ...).
func NewStringMatcher(name, template, typ string, opts ...Option) *StringMatcher {
	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}
	return &StringMatcher{
		name:     name,
		template: strings.ToUpper(template),
		typ:      typ,
		optional: s.optional,
	}
}

// NewKeywordMatcher builds the canonical matcher for a keyword, named
// the way keyword references resolve ("select" -> SelectKeywordSegment).
func NewKeywordMatcher(keyword string, opts ...Option) *StringMatcher {
	return NewStringMatcher(keywordRefName(keyword), keyword, "keyword", opts...)
}

// Name is the matcher's registry name.
func (m *StringMatcher) Name() string { return m.name }

// Match consumes the first segment when its uppercase raw equals the
// template.
func (m *StringMatcher) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	if len(segments) == 0 {
		return FromEmpty(), nil
	}
	if segments[0].RawUpper() == m.template {
		return NewMatchResult(segments[:1:1], segments[1:]), nil
	}
	return FromUnmatched(segments), nil
}

// Simple advertises the template: any match must contain it.
func (m *StringMatcher) Simple(ctx *ParseContext) ([]string, bool) {
	return []string{m.template}, true
}

func (m *StringMatcher) IsOptional() bool { return m.optional }

func (m *StringMatcher) String() string {
	return fmt.Sprintf("<%s: %q>", m.name, m.template)
}

// TypedMatcher consumes exactly one segment of a given type tag. It
// cannot advertise a finite string set, so it is never simple and
// always takes the slow lookahead route.
type TypedMatcher struct {
	name     string
	typ      string
	optional bool
}

// NewTypedMatcher builds a terminal matcher keyed on segment type
// ("numeric_literal", "identifier", ...).
func NewTypedMatcher(name, typ string, opts ...Option) *TypedMatcher {
	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}
	return &TypedMatcher{name: name, typ: typ, optional: s.optional}
}

// Name is the matcher's registry name.
func (m *TypedMatcher) Name() string { return m.name }

// Match consumes the first segment when its type tag matches.
func (m *TypedMatcher) Match(segments []Segment, ctx *ParseContext) (MatchResult, error) {
	if len(segments) == 0 {
		return FromEmpty(), nil
	}
	if segments[0].Type() == m.typ {
		return NewMatchResult(segments[:1:1], segments[1:]), nil
	}
	return FromUnmatched(segments), nil
}

// Simple is always false: a type tag doesn't determine the raw text.
func (m *TypedMatcher) Simple(ctx *ParseContext) ([]string, bool) {
	return nil, false
}

func (m *TypedMatcher) IsOptional() bool { return m.optional }

func (m *TypedMatcher) String() string {
	return fmt.Sprintf("<%s: type=%s>", m.name, m.typ)
}

// keywordRefName maps a keyword to its dialect registry name.
func keywordRefName(keyword string) string {
	if keyword == "" {
		return "KeywordSegment"
	}
	return strings.ToUpper(keyword[:1]) + strings.ToLower(keyword[1:]) + "KeywordSegment"
}
