package sqlfluff

// Dialect is a read-only registry mapping names to matchers. It is the
// indirection that lets grammars reference each other cyclically:
// references resolve at match time, not construction time.
//
// The bracket-sensitive scanner expects the names "StartBracketSegment",
// "EndBracketSegment", "StartSquareBracketSegment" and
// "EndSquareBracketSegment" to resolve to the dialect's bracket
// matchers.
type Dialect interface {
	// Ref resolves a name to a matcher, erroring on unknown names.
	Ref(name string) (Matcher, error)
}

// MapDialect is a Dialect backed by a plain map. Construct the whole
// registry first, then treat it as read-only for the duration of any
// parse using it.
type MapDialect struct {
	name     string
	matchers map[string]Matcher
}

// NewMapDialect builds an empty named registry.
func NewMapDialect(name string) *MapDialect {
	return &MapDialect{name: name, matchers: map[string]Matcher{}}
}

// Register adds or replaces a named matcher. Replacing is how derived
// dialects override placeholders such as Nothing.
func (d *MapDialect) Register(name string, matcher Matcher) *MapDialect {
	d.matchers[name] = matcher
	return d
}

// Ref resolves a name, erroring if it was never registered.
func (d *MapDialect) Ref(name string) (Matcher, error) {
	m, ok := d.matchers[name]
	if !ok {
		return nil, parseErrorf(nil, "grammar reference %q not found in dialect %q", name, d.name)
	}
	return m, nil
}

// Name identifies the dialect in diagnostics.
func (d *MapDialect) Name() string { return d.name }
