package sqlfluff

import (
	"encoding/binary"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
)

// ParseContext is the mutable state of one top-level parse. It is
// created at the start of the parse, flows by reference through the
// recursion, and is never shared between parses.
type ParseContext struct {
	dialect      Dialect
	logger       *logrus.Entry
	blacklist    *Blacklist
	matchDepth   int
	matchSegment string
	denyIndents  map[string]bool
}

// ContextOption configures a new ParseContext.
type ContextOption func(*ParseContext)

// WithLogger routes match logging to the given logger.
func WithLogger(logger *logrus.Logger) ContextOption {
	return func(pc *ParseContext) {
		pc.logger = logrus.NewEntry(logger)
	}
}

// WithIndentsDisabled disables emitting the named meta segment types
// ("indent", "dedent") during this parse.
func WithIndentsDisabled(types ...string) ContextOption {
	return func(pc *ParseContext) {
		for _, t := range types {
			pc.denyIndents[t] = true
		}
	}
}

// NewParseContext builds the context for a single top-level parse.
func NewParseContext(dialect Dialect, opts ...ContextOption) *ParseContext {
	pc := &ParseContext{
		dialect:     dialect,
		logger:      logrus.NewEntry(logrus.StandardLogger()),
		blacklist:   NewBlacklist(),
		denyIndents: map[string]bool{},
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// Dialect is the registry this parse resolves references against.
func (pc *ParseContext) Dialect() Dialect { return pc.dialect }

// Blacklist is the negative match cache for this parse.
func (pc *ParseContext) Blacklist() *Blacklist { return pc.blacklist }

// MatchDepth is the current nesting depth, for logging.
func (pc *ParseContext) MatchDepth() int { return pc.matchDepth }

// DeeperMatch increments the match depth and returns a restorer for
// use with defer, so the depth unwinds on every exit path.
func (pc *ParseContext) DeeperMatch() func() {
	pc.matchDepth++
	return func() { pc.matchDepth-- }
}

// MatchingSegment records the name of the reference being matched, for
// diagnostics only, and returns a restorer for use with defer. It does
// not increase the match depth.
func (pc *ParseContext) MatchingSegment(name string) func() {
	prev := pc.matchSegment
	pc.matchSegment = name
	return func() { pc.matchSegment = prev }
}

func (pc *ParseContext) metaEnabled(typ string) bool {
	return !pc.denyIndents[typ]
}

// logMatch emits one structured match-logging event. Verbosity four
// maps to trace, everything below to debug. Logging is observable
// only; it never affects the outcome of a match.
func (pc *ParseContext) logMatch(grammar, fn, event string, vLevel int, fields logrus.Fields) {
	level := logrus.DebugLevel
	if vLevel >= 4 {
		level = logrus.TraceLevel
	}
	if !pc.logger.Logger.IsLevelEnabled(level) {
		return
	}
	entry := pc.logger.WithFields(fields).WithFields(logrus.Fields{
		"depth":   pc.matchDepth,
		"segment": pc.matchSegment,
	})
	entry.Logf(level, "[%s.%s] %s", grammar, fn, event)
}

// curtail shortens a string for logging.
func curtail(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

// Blacklist is the per-parse negative memoization for Ref matchers.
// An entry means "this reference was tried on exactly this slice of
// segments and did not match"; a repeat attempt short-circuits without
// re-running the referent. Entries are never invalidated during a
// parse, which is safe because segments are immutable while it runs.
type Blacklist struct {
	cache map[blacklistKey]struct{}
}

type blacklistKey struct {
	name        string
	fingerprint uint64
}

// NewBlacklist builds an empty blacklist.
func NewBlacklist() *Blacklist {
	return &Blacklist{cache: map[blacklistKey]struct{}{}}
}

// Check reports whether the (name, fingerprint) pair is known to fail.
func (b *Blacklist) Check(name string, fingerprint uint64) bool {
	_, ok := b.cache[blacklistKey{name: name, fingerprint: fingerprint}]
	return ok
}

// Mark records that the (name, fingerprint) pair failed to match.
func (b *Blacklist) Mark(name string, fingerprint uint64) {
	b.cache[blacklistKey{name: name, fingerprint: fingerprint}] = struct{}{}
}

// fingerprintSegments digests the identities of the segments in a
// slice. Segment implementations are pointer-backed, so the addresses
// identify the objects for the lifetime of the parse. The digest also
// covers the slice length so a prefix never collides with the full
// slice.
func fingerprintSegments(segments []Segment) uint64 {
	digest := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(segments)))
	_, _ = digest.Write(buf[:])
	for _, seg := range segments {
		binary.LittleEndian.PutUint64(buf[:], uint64(reflect.ValueOf(seg).Pointer()))
		_, _ = digest.Write(buf[:])
	}
	return digest.Sum64()
}

// joinSegmentsForLog renders a segment slice for logging, curtailed.
func joinSegmentsForLog(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Raw())
		if sb.Len() > 40 {
			break
		}
	}
	return curtail(sb.String(), 40)
}
