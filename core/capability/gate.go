// Package capability answers whether a named storage feature is currently
// usable against the live schema. A missing capability is a normal runtime
// state on a partially migrated database, never an error: callers treat a
// false answer as "skip this feature silently".
package capability

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/logger"
)

// Descriptor names a schema dependency: a relation and the columns a
// feature requires on it.
type Descriptor struct {
	Relation string
	Columns  []string
}

func (d Descriptor) key() string {
	cols := append([]string(nil), d.Columns...)
	sort.Strings(cols)
	return d.Relation + "\x00" + strings.Join(cols, "\x00")
}

// Introspector reports the column names of a relation. Implementations may
// perform I/O; an error means introspection itself failed and is mapped to
// "not capable" by the gate.
type Introspector interface {
	Columns(ctx context.Context, relation string) ([]string, error)
}

// IntrospectorFunc adapts a function to the Introspector interface.
type IntrospectorFunc func(ctx context.Context, relation string) ([]string, error)

func (f IntrospectorFunc) Columns(ctx context.Context, relation string) ([]string, error) {
	return f(ctx, relation)
}

// StaticIntrospector serves a fixed relation → columns map. Used in tests
// and by CLI commands that run without a live database.
type StaticIntrospector map[string][]string

func (s StaticIntrospector) Columns(_ context.Context, relation string) ([]string, error) {
	return s[relation], nil
}

// Gate memoizes capability checks per (relation, column-set) for the
// process lifetime and warns exactly once per missing key, even when many
// requests race to be first. Introspection runs outside the lock; only the
// cache check-and-set is guarded.
type Gate struct {
	intro Introspector
	log   logger.Logger

	mu     sync.Mutex
	known  map[string]bool
	warned map[string]bool
}

// NewGate creates a Gate backed by the given introspector. A nil logger
// defaults to NopLogger.
func NewGate(intro Introspector, log logger.Logger) *Gate {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Gate{
		intro:  intro,
		log:    log,
		known:  make(map[string]bool),
		warned: make(map[string]bool),
	}
}

// IsCapable reports whether the store currently supports every column the
// descriptor requires. It never returns an error: introspection failures
// and blank descriptors both resolve to false. Safe for concurrent use.
func (g *Gate) IsCapable(ctx context.Context, d Descriptor) bool {
	key := d.key()
	if d.Relation == "" || len(d.Columns) == 0 {
		// Blank descriptors indicate an upstream programming error; log it
		// loudly but keep the never-throws contract.
		if g.markWarned(key) {
			g.log.Errorf("capability: blank descriptor for relation %q", d.Relation)
		}
		return false
	}

	g.mu.Lock()
	if ok, hit := g.known[key]; hit {
		g.mu.Unlock()
		return ok
	}
	g.mu.Unlock()

	cols, err := g.intro.Columns(ctx, d.Relation)
	ok := err == nil && hasAll(cols, d.Columns)

	g.mu.Lock()
	if prev, hit := g.known[key]; hit {
		// Lost the race; the first result wins so callers observe a stable
		// answer for the process lifetime.
		g.mu.Unlock()
		return prev
	}
	g.known[key] = ok
	warn := !ok && !g.warned[key]
	if warn {
		g.warned[key] = true
	}
	g.mu.Unlock()

	if warn {
		if err != nil {
			g.log.Warnf("capability: introspection of %s failed, feature disabled: %v", d.Relation, err)
		} else {
			g.log.Warnf("capability: %s is missing columns %v, feature disabled", d.Relation, missing(cols, d.Columns))
		}
	}
	return ok
}

// Reset clears the memoized results and warning flags. Intended for test
// isolation and for re-probing after a migration.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.known = make(map[string]bool)
	g.warned = make(map[string]bool)
	g.mu.Unlock()
}

func (g *Gate) markWarned(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.warned[key] {
		return false
	}
	g.warned[key] = true
	return true
}

func hasAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[strings.ToLower(c)] = struct{}{}
	}
	for _, c := range want {
		if _, ok := set[strings.ToLower(c)]; !ok {
			return false
		}
	}
	return true
}

func missing(have, want []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[strings.ToLower(c)] = struct{}{}
	}
	var out []string
	for _, c := range want {
		if _, ok := set[strings.ToLower(c)]; !ok {
			out = append(out, c)
		}
	}
	return out
}
