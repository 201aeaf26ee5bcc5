package capability

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

type countingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *countingLogger) Debugf(string, ...any)         {}
func (l *countingLogger) Debugw(string, map[string]any) {}
func (l *countingLogger) Infof(string, ...any)          {}
func (l *countingLogger) Errorf(format string, args ...any) {
	l.Warnf(format, args...)
}
func (l *countingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *countingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

func TestIsCapable_AllColumnsPresent(t *testing.T) {
	gate := NewGate(StaticIntrospector{"quotes": {"id", "status", "created_at"}}, nil)
	d := Descriptor{Relation: "quotes", Columns: []string{"id", "status"}}
	if !gate.IsCapable(context.Background(), d) {
		t.Error("expected capable")
	}
}

func TestIsCapable_CaseInsensitiveColumns(t *testing.T) {
	gate := NewGate(StaticIntrospector{"quotes": {"ID", "Status"}}, nil)
	d := Descriptor{Relation: "quotes", Columns: []string{"id", "status"}}
	if !gate.IsCapable(context.Background(), d) {
		t.Error("expected column matching to be case-insensitive")
	}
}

func TestIsCapable_MissingColumn(t *testing.T) {
	log := &countingLogger{}
	gate := NewGate(StaticIntrospector{"quotes": {"id"}}, log)
	d := Descriptor{Relation: "quotes", Columns: []string{"id", "status"}}
	for i := 0; i < 5; i++ {
		if gate.IsCapable(context.Background(), d) {
			t.Fatal("expected not capable")
		}
	}
	if log.count() != 1 {
		t.Errorf("warnings = %d, want exactly 1", log.count())
	}
}

func TestIsCapable_IntrospectionErrorIsFalse(t *testing.T) {
	gate := NewGate(IntrospectorFunc(func(context.Context, string) ([]string, error) {
		return nil, fmt.Errorf("connection refused")
	}), &countingLogger{})
	d := Descriptor{Relation: "quotes", Columns: []string{"id"}}
	if gate.IsCapable(context.Background(), d) {
		t.Error("introspection failure must resolve to false, not panic")
	}
}

func TestIsCapable_BlankDescriptor(t *testing.T) {
	log := &countingLogger{}
	gate := NewGate(StaticIntrospector{}, log)
	for i := 0; i < 3; i++ {
		if gate.IsCapable(context.Background(), Descriptor{}) {
			t.Fatal("blank descriptor must be false")
		}
	}
	if log.count() != 1 {
		t.Errorf("warnings = %d, want exactly 1", log.count())
	}
}

func TestIsCapable_Memoizes(t *testing.T) {
	var calls int32
	gate := NewGate(IntrospectorFunc(func(context.Context, string) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"id"}, nil
	}), nil)
	d := Descriptor{Relation: "quotes", Columns: []string{"id"}}
	for i := 0; i < 10; i++ {
		gate.IsCapable(context.Background(), d)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("introspector calls = %d, want 1", got)
	}
}

func TestIsCapable_WarnOnceUnderRace(t *testing.T) {
	log := &countingLogger{}
	gate := NewGate(StaticIntrospector{"quotes": {"id"}}, log)
	d := Descriptor{Relation: "quotes", Columns: []string{"id", "missing"}}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate.IsCapable(context.Background(), d)
		}()
	}
	wg.Wait()
	if log.count() != 1 {
		t.Errorf("warnings under race = %d, want exactly 1", log.count())
	}
}

func TestReset(t *testing.T) {
	log := &countingLogger{}
	cols := []string{"id"}
	gate := NewGate(IntrospectorFunc(func(context.Context, string) ([]string, error) {
		return cols, nil
	}), log)
	d := Descriptor{Relation: "quotes", Columns: []string{"id", "status"}}
	if gate.IsCapable(context.Background(), d) {
		t.Fatal("expected not capable before migration")
	}

	// Simulate a migration adding the column.
	cols = []string{"id", "status"}
	if gate.IsCapable(context.Background(), d) {
		t.Fatal("memoized answer must be stable until Reset")
	}
	gate.Reset()
	if !gate.IsCapable(context.Background(), d) {
		t.Error("expected capable after Reset")
	}
}

func TestDescriptorKey_ColumnOrderIrrelevant(t *testing.T) {
	a := Descriptor{Relation: "quotes", Columns: []string{"a", "b"}}
	b := Descriptor{Relation: "quotes", Columns: []string{"b", "a"}}
	if a.key() != b.key() {
		t.Error("keys should not depend on column order")
	}
}
