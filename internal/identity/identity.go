// Package identity assigns stable identifiers to parsed tasks.
package identity

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Allocator maps a (source, label) pair to a stable identifier.
type Allocator interface {
	ID(source, label string) string
}

// Namespace is the default UUID namespace for task identifiers.
var Namespace = uuid.MustParse("6f1d3c0e-8f0b-4b52-9a43-2d6a51c7e2b4")

type key struct {
	source string
	label  string
}

// UUIDMap hands out name-based UUIDs keyed by (source, label).
//
// Identifiers are derived from the namespace, the source, the label and
// the occurrence of that label within the current parse pass, so the
// same document always yields the same identifiers. Duplicate labels in
// one source get distinct identifiers. Call Start before each pass.
type UUIDMap struct {
	mu        sync.Mutex
	namespace uuid.UUID
	seen      map[key]int
	assigned  map[key][]string
}

// NewUUIDMap creates a map using the given namespace. uuid.Nil selects
// the package default.
func NewUUIDMap(namespace uuid.UUID) *UUIDMap {
	if namespace == uuid.Nil {
		namespace = Namespace
	}
	return &UUIDMap{
		namespace: namespace,
		seen:      make(map[key]int),
		assigned:  make(map[key][]string),
	}
}

// Start begins a new parse pass. Occurrence counters reset; previously
// assigned identifiers are kept and handed out again in the same order.
func (m *UUIDMap) Start() {
	m.mu.Lock()
	m.seen = make(map[key]int)
	m.mu.Unlock()
}

// ID returns the identifier for the next occurrence of label in source.
func (m *UUIDMap) ID(source, label string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{source: source, label: label}
	n := m.seen[k]
	m.seen[k] = n + 1

	ids := m.assigned[k]
	if n < len(ids) {
		return ids[n]
	}

	id := uuid.NewSHA1(m.namespace, []byte(source+"\x00"+label+"\x00"+strconv.Itoa(n))).String()
	m.assigned[k] = append(ids, id)
	return id
}

// Len returns the number of identifiers assigned so far.
func (m *UUIDMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ids := range m.assigned {
		n += len(ids)
	}
	return n
}

// Func adapts a plain function to Allocator.
type Func func(source, label string) string

// ID calls f.
func (f Func) ID(source, label string) string {
	return f(source, label)
}
