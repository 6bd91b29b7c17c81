// Package index implements the documentation runtime that consumes
// implementor registrations: it binds itself to a registry as the
// registrar, merges registered maps into a cumulative per-component index,
// and answers queries from the HTTP layer.
package index

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"implidx/internal/registry"
	"implidx/pkg/types"
)

// Config carries construction options for an Index.
type Config struct {
	// SnapshotPath enables JSON snapshot persistence when non-empty.
	SnapshotPath string
	// RequireRegistration makes Ready() false until at least one
	// registration (or snapshot restore) has populated the index. Servers
	// started without a fragments dir leave this unset so probes pass
	// immediately.
	RequireRegistration bool
	// Events receives lifecycle events; nil means drop them.
	Events EventPublisher
	// Logger for registration and snapshot activity.
	Logger *zerolog.Logger
}

type Index struct {
	mu             sync.RWMutex
	components     map[string][]types.ImplementorEntry
	registrations  int
	lastRegistered time.Time

	snapshotPath string
	requireReg   bool
	events       EventPublisher
	log          zerolog.Logger
}

// New creates an index. When a snapshot path is configured, a previous
// snapshot is restored best-effort: failures are logged, never fatal.
func New(cfg Config) *Index {
	ix := &Index{
		components:   make(map[string][]types.ImplementorEntry),
		snapshotPath: cfg.SnapshotPath,
		requireReg:   cfg.RequireRegistration,
		events:       cfg.Events,
		log:          zerolog.Nop(),
	}
	if cfg.Logger != nil {
		ix.log = *cfg.Logger
	}
	if ix.events == nil {
		ix.events = noopPublisher{}
	}
	ix.loadSnapshot()
	return ix
}

// Bind registers the index as the registrar on r. Any map already parked
// in the registry's pending slot is drained into the index during the
// call. Returns false when r already has a registrar.
func (ix *Index) Bind(r *registry.Registry) bool {
	return r.TrySetHandler(ix.Register)
}

// Register consumes one implementor map. Merge policy: entry lists for the
// components named in m are replaced; components not named are untouched.
// This is how the browser runtime accumulates one fragment per crate into
// a cumulative cross-crate index.
func (ix *Index) Register(m types.ImplementorMap) {
	ix.mu.Lock()
	for name, entries := range m {
		cp := make([]types.ImplementorEntry, len(entries))
		copy(cp, entries)
		ix.components[name] = cp
	}
	ix.registrations++
	ix.lastRegistered = time.Now()
	n := ix.registrations
	ix.mu.Unlock()

	registeredTotal.Inc()
	componentsGauge.Set(float64(ix.componentCount()))
	ix.log.Info().Int("components", len(m)).Int("registrations", n).Msg("registration consumed")
	ix.events.Publish(Event{Name: "register", Fields: map[string]any{"components": len(m)}})
	ix.saveSnapshot()
}

func (ix *Index) componentCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.components)
}

// Components returns the sorted component names currently in the index.
func (ix *Index) Components() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]string, 0, len(ix.components))
	for name := range ix.components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Implementors returns a copy of the entry list for a component.
func (ix *Index) Implementors(name string) ([]types.ImplementorEntry, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	entries, ok := ix.components[name]
	if !ok {
		return nil, ErrComponentNotFound(name)
	}
	out := make([]types.ImplementorEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Status reports index state for the /status endpoint.
func (ix *Index) Status() types.StatusResponse {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	total := 0
	for _, entries := range ix.components {
		total += len(entries)
	}
	return types.StatusResponse{
		Components:     len(ix.components),
		Entries:        total,
		Registrations:  ix.registrations,
		LastRegistered: ix.lastRegistered,
		SnapshotPath:   ix.snapshotPath,
		Ready:          ix.readyLocked(),
	}
}

// Ready reports whether the index can serve queries.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.readyLocked()
}

func (ix *Index) readyLocked() bool {
	if !ix.requireReg {
		return true
	}
	return ix.registrations > 0 || len(ix.components) > 0
}
