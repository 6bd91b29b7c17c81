package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"implidx/pkg/types"
)

// Handler is the registrar function supplied by the consuming runtime.
// It receives a completed implementor map and makes it available to the
// documentation index.
type Handler func(types.ImplementorMap)

// Mode reports which handoff path a publish took.
type Mode string

const (
	// ModeDirect means a bound handler received the map synchronously.
	ModeDirect Mode = "direct"
	// ModeDeferred means the map was parked in the pending slot.
	ModeDeferred Mode = "deferred"
)

// Registry implements the deferred-registration handshake between fragment
// producers and the documentation runtime. It owns two slots: an optional
// handler and an optional pending map. A publish hands the map to the
// handler if one is bound, otherwise overwrites the pending slot; binding a
// handler drains the slot exactly once. Both publish paths are success
// paths: absence of a handler at publish time is the expected common case
// in an asynchronous load sequence, not a failure.
type Registry struct {
	mu      sync.Mutex
	handler Handler
	pending types.ImplementorMap
	log     zerolog.Logger
}

// New creates an empty registry in the unregistered state.
func New() *Registry {
	return &Registry{log: zerolog.Nop()}
}

// SetLogger installs a structured logger for publish/bind events.
func (r *Registry) SetLogger(l zerolog.Logger) {
	r.mu.Lock()
	r.log = l
	r.mu.Unlock()
}

// Publish hands m off exactly once: synchronously to the bound handler, or
// into the pending slot when no handler is bound yet. A second deferred
// publish overwrites the slot (last writer wins, not a merge). Exactly one
// of the two locations is mutated per call.
func (r *Registry) Publish(m types.ImplementorMap) Mode {
	r.mu.Lock()
	h := r.handler
	if h == nil {
		r.pending = m
		log := r.log
		r.mu.Unlock()
		pendingGauge.Set(1)
		publishTotal.WithLabelValues(string(ModeDeferred)).Inc()
		log.Debug().Int("components", len(m)).Msg("publish deferred to pending slot")
		return ModeDeferred
	}
	log := r.log
	r.mu.Unlock()
	// Invoke outside the lock so a handler may call back into the registry.
	h(m)
	publishTotal.WithLabelValues(string(ModeDirect)).Inc()
	log.Debug().Int("components", len(m)).Msg("publish handed to registrar")
	return ModeDirect
}

// TrySetHandler binds h as the registrar if none is bound yet and reports
// whether the bind happened. The first bind wins; later calls leave the
// existing handler in place. On a successful bind any pending map is
// drained into h exactly once and the slot is cleared.
func (r *Registry) TrySetHandler(h Handler) bool {
	if h == nil {
		return false
	}
	r.mu.Lock()
	if r.handler != nil {
		r.mu.Unlock()
		return false
	}
	r.handler = h
	pending := r.pending
	r.pending = nil
	log := r.log
	r.mu.Unlock()
	if pending != nil {
		pendingGauge.Set(0)
		h(pending)
		log.Debug().Int("components", len(pending)).Msg("registrar bound, pending map drained")
		return true
	}
	log.Debug().Msg("registrar bound")
	return true
}

// Registered reports whether a handler has been bound.
func (r *Registry) Registered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler != nil
}

// PendingSnapshot returns a copy of the pending map, or nil when the slot
// is empty.
func (r *Registry) PendingSnapshot() types.ImplementorMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending.Clone()
}
