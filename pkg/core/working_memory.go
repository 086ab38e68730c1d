package core

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// WorkingMemory holds every fact currently asserted in a Session, indexed
// both by id (for retraction and modification) and by reflect.Type, the
// latter kept as an insertion-ordered slice so type-indexed enumeration
// is reproducible rather than following Go's randomized map order. It is
// safe for concurrent use: a Session's own match-fire loop is strictly
// sequential, but a caller is free to read working memory from another
// goroutine between assert/retract calls.
type WorkingMemory struct {
	mu          sync.RWMutex
	facts       map[FactId]*FactHandle
	factsByType map[reflect.Type][]*FactHandle
	recency     uint64
}

func NewWorkingMemory() *WorkingMemory {
	return &WorkingMemory{
		facts:       make(map[FactId]*FactHandle),
		factsByType: make(map[reflect.Type][]*FactHandle),
	}
}

func (wm *WorkingMemory) nextRecency() uint64 {
	return atomic.AddUint64(&wm.recency, 1)
}

// Assert inserts value as a new fact and returns its handle.
func (wm *WorkingMemory) Assert(value any) *FactHandle {
	handle := newFactHandle(value, wm.nextRecency())
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.insertLocked(handle)
	return handle
}

func (wm *WorkingMemory) insertLocked(handle *FactHandle) {
	wm.facts[handle.ID] = handle
	wm.factsByType[handle.Type] = append(wm.factsByType[handle.Type], handle)
}

// Retract removes the fact with the given id, returning its handle and
// whether it was present.
func (wm *WorkingMemory) Retract(id FactId) (*FactHandle, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	handle, ok := wm.facts[id]
	if !ok {
		return nil, false
	}
	wm.removeLocked(handle)
	return handle, true
}

func (wm *WorkingMemory) removeLocked(handle *FactHandle) {
	delete(wm.facts, handle.ID)
	byType := wm.factsByType[handle.Type]
	for i, h := range byType {
		if h.ID == handle.ID {
			wm.factsByType[handle.Type] = append(byType[:i], byType[i+1:]...)
			break
		}
	}
}

// Modify replaces the fact at id in place: the fresh handle keeps id but
// gets a new recency and the new value, matching the reference engine's
// modify semantics (a modify is a new handle under the same FactId, not
// a fresh id). Any activation already queued against the old handle is
// invalidated once it is popped, since the old handle's value is gone
// from working memory by the time Modify returns.
func (wm *WorkingMemory) Modify(id FactId, value any) (old *FactHandle, fresh *FactHandle, ok bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	old, ok = wm.facts[id]
	if !ok {
		return nil, nil, false
	}
	wm.removeLocked(old)
	fresh = &FactHandle{ID: id, Value: value, Type: reflect.TypeOf(value), Recency: wm.nextRecency()}
	wm.insertLocked(fresh)
	return old, fresh, true
}

// Get returns the handle for id, if present.
func (wm *WorkingMemory) Get(id FactId) (*FactHandle, bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	h, ok := wm.facts[id]
	return h, ok
}

// Has reports whether id is still present. The agenda's liveness check
// does not use it: it compares the handle returned by Get against the
// activation's own handle, since Modify keeps the id.
func (wm *WorkingMemory) Has(id FactId) bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	_, ok := wm.facts[id]
	return ok
}

// ByType returns every currently-asserted fact whose concrete type is t,
// in the order it was (re-)inserted under that type.
func (wm *WorkingMemory) ByType(t reflect.Type) []*FactHandle {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	byType := wm.factsByType[t]
	out := make([]*FactHandle, len(byType))
	copy(out, byType)
	return out
}

// Len returns the total number of facts currently asserted.
func (wm *WorkingMemory) Len() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.facts)
}
