package core

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// FactId uniquely identifies a fact asserted into working memory. Ids are
// process-wide and monotonically increasing; they are never reused, even
// across distinct Sessions, so a retracted fact's id can never collide
// with a later one.
type FactId uint64

var factIDCounter uint64

func nextFactID() FactId {
	return FactId(atomic.AddUint64(&factIDCounter, 1))
}

func (id FactId) String() string {
	return fmt.Sprintf("fact#%d", uint64(id))
}

// FactHandle is the unit of identity working memory hands around: the
// asserted value, its id, the reflect.Type it was asserted as (used to
// route it through the type-indexed alpha network), and the recency
// counter it was given at the time of its last assert or modify.
type FactHandle struct {
	ID      FactId
	Value   any
	Type    reflect.Type
	Recency uint64

	// IsAlive overrides the agenda's default "is this fact still in working
	// memory" liveness check. It is nil for every fact a caller actually
	// asserts; GateNode sets it on the synthetic handles it manufactures,
	// since those never enter working memory and so can't be looked up by
	// id there.
	IsAlive func() bool
}

func newFactHandle(value any, recency uint64) *FactHandle {
	return &FactHandle{
		ID:      nextFactID(),
		Value:   value,
		Type:    reflect.TypeOf(value),
		Recency: recency,
	}
}

func (h *FactHandle) String() string {
	return fmt.Sprintf("%s{%v}", h.ID, h.Value)
}
