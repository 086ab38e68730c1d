package core

import "github.com/liliang-cn/nools/internal/pqueue"

// ConflictResolution is one key in the tuple the agenda sorts activations
// by within a group. Strategies are applied left to right; the first one
// that distinguishes two activations decides their order.
type ConflictResolution int

const (
	// Salience orders by rule priority, higher first.
	Salience ConflictResolution = iota
	// ActivationRecency orders by activation creation order, newer first.
	ActivationRecency
	// FactRecency orders by the source fact's recency, newer first.
	FactRecency
)

// DefaultStrategies is the conflict-resolution tuple used when a Flow
// isn't configured with its own.
func DefaultStrategies() []ConflictResolution {
	return []ConflictResolution{Salience, ActivationRecency}
}

func less(strategies []ConflictResolution, a, b *Activation) bool {
	for _, s := range strategies {
		switch s {
		case Salience:
			if a.Salience() != b.Salience() {
				return a.Salience() > b.Salience()
			}
		case ActivationRecency:
			if a.Recency != b.Recency {
				return a.Recency > b.Recency
			}
		case FactRecency:
			if a.FactRecency() != b.FactRecency() {
				return a.FactRecency() > b.FactRecency()
			}
		}
	}
	return false
}

// group is one named agenda group's own activation queue.
type group struct {
	name  string
	queue *pqueue.PriorityQueue[*Activation]
}

func newGroup(name string, strategies []ConflictResolution) *group {
	return &group{
		name:  name,
		queue: pqueue.New(func(a, b *Activation) bool { return less(strategies, a, b) }),
	}
}

// Agenda holds every agenda group a Flow's rules were registered into,
// plus the focus stack deciding which group's activations fire next.
type Agenda struct {
	strategies []ConflictResolution
	groups     map[string]*group
	focusStack []string
}

// NewAgenda builds an agenda with a default "main" group already focused,
// matching the reference engine's always-present default group.
func NewAgenda(strategies []ConflictResolution) *Agenda {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	a := &Agenda{
		strategies: strategies,
		groups:     make(map[string]*group),
	}
	a.groups["main"] = newGroup("main", strategies)
	a.focusStack = []string{"main"}
	return a
}

func (a *Agenda) ensureGroup(name string) *group {
	g, ok := a.groups[name]
	if !ok {
		g = newGroup(name, a.strategies)
		a.groups[name] = g
	}
	return g
}

// Insert adds an activation to its rule's agenda group, pushing that
// group onto the focus stack first if the rule declares auto-focus.
func (a *Agenda) Insert(act *Activation) {
	name := act.Rule.AgendaGroup
	if name == "" {
		name = "main"
	}
	g := a.ensureGroup(name)
	g.queue.Push(act)
	if act.Rule.AutoFocus {
		a.Focus(name)
	}
}

// Focus pushes name onto the top of the focus stack, or moves it there if
// already present further down, so its activations fire before anything
// beneath it.
func (a *Agenda) Focus(name string) {
	a.ensureGroup(name)
	for i, n := range a.focusStack {
		if n == name {
			a.focusStack = append(a.focusStack[:i], a.focusStack[i+1:]...)
			break
		}
	}
	a.focusStack = append(a.focusStack, name)
}

// Pop removes and returns the highest-priority activation from the
// focused group, skipping and discarding any activation whose source
// fact has since been retracted. It pops exhausted non-main groups off
// the focus stack and retries, exactly as the reference engine does.
func (a *Agenda) Pop(wm *WorkingMemory) *Activation {
	for {
		if len(a.focusStack) == 0 {
			return nil
		}
		top := a.focusStack[len(a.focusStack)-1]
		g := a.groups[top]
		for {
			act, ok := g.queue.Pop()
			if !ok {
				break
			}
			if act.alive(wm) {
				return act
			}
		}
		if top != "main" {
			a.focusStack = a.focusStack[:len(a.focusStack)-1]
			continue
		}
		return nil
	}
}

// IsEmpty reports whether every group on the focus stack, from top to
// bottom, has no live activation left — the reference engine checks the
// whole stack, not just the top, since a lower group can still have work
// after a higher one is exhausted but not yet popped off.
func (a *Agenda) IsEmpty(wm *WorkingMemory) bool {
	for i := len(a.focusStack) - 1; i >= 0; i-- {
		g := a.groups[a.focusStack[i]]
		if groupHasLive(g, wm) {
			return false
		}
	}
	return true
}

func groupHasLive(g *group, wm *WorkingMemory) bool {
	var drained []*Activation
	found := false
	for {
		act, ok := g.queue.Pop()
		if !ok {
			break
		}
		if act.alive(wm) {
			found = true
			drained = append(drained, act)
			break
		}
	}
	for _, act := range drained {
		g.queue.Push(act)
	}
	return found
}
