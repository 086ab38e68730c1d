package core

import "reflect"

// Node is one stage of a compiled rule's chain: it sees every assert,
// retract, and modify of a fact and decides whether to propagate to its
// children, producing whatever Activations that propagation causes
// further down the chain (ultimately at a TerminalNode).
type Node interface {
	Assert(handle *FactHandle) ([]*Activation, error)
	Retract(handle *FactHandle) ([]*Activation, error)
}

// Seeder is implemented by nodes that must run once, before any fact is
// asserted, to establish their initial state. GateNode is the only such
// node: a NOT pattern over an empty working memory is satisfied from the
// start, and nothing ever asserts a fact to trigger that realization.
type Seeder interface {
	Seed() ([]*Activation, error)
}

func modify(n Node, old, newHandle *FactHandle) ([]*Activation, error) {
	var out []*Activation
	retracted, err := n.Retract(old)
	if err != nil {
		return nil, err
	}
	out = append(out, retracted...)
	asserted, err := n.Assert(newHandle)
	if err != nil {
		return nil, err
	}
	return append(out, asserted...), nil
}

// RootNode fans out every fact of a matching type to each chain compiled
// against that type, in registration order.
type RootNode struct {
	ChildrenByType map[reflect.Type][]Node
}

func NewRootNode() *RootNode {
	return &RootNode{ChildrenByType: make(map[reflect.Type][]Node)}
}

func (r *RootNode) AddChild(t reflect.Type, child Node) {
	r.ChildrenByType[t] = append(r.ChildrenByType[t], child)
}

func (r *RootNode) Assert(handle *FactHandle) ([]*Activation, error) {
	var out []*Activation
	for _, child := range r.ChildrenByType[handle.Type] {
		acts, err := child.Assert(handle)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}
	return out, nil
}

func (r *RootNode) Retract(handle *FactHandle) ([]*Activation, error) {
	var out []*Activation
	for _, child := range r.ChildrenByType[handle.Type] {
		acts, err := child.Retract(handle)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}
	return out, nil
}

func (r *RootNode) Modify(old, newHandle *FactHandle) ([]*Activation, error) {
	return modify(r, old, newHandle)
}

// Seed runs Seed on every descendant that implements Seeder (currently
// only GateNode), once, when a Session's network is first constructed.
func (r *RootNode) Seed() ([]*Activation, error) {
	var out []*Activation
	for _, children := range r.ChildrenByType {
		for _, child := range children {
			acts, err := seedNode(child)
			if err != nil {
				return nil, err
			}
			out = append(out, acts...)
		}
	}
	return out, nil
}

func seedNode(n Node) ([]*Activation, error) {
	if s, ok := n.(Seeder); ok {
		return s.Seed()
	}
	return nil, nil
}

// AlphaNode matches incoming facts against a single Pattern and, when a
// fact matches, remembers it (for later retraction bookkeeping) and
// propagates it to its children.
type AlphaNode struct {
	Pattern  Pattern
	Children []Node
	memory   map[FactId]*FactHandle
}

func NewAlphaNode(pattern Pattern) *AlphaNode {
	return &AlphaNode{Pattern: pattern, memory: make(map[FactId]*FactHandle)}
}

func (a *AlphaNode) AddChild(child Node) {
	a.Children = append(a.Children, child)
}

func (a *AlphaNode) Assert(handle *FactHandle) ([]*Activation, error) {
	ok, err := a.Pattern.Matches(handle)
	if err != nil {
		return nil, newError("AlphaNode.Assert", KindPatternMatch, err)
	}
	if !ok {
		return nil, nil
	}
	a.memory[handle.ID] = handle
	var out []*Activation
	for _, child := range a.Children {
		acts, err := child.Assert(handle)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}
	return out, nil
}

func (a *AlphaNode) Retract(handle *FactHandle) ([]*Activation, error) {
	if _, ok := a.memory[handle.ID]; !ok {
		return nil, nil
	}
	delete(a.memory, handle.ID)
	var out []*Activation
	for _, child := range a.Children {
		acts, err := child.Retract(handle)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}
	return out, nil
}

func (a *AlphaNode) Modify(old, newHandle *FactHandle) ([]*Activation, error) {
	return modify(a, old, newHandle)
}

// GateKind selects a GateNode's counting semantics.
type GateKind int

const (
	GateNot GateKind = iota
	GateExists
)

// GateNode implements NOT and EXISTS patterns by counting live matches of
// the wrapped pattern rather than inverting a single fact's match result.
// A NOT gate is satisfied while the count is zero; an EXISTS gate is
// satisfied while the count is nonzero. Satisfaction is a 0<->1 boundary
// event: it propagates a synthetic FactHandle to its children exactly
// when satisfaction begins, and retracts that same handle when
// satisfaction ends, so only boundary crossings ever reach a terminal.
type GateNode struct {
	Kind      GateKind
	Pattern   Pattern
	Children  []Node
	count     int
	satisfied bool
	synthetic *FactHandle
}

func NewGateNode(kind GateKind, pattern Pattern) *GateNode {
	return &GateNode{Kind: kind, Pattern: pattern}
}

func (g *GateNode) AddChild(child Node) {
	g.Children = append(g.Children, child)
}

func (g *GateNode) wantsSatisfied() bool {
	if g.Kind == GateNot {
		return g.count == 0
	}
	return g.count > 0
}

// Seed establishes the gate's initial satisfaction with zero facts
// asserted: a NOT gate starts satisfied, an EXISTS gate does not.
func (g *GateNode) Seed() ([]*Activation, error) {
	return g.reconcile()
}

func (g *GateNode) Assert(handle *FactHandle) ([]*Activation, error) {
	ok, err := g.Pattern.Matches(handle)
	if err != nil {
		return nil, newError("GateNode.Assert", KindPatternMatch, err)
	}
	if !ok {
		return nil, nil
	}
	g.count++
	return g.reconcile()
}

func (g *GateNode) Retract(handle *FactHandle) ([]*Activation, error) {
	ok, err := g.Pattern.Matches(handle)
	if err != nil {
		return nil, newError("GateNode.Retract", KindPatternMatch, err)
	}
	if !ok {
		return nil, nil
	}
	if g.count > 0 {
		g.count--
	}
	return g.reconcile()
}

func (g *GateNode) Modify(old, newHandle *FactHandle) ([]*Activation, error) {
	return modify(g, old, newHandle)
}

func (g *GateNode) reconcile() ([]*Activation, error) {
	want := g.wantsSatisfied()
	if want == g.satisfied {
		return nil, nil
	}
	g.satisfied = want
	if want {
		synthetic := newFactHandle(gateToken{}, 0)
		synthetic.IsAlive = func() bool {
			return g.satisfied && g.synthetic != nil && g.synthetic.ID == synthetic.ID
		}
		g.synthetic = synthetic
		var out []*Activation
		for _, child := range g.Children {
			acts, err := child.Assert(g.synthetic)
			if err != nil {
				return nil, err
			}
			out = append(out, acts...)
		}
		return out, nil
	}
	synthetic := g.synthetic
	g.synthetic = nil
	if synthetic == nil {
		return nil, nil
	}
	for _, child := range g.Children {
		if _, err := child.Retract(synthetic); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// gateToken is the value type of a GateNode's synthetic handle. It carries
// no data; its only purpose is to have a stable reflect.Type distinct from
// any real fact type.
type gateToken struct{}

// TerminalNode is the end of a compiled chain: every fact that reaches it
// produces exactly one Activation, binding the pattern's own alias (the
// pattern this chain was compiled from, not necessarily the rule's first
// pattern).
type TerminalNode struct {
	Rule  *Rule
	Alias string
}

func NewTerminalNode(rule *Rule, alias string) *TerminalNode {
	return &TerminalNode{Rule: rule, Alias: alias}
}

func (t *TerminalNode) Assert(handle *FactHandle) ([]*Activation, error) {
	match := newMatch(t.Alias, handle)
	return []*Activation{newActivation(t.Rule, match)}, nil
}

// Retract produces no activations: a fact leaving working memory cancels
// no already-queued firing here, it only ever removes one (handled by the
// agenda filtering out activations whose source fact is gone, at pop
// time, rather than this node walking the agenda itself).
func (t *TerminalNode) Retract(handle *FactHandle) ([]*Activation, error) {
	return nil, nil
}
