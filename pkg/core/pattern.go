package core

import (
	"fmt"
	"reflect"
)

// Pattern is compiled into one alpha-or-gate chain in the network (see
// flow.go). ObjectPattern matches facts of a given type directly; NotPattern
// and ExistsPattern wrap another pattern and are matched by counting, not by
// pointwise negation (see GateNode in node.go).
type Pattern interface {
	// FactType is the reflect.Type this pattern's chain is indexed under.
	FactType() reflect.Type
	// Alias is the binding name this pattern contributes to a Match.
	Alias() string
	// Matches reports whether the given handle satisfies this pattern's own
	// constraints. It does not account for NOT/EXISTS counting semantics;
	// that is GateNode's job.
	Matches(handle *FactHandle) (bool, error)
	String() string
}

// ObjectPattern matches facts of type T whose constraints all hold. T is
// the fact's own Go type; there is no separate Fact interface to implement
// since facts are plain values asserted into working memory as any.
type ObjectPattern[T any] struct {
	alias       string
	constraints []Constraint
}

// NewObjectPattern declares a pattern over facts of type T, bound to alias
// in any Match it contributes to.
func NewObjectPattern[T any](alias string) *ObjectPattern[T] {
	return &ObjectPattern[T]{alias: alias}
}

// Where attaches a constraint and returns the pattern for chaining.
func (p *ObjectPattern[T]) Where(c Constraint) *ObjectPattern[T] {
	p.constraints = append(p.constraints, c)
	return p
}

// Filter is sugar over Where for the common case of a plain Go predicate
// over the fact's concrete value.
func (p *ObjectPattern[T]) Filter(description string, fn func(fact T) bool) *ObjectPattern[T] {
	return p.Where(NewFunctionConstraint(description, func(ctx *ConstraintContext) (bool, error) {
		handle, ok := ctx.Bindings[p.alias]
		if !ok {
			return false, nil
		}
		v, ok := handle.Value.(T)
		if !ok {
			return false, nil
		}
		return fn(v), nil
	}))
}

func (p *ObjectPattern[T]) FactType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (p *ObjectPattern[T]) Alias() string {
	return p.alias
}

func (p *ObjectPattern[T]) Matches(handle *FactHandle) (bool, error) {
	if _, ok := handle.Value.(T); !ok {
		return false, nil
	}
	ctx := newConstraintContext()
	ctx.Bindings[p.alias] = handle
	for _, c := range p.constraints {
		ok, err := c.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (p *ObjectPattern[T]) String() string {
	return fmt.Sprintf("ObjectPattern[%s](%s, %d constraints)", p.FactType(), p.alias, len(p.constraints))
}

// NotPattern matches when no fact satisfies the wrapped pattern. It is
// compiled into a GateNode rather than evaluated pointwise, since a
// pointwise !Matches(handle) per incoming fact cannot express "no fact of
// this type exists at all".
type NotPattern struct {
	alias   string
	wrapped Pattern
}

// NewNotPattern negates wrapped, contributing no binding of its own besides
// alias (which names the gate's synthetic activation, not any fact).
func NewNotPattern(alias string, wrapped Pattern) *NotPattern {
	return &NotPattern{alias: alias, wrapped: wrapped}
}

func (n *NotPattern) FactType() reflect.Type { return n.wrapped.FactType() }
func (n *NotPattern) Alias() string          { return n.alias }
func (n *NotPattern) Matches(handle *FactHandle) (bool, error) {
	return n.wrapped.Matches(handle)
}
func (n *NotPattern) String() string {
	return fmt.Sprintf("NotPattern(%s)", n.wrapped.String())
}

// ExistsPattern matches when at least one fact satisfies the wrapped
// pattern. Like NotPattern it is compiled into a counting GateNode.
type ExistsPattern struct {
	alias   string
	wrapped Pattern
}

func NewExistsPattern(alias string, wrapped Pattern) *ExistsPattern {
	return &ExistsPattern{alias: alias, wrapped: wrapped}
}

func (e *ExistsPattern) FactType() reflect.Type { return e.wrapped.FactType() }
func (e *ExistsPattern) Alias() string          { return e.alias }
func (e *ExistsPattern) Matches(handle *FactHandle) (bool, error) {
	return e.wrapped.Matches(handle)
}
func (e *ExistsPattern) String() string {
	return fmt.Sprintf("ExistsPattern(%s)", e.wrapped.String())
}
