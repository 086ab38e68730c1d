package core

import "fmt"

// ConstraintContext carries the bindings accumulated so far for the
// pattern a constraint is being evaluated against. For the single-pattern
// chains this engine builds (see flow.go), a constraint only ever sees
// the one binding for the pattern's own alias, but the map shape is kept
// general so a constraint can be written against more than one alias.
type ConstraintContext struct {
	Bindings map[string]*FactHandle
}

func newConstraintContext() *ConstraintContext {
	return &ConstraintContext{Bindings: make(map[string]*FactHandle)}
}

// Constraint is a predicate evaluated against a partial match. Constraints
// compose: And/Or/Not combine other constraints, and FunctionConstraint
// wraps a plain Go func for the common case of filtering a single fact.
type Constraint interface {
	Evaluate(ctx *ConstraintContext) (bool, error)
	String() string
}

// FunctionConstraint adapts an arbitrary predicate into a Constraint. The
// predicate receives the context so it can read any alias's binding, not
// just the pattern's own.
type FunctionConstraint struct {
	Description string
	Func        func(ctx *ConstraintContext) (bool, error)
}

func (f *FunctionConstraint) Evaluate(ctx *ConstraintContext) (bool, error) {
	return f.Func(ctx)
}

func (f *FunctionConstraint) String() string {
	if f.Description == "" {
		return "func(...)"
	}
	return f.Description
}

// NewFunctionConstraint builds a Constraint from a plain predicate and a
// human-readable description used in logging and error messages.
func NewFunctionConstraint(description string, fn func(ctx *ConstraintContext) (bool, error)) Constraint {
	return &FunctionConstraint{Description: description, Func: fn}
}

// AndConstraint requires every child constraint to hold, short-circuiting
// on the first failure or error.
type AndConstraint struct {
	Children []Constraint
}

func And(children ...Constraint) Constraint {
	return &AndConstraint{Children: children}
}

func (a *AndConstraint) Evaluate(ctx *ConstraintContext) (bool, error) {
	for _, c := range a.Children {
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

func (a *AndConstraint) String() string {
	return fmt.Sprintf("and(%d)", len(a.Children))
}

// OrConstraint requires at least one child constraint to hold,
// short-circuiting on the first success.
type OrConstraint struct {
	Children []Constraint
}

func Or(children ...Constraint) Constraint {
	return &OrConstraint{Children: children}
}

func (o *OrConstraint) Evaluate(ctx *ConstraintContext) (bool, error) {
	for _, c := range o.Children {
		ok, err := c.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (o *OrConstraint) String() string {
	return fmt.Sprintf("or(%d)", len(o.Children))
}

// NotConstraint inverts a single child constraint.
type NotConstraint struct {
	Child Constraint
}

func Not(child Constraint) Constraint {
	return &NotConstraint{Child: child}
}

func (n *NotConstraint) Evaluate(ctx *ConstraintContext) (bool, error) {
	ok, err := n.Child.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n *NotConstraint) String() string {
	return fmt.Sprintf("not(%s)", n.Child.String())
}
