package core

import "testing"

func alwaysTrue() Constraint {
	return NewFunctionConstraint("true", func(ctx *ConstraintContext) (bool, error) { return true, nil })
}

func alwaysFalse() Constraint {
	return NewFunctionConstraint("false", func(ctx *ConstraintContext) (bool, error) { return false, nil })
}

func TestAndConstraintShortCircuits(t *testing.T) {
	evaluated := false
	never := NewFunctionConstraint("never", func(ctx *ConstraintContext) (bool, error) {
		evaluated = true
		return true, nil
	})

	ok, err := And(alwaysFalse(), never).Evaluate(newConstraintContext())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected And to fail when first child fails")
	}
	if evaluated {
		t.Fatal("expected And to short-circuit and skip the second child")
	}
}

func TestOrConstraintShortCircuits(t *testing.T) {
	evaluated := false
	never := NewFunctionConstraint("never", func(ctx *ConstraintContext) (bool, error) {
		evaluated = true
		return false, nil
	})

	ok, err := Or(alwaysTrue(), never).Evaluate(newConstraintContext())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected Or to succeed when first child succeeds")
	}
	if evaluated {
		t.Fatal("expected Or to short-circuit and skip the second child")
	}
}

func TestNotConstraintInverts(t *testing.T) {
	ok, err := Not(alwaysTrue()).Evaluate(newConstraintContext())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected Not(true) to be false")
	}
}
