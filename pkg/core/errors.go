package core

import (
	"errors"
	"fmt"
)

// Kind classifies the failure modes this engine can surface, so callers
// can errors.Is against a kind without string-matching a message.
type Kind int

const (
	// KindCompilation covers failures building a Flow's network: duplicate
	// rule names, a rule with no action, an unbuildable pattern.
	KindCompilation Kind = iota
	// KindExecution covers failures raised by a rule's own action callback,
	// and calls made on a Session after Dispose.
	KindExecution
	// KindPatternMatch covers constraint-evaluation failures during assert
	// or retract.
	KindPatternMatch
	// KindFactNotFound covers lookups against a FactId no longer present.
	KindFactNotFound
	// KindRuleNotFound covers lookups against an unregistered rule name.
	KindRuleNotFound
	// KindInvalidConstraint covers malformed constraint construction.
	KindInvalidConstraint
	// KindAgendaGroupNotFound names a lookup of an unknown agenda group. No
	// operation in this package returns it: Focus creates a group it does
	// not know yet instead of failing.
	KindAgendaGroupNotFound
)

func (k Kind) String() string {
	switch k {
	case KindCompilation:
		return "compilation"
	case KindExecution:
		return "execution"
	case KindPatternMatch:
		return "pattern_match"
	case KindFactNotFound:
		return "fact_not_found"
	case KindRuleNotFound:
		return "rule_not_found"
	case KindInvalidConstraint:
		return "invalid_constraint"
	case KindAgendaGroupNotFound:
		return "agenda_group_not_found"
	default:
		return "unknown"
	}
}

// Sentinel errors per kind, for errors.Is against a bare kind when the
// wrapping Op/cause isn't relevant to the caller.
var (
	ErrCompilation         = errors.New("compilation error")
	ErrExecution           = errors.New("execution error")
	ErrPatternMatch        = errors.New("pattern match error")
	ErrFactNotFound        = errors.New("fact not found")
	ErrRuleNotFound        = errors.New("rule not found")
	ErrInvalidConstraint   = errors.New("invalid constraint")
	ErrAgendaGroupNotFound = errors.New("agenda group not found")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindCompilation:
		return ErrCompilation
	case KindExecution:
		return ErrExecution
	case KindPatternMatch:
		return ErrPatternMatch
	case KindFactNotFound:
		return ErrFactNotFound
	case KindRuleNotFound:
		return ErrRuleNotFound
	case KindInvalidConstraint:
		return ErrInvalidConstraint
	case KindAgendaGroupNotFound:
		return ErrAgendaGroupNotFound
	default:
		return errors.New("unknown error")
	}
}

// Error wraps a failure with the operation that produced it and its kind,
// so the engine's public surface returns one error type for every
// failure mode rather than a grab bag of sentinel values.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("nools: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("nools: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match against the kind's sentinel as well as whatever
// the wrapped cause is, so both errors.Is(err, core.ErrFactNotFound) and
// errors.Is(err, someLowerLevelErr) work.
func (e *Error) Is(target error) bool {
	if target == sentinelFor(e.Kind) {
		return true
	}
	return errors.Is(e.Err, target)
}

// newError builds a *Error, defaulting Err to the kind's own sentinel so
// Error() never prints a bare "nools: op: kind" with no detail.
func newError(op string, kind Kind, err error) error {
	if err == nil {
		err = sentinelFor(kind)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
