package core

import (
	"fmt"
	"sync/atomic"
)

// Priority (a.k.a. salience) orders activations within an agenda group;
// higher fires first.
type Priority int32

// RuleAction is the callback run when a rule fires. It receives the
// Session so it can assert/retract/modify facts or change agenda focus,
// and the Match that triggered the firing.
type RuleAction func(session *Session, match *Match) error

// Match is the single binding a terminal node produces: the alias of the
// pattern that was compiled into that terminal's chain, and the fact
// handle that satisfied it. Because this engine does not cross-join
// multiple patterns within a rule, a Match never carries more than one
// binding.
type Match struct {
	Facts   map[string]*FactHandle
	Context *ConstraintContext
}

func newMatch(alias string, handle *FactHandle) *Match {
	return &Match{
		Facts:   map[string]*FactHandle{alias: handle},
		Context: &ConstraintContext{Bindings: map[string]*FactHandle{alias: handle}},
	}
}

var activationRecencyCounter uint64

func nextActivationRecency() uint64 {
	return atomic.AddUint64(&activationRecencyCounter, 1)
}

// Activation is a pending rule firing sitting on the agenda: a rule, the
// match that produced it, and the recency it was created at (used by the
// ActivationRecency conflict-resolution strategy).
type Activation struct {
	Rule       *Rule
	Match      *Match
	Recency    uint64
	sourceFact *FactHandle
}

func newActivation(rule *Rule, match *Match) *Activation {
	a := &Activation{Rule: rule, Match: match, Recency: nextActivationRecency()}
	for _, h := range match.Facts {
		a.sourceFact = h
		break
	}
	return a
}

// alive reports whether the fact that produced this activation is still
// present and unchanged, consulting the handle's own IsAlive override
// when it has one (gate-sourced activations) or working memory
// otherwise. Identity is the handle pointer, not just the FactId: Modify
// keeps a fact's id but swaps in a new handle, so a stale activation
// queued against the pre-modify handle must still be discarded even
// though its id is once again present in working memory.
func (a *Activation) alive(wm *WorkingMemory) bool {
	if a.sourceFact == nil {
		return true
	}
	if a.sourceFact.IsAlive != nil {
		return a.sourceFact.IsAlive()
	}
	current, ok := wm.Get(a.sourceFact.ID)
	return ok && current == a.sourceFact
}

// Salience is the rule's priority, the primary conflict-resolution key.
func (a *Activation) Salience() Priority {
	return a.Rule.Priority
}

// FactRecency is the recency of the fact that produced this activation,
// the tie-breaking key for the FactRecency conflict-resolution strategy.
func (a *Activation) FactRecency() uint64 {
	for _, h := range a.Match.Facts {
		return h.Recency
	}
	return 0
}

func (a *Activation) String() string {
	return fmt.Sprintf("Activation(%s, salience=%d, recency=%d)", a.Rule.Name, a.Salience(), a.Recency)
}

// Rule is a compiled production: the patterns it matches against, the
// action to run when it fires, its priority, and which agenda group it
// belongs to.
type Rule struct {
	Name        string
	Patterns    []Pattern
	Action      RuleAction
	Priority    Priority
	AgendaGroup string
	AutoFocus   bool
}

func (r *Rule) String() string {
	return fmt.Sprintf("Rule(%s, patterns=%d, priority=%d, group=%q)", r.Name, len(r.Patterns), r.Priority, r.AgendaGroup)
}

// RuleBuilder assembles a Rule fluently:
//
//	rule, err := core.NewRule("my-rule").
//	    When(pattern).
//	    Then(action).
//	    WithPriority(5).
//	    Build()
type RuleBuilder struct {
	rule *Rule
}

// NewRule starts building a rule named name, defaulting its agenda group
// to "main" as the Agenda itself does for its default group.
func NewRule(name string) *RuleBuilder {
	return &RuleBuilder{rule: &Rule{Name: name, AgendaGroup: "main"}}
}

// When appends one or more patterns this rule matches against. Each
// pattern compiles into its own independent chain (see flow.go); calling
// When more than once, or with more than one pattern, is how a rule
// declares multiple conditions.
func (b *RuleBuilder) When(patterns ...Pattern) *RuleBuilder {
	b.rule.Patterns = append(b.rule.Patterns, patterns...)
	return b
}

// Then sets the action run when the rule fires.
func (b *RuleBuilder) Then(action RuleAction) *RuleBuilder {
	b.rule.Action = action
	return b
}

// WithPriority sets the rule's salience. Default is 0.
func (b *RuleBuilder) WithPriority(p Priority) *RuleBuilder {
	b.rule.Priority = p
	return b
}

// InAgendaGroup assigns the rule to a named agenda group instead of the
// default "main" group.
func (b *RuleBuilder) InAgendaGroup(name string) *RuleBuilder {
	b.rule.AgendaGroup = name
	return b
}

// WithAutoFocus marks the rule's agenda group to receive focus
// automatically the moment this rule's activation is created.
func (b *RuleBuilder) WithAutoFocus(auto bool) *RuleBuilder {
	b.rule.AutoFocus = auto
	return b
}

// Build validates and returns the assembled rule.
func (b *RuleBuilder) Build() (*Rule, error) {
	if b.rule.Action == nil {
		return nil, newError("RuleBuilder.Build", KindCompilation, fmt.Errorf("rule %q has no action", b.rule.Name))
	}
	if len(b.rule.Patterns) == 0 {
		return nil, newError("RuleBuilder.Build", KindCompilation, fmt.Errorf("rule %q has no patterns", b.rule.Name))
	}
	return b.rule, nil
}
