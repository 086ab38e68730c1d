package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Flow is a compiled collection of rules. It is the unit of reuse: build
// a Flow once, then open as many independent Sessions against it as you
// like. Each Session gets its own working memory and its own copy of the
// discrimination network built from the Flow's rules, so sessions never
// share node state (the reference engine shares one mutable network
// across sessions of the same flow; this implementation gives each
// session an isolated one instead, since a shared GateNode's match count
// would otherwise mix facts from unrelated sessions — see DESIGN.md).
type Flow struct {
	ID                  string
	Name                string
	Strategies          []ConflictResolution
	Logger              Logger
	InitialAgendaGroups []string

	rules     map[string]*Rule
	ruleOrder []string
}

// Config groups the settings a Flow can be built with: its
// conflict-resolution strategy tuple, its logger, and the agenda groups
// that should exist (focusable, even while empty) before any rule ever
// queues an activation into them.
type Config struct {
	Strategies          []ConflictResolution
	Logger              Logger
	InitialAgendaGroups []string
}

// DefaultConfig returns the configuration NewFlow builds a Flow with
// when given no options at all: the default conflict-resolution tuple,
// a no-op logger, and no agenda groups beyond the always-present "main".
func DefaultConfig() Config {
	return Config{
		Strategies: DefaultStrategies(),
		Logger:     NopLogger(),
	}
}

// FlowOption configures a Flow at construction time.
type FlowOption func(*Flow)

// WithLogger overrides the Flow's logger, defaulting to NopLogger.
func WithLogger(l Logger) FlowOption {
	return func(f *Flow) { f.Logger = l }
}

// WithStrategies overrides the Flow's conflict-resolution tuple,
// defaulting to DefaultStrategies().
func WithStrategies(strategies ...ConflictResolution) FlowOption {
	return func(f *Flow) { f.Strategies = strategies }
}

// WithConfig applies every field of cfg to the Flow in one call, for
// callers that build up a Config value (e.g. from DefaultConfig()) ahead
// of time rather than passing individual options.
func WithConfig(cfg Config) FlowOption {
	return func(f *Flow) {
		if cfg.Strategies != nil {
			f.Strategies = cfg.Strategies
		}
		if cfg.Logger != nil {
			f.Logger = cfg.Logger
		}
		if cfg.InitialAgendaGroups != nil {
			f.InitialAgendaGroups = cfg.InitialAgendaGroups
		}
	}
}

// NewFlow creates an empty, named Flow. With no options it is built from
// DefaultConfig(); pass WithConfig, or the individual With* options, to
// override specific settings.
func NewFlow(name string, opts ...FlowOption) *Flow {
	cfg := DefaultConfig()
	f := &Flow{
		ID:                  uuid.New().String(),
		Name:                name,
		Strategies:          cfg.Strategies,
		Logger:              cfg.Logger,
		InitialAgendaGroups: cfg.InitialAgendaGroups,
		rules:               make(map[string]*Rule),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddRule registers an already-built Rule. Rule names must be unique
// within a Flow.
func (f *Flow) AddRule(rule *Rule) error {
	if _, exists := f.rules[rule.Name]; exists {
		return newError("Flow.AddRule", KindCompilation, fmt.Errorf("rule %q already registered", rule.Name))
	}
	f.rules[rule.Name] = rule
	f.ruleOrder = append(f.ruleOrder, rule.Name)
	f.Logger.Debug("rule registered", "flow", f.Name, "rule", rule.Name, "priority", rule.Priority, "group", rule.AgendaGroup)
	return nil
}

// Rule starts a fluent rule builder that registers itself on the Flow
// when Build is called, so callers can write:
//
//	flow.Rule("my-rule").When(pattern).Then(action).Build()
func (f *Flow) Rule(name string) *FlowRuleBuilder {
	return &FlowRuleBuilder{flow: f, builder: NewRule(name)}
}

// FlowRuleBuilder is RuleBuilder with its Build() wired to also register
// the finished rule on the owning Flow, ported from the reference
// engine's FlowRuleBuilder convenience wrapper.
type FlowRuleBuilder struct {
	flow    *Flow
	builder *RuleBuilder
}

func (b *FlowRuleBuilder) When(patterns ...Pattern) *FlowRuleBuilder {
	b.builder.When(patterns...)
	return b
}

func (b *FlowRuleBuilder) Then(action RuleAction) *FlowRuleBuilder {
	b.builder.Then(action)
	return b
}

func (b *FlowRuleBuilder) WithPriority(p Priority) *FlowRuleBuilder {
	b.builder.WithPriority(p)
	return b
}

func (b *FlowRuleBuilder) InAgendaGroup(name string) *FlowRuleBuilder {
	b.builder.InAgendaGroup(name)
	return b
}

func (b *FlowRuleBuilder) WithAutoFocus(auto bool) *FlowRuleBuilder {
	b.builder.WithAutoFocus(auto)
	return b
}

// Build finishes the rule and registers it on the owning Flow.
func (b *FlowRuleBuilder) Build() (*Rule, error) {
	rule, err := b.builder.Build()
	if err != nil {
		return nil, err
	}
	if err := b.flow.AddRule(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// compileRule attaches one chain per pattern in rule to root. NOT/EXISTS
// patterns compile to a GateNode over their wrapped pattern; every other
// pattern compiles to a plain AlphaNode. Either way the chain ends in a
// TerminalNode bound to that specific pattern's own alias.
func compileRule(root *RootNode, rule *Rule) {
	for _, pattern := range rule.Patterns {
		node := compileChain(rule, pattern)
		root.AddChild(pattern.FactType(), node)
	}
}

func compileChain(rule *Rule, pattern Pattern) Node {
	term := NewTerminalNode(rule, pattern.Alias())
	switch p := pattern.(type) {
	case *NotPattern:
		gate := NewGateNode(GateNot, p.wrapped)
		gate.AddChild(term)
		return gate
	case *ExistsPattern:
		gate := NewGateNode(GateExists, p.wrapped)
		gate.AddChild(term)
		return gate
	default:
		alpha := NewAlphaNode(pattern)
		alpha.AddChild(term)
		return alpha
	}
}

// buildNetwork compiles every registered rule into a fresh RootNode and
// seeds any gate chains it contains, returning both the network and the
// activations the seeding produced (for rules like a bare NOT pattern
// that's satisfied before any fact is ever asserted).
func (f *Flow) buildNetwork() (*RootNode, []*Activation, error) {
	root := NewRootNode()
	for _, name := range f.ruleOrder {
		compileRule(root, f.rules[name])
	}
	seeded, err := root.Seed()
	if err != nil {
		return nil, nil, newError("Flow.buildNetwork", KindCompilation, err)
	}
	return root, seeded, nil
}

// NewSession builds a fresh, independent Session against this Flow's
// compiled rules.
func (f *Flow) NewSession() (*Session, error) {
	root, seeded, err := f.buildNetwork()
	if err != nil {
		return nil, err
	}
	agenda := NewAgenda(f.Strategies)
	for _, group := range f.InitialAgendaGroups {
		agenda.ensureGroup(group)
	}
	s := &Session{
		ID:     uuid.New().String(),
		Flow:   f,
		wm:     NewWorkingMemory(),
		agenda: agenda,
		root:   root,
		logger: f.Logger.With("flow", f.Name),
	}
	for _, act := range seeded {
		s.agenda.Insert(act)
	}
	s.logger.Debug("session started", "session", s.ID, "seeded_activations", len(seeded))
	return s, nil
}
