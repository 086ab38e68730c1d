package nools

import "github.com/liliang-cn/nools/pkg/core"

// Flow, Rule, Session, and friends live in pkg/core; this package
// re-exports the names most callers need so `import "github.com/liliang-cn/nools"`
// alone is usually enough, while pkg/core stays importable directly for
// advanced use.
type (
	Flow               = core.Flow
	FlowOption         = core.FlowOption
	Config             = core.Config
	Session            = core.Session
	Rule               = core.Rule
	RuleBuilder        = core.RuleBuilder
	RuleAction         = core.RuleAction
	Match              = core.Match
	Activation         = core.Activation
	Pattern            = core.Pattern
	Constraint         = core.Constraint
	ConstraintContext  = core.ConstraintContext
	FactHandle         = core.FactHandle
	FactId             = core.FactId
	Logger             = core.Logger
	Priority           = core.Priority
	ConflictResolution = core.ConflictResolution
	Error              = core.Error
	Kind               = core.Kind
)

var (
	NewFlow           = core.NewFlow
	NewRule           = core.NewRule
	WithLogger        = core.WithLogger
	WithStrategies    = core.WithStrategies
	WithConfig        = core.WithConfig
	DefaultConfig     = core.DefaultConfig
	NewStdLogger      = core.NewStdLogger
	NopLogger         = core.NopLogger
	And               = core.And
	Or                = core.Or
	Not               = core.Not
	DefaultStrategies = core.DefaultStrategies
)

const (
	LevelDebug = core.LevelDebug
	LevelInfo  = core.LevelInfo
	LevelWarn  = core.LevelWarn
	LevelError = core.LevelError

	KindCompilation         = core.KindCompilation
	KindExecution           = core.KindExecution
	KindPatternMatch        = core.KindPatternMatch
	KindFactNotFound        = core.KindFactNotFound
	KindRuleNotFound        = core.KindRuleNotFound
	KindInvalidConstraint   = core.KindInvalidConstraint
	KindAgendaGroupNotFound = core.KindAgendaGroupNotFound

	SalienceStrategy          = core.Salience
	ActivationRecencyStrategy = core.ActivationRecency
	FactRecencyStrategy       = core.FactRecency
)

// NewObjectPattern declares a pattern over facts of type T, forwarding to
// core.NewObjectPattern. It is kept as a free function rather than a type
// alias because core.ObjectPattern is itself generic.
func NewObjectPattern[T any](alias string) *core.ObjectPattern[T] {
	return core.NewObjectPattern[T](alias)
}

// NewNotPattern negates wrapped: the rule fires only while no fact
// satisfies it.
func NewNotPattern(alias string, wrapped Pattern) *core.NotPattern {
	return core.NewNotPattern(alias, wrapped)
}

// NewExistsPattern fires while at least one fact satisfies wrapped.
func NewExistsPattern(alias string, wrapped Pattern) *core.ExistsPattern {
	return core.NewExistsPattern(alias, wrapped)
}

// FactsByType returns every fact of type T currently asserted in s.
func FactsByType[T any](s *Session) []*FactHandle {
	return core.FactsByType[T](s)
}
