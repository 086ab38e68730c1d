// Package nools provides an embeddable forward-chaining production-rule
// engine for Go.
//
// nools compiles a set of rules, each guarded by one or more patterns
// over plain Go values, into a discrimination network. Asserting a fact
// into a session runs it through that network and queues an activation
// for every rule it satisfies; draining the session's agenda fires those
// activations in priority order until none are left.
//
// # Key Features
//
//   - Type-safe patterns over any Go value via generics, no interface to
//     implement on your own fact types.
//   - NOT/EXISTS conditions implemented as true counting gates, not a
//     pointwise negation of a single fact's match.
//   - Agenda groups with a focus stack, so a rule's action can redirect
//     which group of rules fires next.
//   - Configurable conflict resolution: salience, activation recency,
//     fact recency, composed as a priority tuple.
//
// # Quick Start
//
//	import (
//	    "fmt"
//	    "github.com/liliang-cn/nools"
//	    "github.com/liliang-cn/nools/pkg/core"
//	)
//
//	type Greeting struct{ Name string }
//
//	func main() {
//	    flow := nools.NewFlow("greetings")
//	    flow.Rule("say-hello").
//	        When(core.NewObjectPattern[Greeting]("g")).
//	        Then(func(s *core.Session, m *core.Match) error {
//	            fmt.Println("hello,", m.Facts["g"].Value.(Greeting).Name)
//	            return nil
//	        }).
//	        Build()
//
//	    session, _ := flow.NewSession()
//	    defer session.Dispose()
//	    session.Assert(Greeting{Name: "world"})
//	    fired, _ := session.MatchRules()
//	    fmt.Println(fired, "rules fired")
//	}
//
// # Agenda Groups
//
// A rule can declare an agenda group and ask for auto-focus; its action
// can then hand focus to another group to drive a workflow forward:
//
//	flow.Rule("advance").
//	    When(pattern).
//	    InAgendaGroup("next-step").
//	    WithAutoFocus(true).
//	    Then(func(s *core.Session, m *core.Match) error {
//	        s.Focus("cleanup")
//	        return nil
//	    }).
//	    Build()
//
// # Observability
//
// Sessions log through the core.Logger interface; pass one in with
// nools.WithLogger when building a Flow to see fact lifecycle and rule
// firing events.
//
// For a runnable program, see cmd/nools, which runs the bundled
// hello-world, fibonacci and state-machine flows.
package nools
