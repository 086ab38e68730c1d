// Package demoflows builds the three bundled example flows that cmd/nools
// runs.
package demoflows

import (
	"fmt"
	"io"

	"github.com/liliang-cn/nools/pkg/core"
)

// Greeting is the single fact type the hello-world flow matches against.
type Greeting struct {
	Name string
}

// RunHelloWorld asserts one Greeting fact and fires the one rule that
// matches it, the engine's simplest possible end-to-end exercise.
func RunHelloWorld(out io.Writer) error {
	flow := core.NewFlow("hello-world")
	_, err := flow.Rule("greet").
		When(core.NewObjectPattern[Greeting]("g").Filter("has name", func(g Greeting) bool {
			return g.Name != ""
		})).
		Then(func(s *core.Session, m *core.Match) error {
			g := m.Facts["g"].Value.(Greeting)
			fmt.Fprintf(out, "hello, %s!\n", g.Name)
			return nil
		}).
		Build()
	if err != nil {
		return err
	}

	session, err := flow.NewSession()
	if err != nil {
		return err
	}
	defer session.Dispose()

	if _, err := session.Assert(Greeting{Name: "world"}); err != nil {
		return err
	}
	_, err = session.MatchRules()
	return err
}

// Element is one term of the sequence the fibonacci flow builds up.
type Element struct {
	Index int
	Value int
}

// RunFibonacci builds the first n Fibonacci numbers by having a single
// rule repeatedly retract-and-reassert the running pair of terms it
// tracks in its own closure. This, rather than a cross-pattern join, is
// how the engine expresses "look at the previous two terms": joining two
// independently-matched patterns is explicitly out of scope for this
// engine (see the design notes on multi-pattern rules), so the rule
// carries the running state itself instead of reconstructing it from
// working memory on every firing.
func RunFibonacci(out io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	flow := core.NewFlow("fibonacci")
	prev, curr := 0, 1

	_, err := flow.Rule("advance").
		When(core.NewObjectPattern[Element]("e").Filter("below limit", func(e Element) bool {
			return e.Index < n
		})).
		Then(func(s *core.Session, m *core.Match) error {
			handle := m.Facts["e"]
			e := handle.Value.(Element)
			fmt.Fprintf(out, "fib(%d) = %d\n", e.Index, e.Value)

			next := curr
			prev, curr = curr, prev+curr
			if _, err := s.Modify(handle.ID, Element{Index: e.Index + 1, Value: next}); err != nil {
				return err
			}
			return nil
		}).
		Build()
	if err != nil {
		return err
	}

	session, err := flow.NewSession()
	if err != nil {
		return err
	}
	defer session.Dispose()

	if _, err := session.Assert(Element{Index: 0, Value: 0}); err != nil {
		return err
	}
	_, err = session.MatchRules()
	return err
}

// StateChange is asserted to drive the state machine from one named state
// to the next.
type StateChange struct {
	To string
}

// RunStateMachine walks A -> B -> C -> D using one rule per transition,
// each in its own agenda group with auto-focus, so firing a transition
// hands focus straight to the group that handles the next one. This
// ports the reference engine's canonical agenda-group demo.
func RunStateMachine(out io.Writer) error {
	flow := core.NewFlow("state-machine")
	transition := func(name, from, to, nextGroup string) error {
		_, err := flow.Rule(name).
			When(core.NewObjectPattern[StateChange]("s").Filter("at "+from, func(sc StateChange) bool {
				return sc.To == from
			})).
			InAgendaGroup(from + " to " + to).
			WithAutoFocus(true).
			Then(func(s *core.Session, m *core.Match) error {
				fmt.Fprintf(out, "%s -> %s\n", from, to)
				if nextGroup != "" {
					s.Focus(nextGroup)
				}
				if _, err := s.Assert(StateChange{To: to}); err != nil {
					return err
				}
				return nil
			}).
			Build()
		return err
	}

	if err := transition("a-to-b", "A", "B", "B to C"); err != nil {
		return err
	}
	if err := transition("b-to-c", "B", "C", "C to D"); err != nil {
		return err
	}
	if err := transition("c-to-d", "C", "D", ""); err != nil {
		return err
	}

	session, err := flow.NewSession()
	if err != nil {
		return err
	}
	defer session.Dispose()

	if _, err := session.Assert(StateChange{To: "A"}); err != nil {
		return err
	}
	_, err = session.MatchRules()
	return err
}
