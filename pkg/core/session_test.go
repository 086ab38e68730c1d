package core

import "testing"

type message struct {
	text  string
	count int
}

func TestSessionBasicRuleExecution(t *testing.T) {
	flow := NewFlow("test")
	rule, err := NewRule("increment").
		When(NewObjectPattern[message]("m").Filter("count < 5", func(m message) bool { return m.count < 5 })).
		Then(func(s *Session, m *Match) error {
			msg := m.Facts["m"].Value.(message)
			if msg.count >= 5 {
				t.Fatalf("expected count < 5, got %d", msg.count)
			}
			return nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if _, err := session.Assert(message{text: "test", count: 3}); err != nil {
		t.Fatal(err)
	}

	fired, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected 1 rule fired, got %d", fired)
	}
}

func TestSessionMultipleRulesPriority(t *testing.T) {
	flow := NewFlow("priority_test")
	var order []string

	record := func(name string) RuleAction {
		return func(s *Session, m *Match) error {
			order = append(order, name)
			return nil
		}
	}

	high, err := NewRule("high").When(NewObjectPattern[message]("m")).Then(record("high")).WithPriority(10).Build()
	if err != nil {
		t.Fatal(err)
	}
	low, err := NewRule("low").When(NewObjectPattern[message]("m")).Then(record("low")).WithPriority(1).Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(high); err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(low); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if _, err := session.Assert(message{text: "test"}); err != nil {
		t.Fatal(err)
	}

	fired, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if fired != 2 {
		t.Fatalf("expected 2 rules fired, got %d", fired)
	}
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("expected high before low, got %v", order)
	}
}

func TestSessionFactRetraction(t *testing.T) {
	flow := NewFlow("retraction_test")
	rule, err := NewRule("test_rule").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	handle, err := session.Assert(message{text: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if session.FactCount() != 1 {
		t.Fatalf("expected 1 fact, got %d", session.FactCount())
	}

	if err := session.Retract(handle.ID); err != nil {
		t.Fatal(err)
	}
	if session.FactCount() != 0 {
		t.Fatalf("expected 0 facts, got %d", session.FactCount())
	}
}

func TestSessionRetractionInvalidatesQueuedActivation(t *testing.T) {
	flow := NewFlow("retraction_invalidation")
	fired := 0
	rule, err := NewRule("r").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { fired++; return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	handle, err := session.Assert(message{text: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Retract(handle.ID); err != nil {
		t.Fatal(err)
	}

	n, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || fired != 0 {
		t.Fatalf("expected retracted fact's activation to never fire, fired=%d n=%d", fired, n)
	}
}

func TestSessionAgendaGroups(t *testing.T) {
	flow := NewFlow("agenda_test")
	var fired []string

	mainRule, err := NewRule("main_rule").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { fired = append(fired, "main"); return nil }).
		InAgendaGroup("main").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	otherRule, err := NewRule("other_rule").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { fired = append(fired, "other"); return nil }).
		InAgendaGroup("other").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(mainRule); err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(otherRule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if _, err := session.Assert(message{text: "test"}); err != nil {
		t.Fatal(err)
	}

	// Without focusing "other", only the main group fires.
	n, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || len(fired) != 1 || fired[0] != "main" {
		t.Fatalf("expected only main group to fire, got %v", fired)
	}

	session.Focus("other")
	n, err = session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || len(fired) != 2 || fired[1] != "other" {
		t.Fatalf("expected other group to fire after focus, got %v", fired)
	}
}

func TestSessionPatternFiltering(t *testing.T) {
	flow := NewFlow("filter_test")
	rule, err := NewRule("filter_rule").
		When(NewObjectPattern[message]("m").Filter("text length > 5", func(m message) bool { return len(m.text) > 5 })).
		Then(func(s *Session, m *Match) error { return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if _, err := session.Assert(message{text: "hi"}); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Assert(message{text: "hello world"}); err != nil {
		t.Fatal(err)
	}

	fired, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected 1 rule fired, got %d", fired)
	}
}

func TestSessionModifyRebindsFreshHandle(t *testing.T) {
	flow := NewFlow("modify_test")
	var seen []int
	rule, err := NewRule("r").
		When(NewObjectPattern[message]("m").Filter("count < 3", func(m message) bool { return m.count < 3 })).
		Then(func(s *Session, m *Match) error {
			h := m.Facts["m"]
			msg := h.Value.(message)
			seen = append(seen, msg.count)
			if msg.count < 2 {
				_, err := s.Modify(h.ID, message{text: msg.text, count: msg.count + 1})
				return err
			}
			return nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if _, err := session.Assert(message{text: "x", count: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := session.MatchRules(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Fatalf("expected counts 0,1,2, got %v", seen)
	}
}

func TestSessionModifyInvalidatesStaleActivation(t *testing.T) {
	flow := NewFlow("modify_invalidation")
	fired := 0
	rule, err := NewRule("r").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { fired++; return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	handle, err := session.Assert(message{text: "x", count: 0})
	if err != nil {
		t.Fatal(err)
	}
	// Modify before the first activation ever fires: the agenda now holds
	// both the stale activation (bound to the pre-modify handle) and the
	// fresh one queued by the modify. Modify preserves handle.ID, so the
	// stale activation can't be told apart from the fresh one by id alone.
	if _, err := session.Modify(handle.ID, message{text: "x", count: 1}); err != nil {
		t.Fatal(err)
	}

	n, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || fired != 1 {
		t.Fatalf("expected only the fresh post-modify activation to fire, fired=%d n=%d", fired, n)
	}
}

func TestSessionGetFactHaltedAndEmpty(t *testing.T) {
	flow := NewFlow("introspection")
	rule, err := NewRule("r").
		When(NewObjectPattern[message]("m")).
		Then(func(s *Session, m *Match) error { s.Halt(); return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	if !session.IsEmpty() {
		t.Fatal("expected a freshly built session to start empty")
	}
	if session.IsHalted() {
		t.Fatal("expected a freshly built session not to be halted")
	}

	handle, err := session.Assert(message{text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := session.GetFact(handle.ID); !ok || got != handle {
		t.Fatalf("expected GetFact to return the asserted handle, got %+v ok=%v", got, ok)
	}
	if session.IsEmpty() {
		t.Fatal("expected the session to be non-empty once an activation is queued")
	}

	if _, err := session.MatchRules(); err != nil {
		t.Fatal(err)
	}
	if !session.IsHalted() {
		t.Fatal("expected Halt, called from the rule action, to mark the session halted")
	}

	if err := session.Retract(handle.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := session.GetFact(handle.ID); ok {
		t.Fatal("expected GetFact to report the retracted fact as gone")
	}
}

func TestSessionDisposeIdempotent(t *testing.T) {
	flow := NewFlow("dispose_test")
	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	session.Dispose()
	session.Dispose()

	if _, err := session.Assert(message{}); err == nil {
		t.Fatal("expected asserting into a disposed session to fail")
	}
}
