package core

import "testing"

func TestFlowRejectsDuplicateRuleNames(t *testing.T) {
	flow := NewFlow("dup")
	rule, err := NewRule("r").When(NewObjectPattern[widget]("w")).Then(func(s *Session, m *Match) error { return nil }).Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err == nil {
		t.Fatal("expected second AddRule with the same name to fail")
	}
}

func TestRuleBuilderRequiresActionAndPattern(t *testing.T) {
	if _, err := NewRule("no-action").When(NewObjectPattern[widget]("w")).Build(); err == nil {
		t.Fatal("expected Build to fail without an action")
	}
	if _, err := NewRule("no-pattern").Then(func(s *Session, m *Match) error { return nil }).Build(); err == nil {
		t.Fatal("expected Build to fail without a pattern")
	}
}

func TestFlowFiresWhenAbsenceRulePreExists(t *testing.T) {
	flow := NewFlow("absence")
	fired := 0
	rule, err := NewRule("no-widgets").
		When(NewNotPattern("absent", NewObjectPattern[widget]("w"))).
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

	n, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || fired != 1 {
		t.Fatalf("expected the NOT rule to fire once against empty working memory, fired=%d n=%d", fired, n)
	}
}

func TestFlowWithdrawsAbsenceActivationOnceFactArrives(t *testing.T) {
	flow := NewFlow("absence-then-present")
	fired := 0
	rule, err := NewRule("no-widgets").
		When(NewNotPattern("absent", NewObjectPattern[widget]("w"))).
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

	if _, err := session.Assert(widget{id: 1}); err != nil {
		t.Fatal(err)
	}

	n, err := session.MatchRules()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || fired != 0 {
		t.Fatalf("expected the NOT rule's seeded activation to be withdrawn once a widget exists, fired=%d n=%d", fired, n)
	}
}

func TestFlowWithConfigAppliesStrategiesLoggerAndGroups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategies = []ConflictResolution{FactRecency}
	cfg.InitialAgendaGroups = []string{"prewarmed"}
	logger := NewStdLogger(LevelError)
	cfg.Logger = logger

	flow := NewFlow("configured", WithConfig(cfg))
	if len(flow.Strategies) != 1 || flow.Strategies[0] != FactRecency {
		t.Fatalf("expected WithConfig to override strategies, got %v", flow.Strategies)
	}
	if flow.Logger != logger {
		t.Fatal("expected WithConfig to set the logger")
	}
	if len(flow.InitialAgendaGroups) != 1 || flow.InitialAgendaGroups[0] != "prewarmed" {
		t.Fatalf("expected WithConfig to set initial agenda groups, got %v", flow.InitialAgendaGroups)
	}

	session, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Dispose()

	// Focusing a group that was pre-created by InitialAgendaGroups must not
	// panic or silently no-op even though nothing has inserted into it yet.
	session.Focus("prewarmed")
	if !session.IsEmpty() {
		t.Fatal("expected a session with only an empty prewarmed group focused to report empty")
	}
}

func TestEachSessionGetsAnIndependentNetwork(t *testing.T) {
	flow := NewFlow("isolation")
	fired := 0
	rule, err := NewRule("r").
		When(NewExistsPattern("any", NewObjectPattern[widget]("w"))).
		Then(func(s *Session, m *Match) error { fired++; return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.AddRule(rule); err != nil {
		t.Fatal(err)
	}

	s1, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Dispose()
	if _, err := s1.Assert(widget{id: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s1.MatchRules(); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected session 1's EXISTS rule to fire once, got %d", fired)
	}

	s2, err := flow.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Dispose()
	if _, err := s2.MatchRules(); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected session 2 to start with an empty network unaffected by session 1, got fired=%d", fired)
	}
}
