package core

import (
	"fmt"
	"reflect"
)

// Session is one independent run of a Flow: its own working memory, its
// own copy of the discrimination network, its own agenda. Call Dispose
// when done; it is safe to call more than once.
type Session struct {
	ID   string
	Flow *Flow

	wm       *WorkingMemory
	agenda   *Agenda
	root     *RootNode
	logger   Logger
	halted   bool
	disposed bool
}

// Assert inserts value into working memory and propagates it through the
// network, queuing whatever activations result.
func (s *Session) Assert(value any) (*FactHandle, error) {
	if s.disposed {
		return nil, newError("Session.Assert", KindExecution, fmt.Errorf("session disposed"))
	}
	handle := s.wm.Assert(value)
	acts, err := s.root.Assert(handle)
	if err != nil {
		return nil, newError("Session.Assert", KindPatternMatch, err)
	}
	for _, act := range acts {
		s.agenda.Insert(act)
	}
	s.logger.Debug("fact asserted", "id", handle.ID, "type", handle.Type, "activations", len(acts))
	return handle, nil
}

// Retract removes a fact by id. It is not an error to retract an id that
// is already gone.
func (s *Session) Retract(id FactId) error {
	if s.disposed {
		return newError("Session.Retract", KindExecution, fmt.Errorf("session disposed"))
	}
	handle, ok := s.wm.Retract(id)
	if !ok {
		return nil
	}
	if _, err := s.root.Retract(handle); err != nil {
		return newError("Session.Retract", KindPatternMatch, err)
	}
	s.logger.Debug("fact retracted", "id", id)
	return nil
}

// Modify replaces the fact at id with value under the same FactId and a
// new recency, runs a retract of the old handle and an assert of the new
// one through the network, and returns the new handle. Matching the
// reference engine, a modify is never an in-place mutation: any activation
// already queued against the old handle is invalidated (the agenda
// discards it at pop time, since working memory now holds a different
// handle for that id).
func (s *Session) Modify(id FactId, value any) (*FactHandle, error) {
	if s.disposed {
		return nil, newError("Session.Modify", KindExecution, fmt.Errorf("session disposed"))
	}
	old, ok := s.wm.Get(id)
	if !ok {
		return nil, newError("Session.Modify", KindFactNotFound, fmt.Errorf("fact %s not found", id))
	}
	_, fresh, _ := s.wm.Modify(id, value)
	acts, err := modify(s.root, old, fresh)
	if err != nil {
		return nil, newError("Session.Modify", KindPatternMatch, err)
	}
	for _, act := range acts {
		s.agenda.Insert(act)
	}
	s.logger.Debug("fact modified", "old_id", id, "new_id", fresh.ID)
	return fresh, nil
}

// Focus moves the named agenda group to the top of the focus stack.
func (s *Session) Focus(group string) {
	s.agenda.Focus(group)
	s.logger.Debug("agenda focus changed", "group", group)
}

// GetFact returns the handle for id, if it is still asserted.
func (s *Session) GetFact(id FactId) (*FactHandle, bool) {
	return s.wm.Get(id)
}

// Halt stops MatchRules/MatchUntilHalt on their next loop check, even if
// the agenda still has activations left.
func (s *Session) Halt() {
	s.halted = true
}

// IsHalted reports whether Halt has been called on this session.
func (s *Session) IsHalted() bool {
	return s.halted
}

// IsEmpty reports whether the focused agenda group, and every group
// beneath it on the focus stack, has no live activation left to fire.
func (s *Session) IsEmpty() bool {
	return s.agenda.IsEmpty(s.wm)
}

// FactsByType returns every currently-asserted fact whose Go type
// matches T's.
func FactsByType[T any](s *Session) []*FactHandle {
	var zero T
	return s.wm.ByType(reflect.TypeOf(zero))
}

// MatchRules drains the agenda, firing the highest-priority activation in
// the focused group each iteration, until the agenda is empty or Halt has
// been called. It returns the number of rules fired.
func (s *Session) MatchRules() (int, error) {
	if s.disposed {
		return 0, newError("Session.MatchRules", KindExecution, fmt.Errorf("session disposed"))
	}
	fired := 0
	for !s.IsHalted() && !s.IsEmpty() {
		act := s.agenda.Pop(s.wm)
		if act == nil {
			break
		}
		s.logger.Info("firing rule", "rule", act.Rule.Name, "salience", act.Salience())
		if err := act.Rule.Action(s, act.Match); err != nil {
			return fired, newError("Session.MatchRules", KindExecution, fmt.Errorf("rule %q: %w", act.Rule.Name, err))
		}
		fired++
	}
	return fired, nil
}

// MatchUntilHalt is behaviorally identical to MatchRules: it drains to
// quiescence or Halt. The reference engine documents the same identity
// for its blocking variant; there is no external fact-arrival signal in
// this engine for a distinct blocking wait to listen for.
func (s *Session) MatchUntilHalt() (int, error) {
	return s.MatchRules()
}

// FactCount returns the number of facts currently asserted.
func (s *Session) FactCount() int {
	return s.wm.Len()
}

// Dispose releases the session. It is idempotent.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.logger.Debug("session disposed", "session", s.ID)
}
