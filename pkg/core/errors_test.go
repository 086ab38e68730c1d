package core

import (
	"errors"
	"testing"
)

func TestErrorIsMatchesKindSentinel(t *testing.T) {
	err := newError("Flow.AddRule", KindCompilation, errors.New("duplicate rule"))
	if !errors.Is(err, ErrCompilation) {
		t.Fatal("expected error to match its kind's sentinel")
	}
	if errors.Is(err, ErrFactNotFound) {
		t.Fatal("expected error not to match an unrelated sentinel")
	}
}

func TestErrorUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := newError("op", KindExecution, cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
}
