package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationf(t *testing.T) {
	err := Validationf(PertOrder, "execution", "phase %s: O <= M <= P violated", "execution")

	if err.Kind != KindValidation {
		t.Errorf("expected KindValidation, got %v", err.Kind)
	}
	if err.Code != PertOrder {
		t.Errorf("expected code %s, got %s", PertOrder, err.Code)
	}
	if err.Field != "execution" {
		t.Errorf("expected field execution, got %s", err.Field)
	}
	if err.Error() != "phase execution: O <= M <= P violated" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestCodeOf_WrappedError(t *testing.T) {
	inner := Conflictf(InvalidTransition, "status", "Backlog -> Concluída")
	wrapped := fmt.Errorf("transitioning task: %w", inner)

	if got := CodeOf(wrapped); got != InvalidTransition {
		t.Errorf("expected code through wrapping, got %q", got)
	}
	if !HasCode(wrapped, InvalidTransition) {
		t.Error("HasCode should match through wrapping")
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Errorf("expected empty code for plain error, got %q", got)
	}
	if HasCode(nil, InvalidTransition) {
		t.Error("HasCode(nil) should be false")
	}
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("id", "sprint %s not found", "SPR-001")
	if err.Kind != KindNotFound || err.Code != NotFound {
		t.Errorf("unexpected kind/code: %v/%s", err.Kind, err.Code)
	}
}
