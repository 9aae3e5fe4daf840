package types

import (
	"errors"
	"testing"
)

func TestValidateModifiersAcceptsLegal(t *testing.T) {
	if err := ValidateModifiers(Public|Final, MethodModifiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateModifiers(Private|Static, FieldModifiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateModifiersRejectsOutOfMask(t *testing.T) {
	err := ValidateModifiers(Abstract, FieldModifiers)
	var ill *IllegalModifierError
	if !errors.As(err, &ill) {
		t.Fatalf("expected IllegalModifierError, got %v", err)
	}
}

func TestValidateModifiersRejectsContradictions(t *testing.T) {
	for _, mods := range []Modifier{Public | Private, Abstract | Final} {
		if err := ValidateModifiers(mods, MethodModifiers); err == nil {
			t.Fatalf("%s should be rejected", mods)
		}
	}
}
