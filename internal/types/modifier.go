package types

import (
	"fmt"
	"strings"
)

// Modifier is a bitmask of member and type modifiers.
type Modifier uint16

const (
	Public Modifier = 1 << iota
	Private
	Static
	Final
	Abstract
	Synthetic
)

// Legality masks per declaration kind.
const (
	TypeModifiers   = Public | Private | Final | Abstract | Synthetic
	FieldModifiers  = Public | Private | Static | Final | Synthetic
	MethodModifiers = Public | Private | Static | Final | Abstract | Synthetic
)

var modifierNames = []struct {
	bit  Modifier
	name string
}{
	{Public, "public"},
	{Private, "private"},
	{Static, "static"},
	{Final, "final"},
	{Abstract, "abstract"},
	{Synthetic, "synthetic"},
}

func (m Modifier) Has(bit Modifier) bool { return m&bit != 0 }

func (m Modifier) String() string {
	if m == 0 {
		return "none"
	}
	parts := make([]string, 0, len(modifierNames))
	for _, mn := range modifierNames {
		if m.Has(mn.bit) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// IllegalModifierError reports a modifier combination rejected at the call
// that introduced it.
type IllegalModifierError struct {
	Mods Modifier
	Mask Modifier
}

func (e *IllegalModifierError) Error() string {
	return fmt.Sprintf("illegal modifiers %s (allowed: %s)", e.Mods, e.Mask)
}

// ValidateModifiers checks mods against the legality mask for its declaration
// kind. Synthetic is always tolerated, mirroring emitted helper members.
func ValidateModifiers(mods, mask Modifier) error {
	if mods&^(mask|Synthetic) != 0 {
		return &IllegalModifierError{Mods: mods, Mask: mask}
	}
	if mods.Has(Public) && mods.Has(Private) {
		return &IllegalModifierError{Mods: mods, Mask: mask}
	}
	if mods.Has(Abstract) && mods.Has(Final) {
		return &IllegalModifierError{Mods: mods, Mask: mask}
	}
	return nil
}
