// Package project reads weave.toml manifests: a described-type universe plus
// a weave plan that drives one materialization.
package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUniverseSectionMissing indicates that [universe] is missing in a manifest.
	ErrUniverseSectionMissing = errors.New("missing [universe]")
	// ErrWeaveSectionMissing indicates that [weave] is missing in a manifest.
	ErrWeaveSectionMissing = errors.New("missing [weave]")
)

// MethodDecl describes one method of a described type. A method with a Value
// carries a constant body; without one it is abstract.
type MethodDecl struct {
	Name    string   `toml:"name"`
	Returns string   `toml:"returns"`
	Params  []string `toml:"params"`
	Value   any      `toml:"value"`
	HasBody bool     `toml:"-"`
}

// FieldDecl describes one field of a described type.
type FieldDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// TypeDecl describes one universe entry.
type TypeDecl struct {
	Name       string       `toml:"name"`
	Kind       string       `toml:"kind"`
	Super      string       `toml:"super"`
	Interfaces []string     `toml:"interfaces"`
	Fields     []FieldDecl  `toml:"fields"`
	Methods    []MethodDecl `toml:"methods"`
}

// Intercept describes one behavior binding of the weave plan.
type Intercept struct {
	Method string `toml:"method"`
	Kind   string `toml:"kind"` // fixed, stub or script
	Value  any    `toml:"value"`
	Script string `toml:"script"`
}

// WeavePlan describes the single materialization a manifest drives.
type WeavePlan struct {
	Base       string      `toml:"base"`
	Mode       string      `toml:"mode"` // subclass or rebase
	Name       string      `toml:"name"`
	Implement  []string    `toml:"implement"`
	Output     string      `toml:"output"`
	Intercepts []Intercept `toml:"intercepts"`
}

// Manifest is a parsed weave.toml.
type Manifest struct {
	Universe struct {
		Types []TypeDecl `toml:"types"`
	} `toml:"universe"`
	Weave WeavePlan `toml:"weave"`
}

// LoadManifest parses a weave.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("universe") {
		return nil, fmt.Errorf("%s: %w", path, ErrUniverseSectionMissing)
	}
	if !meta.IsDefined("weave") {
		return nil, fmt.Errorf("%s: %w", path, ErrWeaveSectionMissing)
	}
	for ti := range m.Universe.Types {
		t := &m.Universe.Types[ti]
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%s: universe type %d missing name", path, ti)
		}
		for mi := range t.Methods {
			t.Methods[mi].HasBody = t.Methods[mi].Value != nil
		}
	}
	if strings.TrimSpace(m.Weave.Base) == "" {
		return nil, fmt.Errorf("%s: [weave].base is required", path)
	}
	switch m.Weave.Mode {
	case "", "subclass", "rebase":
	default:
		return nil, fmt.Errorf("%s: [weave].mode %q is not subclass or rebase", path, m.Weave.Mode)
	}
	if m.Weave.Output == "" {
		m.Weave.Output = "artifacts"
	}
	return &m, nil
}
