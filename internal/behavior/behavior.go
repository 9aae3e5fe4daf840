// Package behavior provides the built-in method implementations: constant
// results, stubbed defaults and interpreted snippets.
package behavior

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

// FixedValue implements every matched method by returning the same value.
// The value must survive the artifact codec, which is checked at assembly
// time rather than at first dispatch.
type FixedValue struct {
	value any
}

// Value builds a fixed-value implementation.
func Value(v any) FixedValue { return FixedValue{value: v} }

// Assemble implements dynamic.Implementation.
func (f FixedValue) Assemble(_ *dynamic.Target, source *types.Method) (dynamic.Assembled, error) {
	if _, err := msgpack.Marshal(f.value); err != nil {
		return dynamic.Invalid(), fmt.Errorf("fixed value for %s: %w", source.Sig.Name, err)
	}
	return dynamic.Assembled{
		Valid: true,
		Instr: emit.Instruction{Op: emit.OpFixed, Value: f.value},
	}, nil
}

// Stub implements every matched method by returning the zero value of its
// declared result type.
type Stub struct{}

// Assemble implements dynamic.Implementation.
func (Stub) Assemble(*dynamic.Target, *types.Method) (dynamic.Assembled, error) {
	return dynamic.Assembled{
		Valid: true,
		Instr: emit.Instruction{Op: emit.OpStub},
	}, nil
}

// Evaluated implements matched methods with an interpreted source snippet.
// The snippet must declare `func Body(args []interface{}) (interface{}, error)`;
// it is compiled when the artifact loads, so a broken snippet fails the load,
// not the dispatch.
type Evaluated struct {
	source string
}

// Eval builds an evaluated implementation from a source snippet.
func Eval(source string) Evaluated { return Evaluated{source: source} }

// Assemble implements dynamic.Implementation.
func (e Evaluated) Assemble(_ *dynamic.Target, source *types.Method) (dynamic.Assembled, error) {
	if strings.TrimSpace(e.source) == "" {
		return dynamic.Invalid(), fmt.Errorf("evaluated body for %s: empty source", source.Sig.Name)
	}
	if !strings.Contains(e.source, "func Body") {
		return dynamic.Invalid(), fmt.Errorf("evaluated body for %s: source must declare func Body", source.Sig.Name)
	}
	return dynamic.Assembled{
		Valid: true,
		Instr: emit.Instruction{Op: emit.OpEvaluated, Source: e.source},
	}, nil
}
