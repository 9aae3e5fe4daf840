package vm

import (
	"testing"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

const upperBody = `
import "strings"

func Body(args []interface{}) (interface{}, error) {
	return strings.ToUpper(args[0].(string)), nil
}
`

func TestCompileBodyRunsSnippet(t *testing.T) {
	fn, err := compileBody(upperBody)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	v, err := fn([]any{"bar"})
	if err != nil || v != "BAR" {
		t.Fatalf("evaluated body: %v %v", v, err)
	}
}

func TestCompileBodyRejectsBrokenSource(t *testing.T) {
	if _, err := compileBody("func Body("); err == nil {
		t.Fatalf("broken source should not compile")
	}
	if _, err := compileBody(""); err == nil {
		t.Fatalf("empty source should not compile")
	}
	if _, err := compileBody("func Other() {}"); err == nil {
		t.Fatalf("missing Body function should not compile")
	}
}

func TestEvaluatedDispatchCompilesAtLoad(t *testing.T) {
	ns := NewNamespace(nil, types.NewUniverse())
	h, err := NewHandle(&emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Methods: []emit.MethodPlan{{
			Sig:   emit.Signature{Name: "shout", Params: []string{"string"}, Return: "string"},
			Instr: emit.Instruction{Op: emit.OpEvaluated, Source: upperBody},
		}},
	}, ns)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v, err := h.New().Invoke("shout", "quiet")
	if err != nil || v != "QUIET" {
		t.Fatalf("evaluated dispatch: %v %v", v, err)
	}
}

func TestBrokenEvaluatedBodyFailsLoad(t *testing.T) {
	ns := NewNamespace(nil, types.NewUniverse())
	_, err := NewHandle(&emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Methods: []emit.MethodPlan{{
			Sig:   emit.Signature{Name: "bad", Return: "string"},
			Instr: emit.Instruction{Op: emit.OpEvaluated, Source: "func Body("},
		}},
	}, ns)
	if err == nil {
		t.Fatalf("broken evaluated body must fail the load")
	}
}
