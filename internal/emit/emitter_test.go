package emit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func encodeRaw(p *Program) ([]byte, error) { return msgpack.Marshal(p) }

func sample() *Program {
	return &Program{
		Name:       "Foo",
		Super:      "Base",
		Interfaces: []string{"Greeter"},
		Fields:     []FieldSlot{{Name: "count", Type: "int"}},
		Methods: []MethodPlan{
			{
				Sig:   Signature{Name: "foo", Return: "string"},
				Instr: Instruction{Op: OpFixed, Value: "bar"},
			},
			{
				Sig: Signature{Name: "greet", Return: "string"},
				Instr: Instruction{
					Op:      OpOriginal,
					Special: &SpecialCall{Owner: "Greeter", Sig: Signature{Name: "greet", Return: "string"}},
				},
			},
		},
		Slots: []string{"Foo$delegate$0"},
	}
}

func TestEmitDecodeRoundTrip(t *testing.T) {
	raw, err := DefaultEmitter().Emit(sample())
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	p, err := Decode("Foo", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Foo" || len(p.Methods) != 2 {
		t.Fatalf("unexpected decoded program: %+v", p)
	}
	plans := p.PlanByName("foo")
	if len(plans) != 1 || plans[0].Instr.Op != OpFixed || plans[0].Instr.Value != "bar" {
		t.Fatalf("fixed plan lost in round trip: %+v", plans)
	}
	if !p.HasSlot("Foo$delegate$0") {
		t.Fatalf("slot lost in round trip")
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	e := DefaultEmitter()
	a, err := e.Emit(sample())
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	b, err := e.Emit(sample())
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("emitting the same program twice produced different bytes")
	}
}

func TestDecodeRejectsForeignSchema(t *testing.T) {
	p := sample()
	raw, err := DefaultEmitter().Emit(p)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	// Re-encode with a bumped schema by decoding into a fresh program first.
	decoded, err := Decode("Foo", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decoded.Schema = SchemaVersion + 1
	foreign, err := encodeRaw(decoded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	_, err = Decode("Foo", foreign)
	var ee *EmissionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EmissionError, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("Foo", []byte{0xff, 0x00, 0x13})
	var ee *EmissionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EmissionError, got %v", err)
	}
}

func TestArgumentIndexRejectsNegative(t *testing.T) {
	if _, err := ArgumentIndex(-1); err == nil {
		t.Fatalf("negative index should fail")
	}
	if idx, err := ArgumentIndex(3); err != nil || idx != 3 {
		t.Fatalf("unexpected: %d %v", idx, err)
	}
}
