package emit

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// EmissionError wraps a fatal failure of the emitter or decoder. The engine
// has no recovery strategy for these; they abort the current build unchanged.
type EmissionError struct {
	Artifact string
	Err      error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("emit %s: %v", e.Artifact, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// Emitter turns a resolved program into artifact bytes. It is a pure function
// of the program: emitting the same program twice yields identical bytes.
type Emitter interface {
	Emit(p *Program) ([]byte, error)
}

// Codec is the default msgpack emitter.
type Codec struct{}

// DefaultEmitter returns the engine's standard emitter.
func DefaultEmitter() Emitter { return Codec{} }

// Emit encodes the program after stamping the current schema version.
func (Codec) Emit(p *Program) ([]byte, error) {
	if p == nil {
		return nil, &EmissionError{Artifact: "?", Err: fmt.Errorf("nil program")}
	}
	if p.Name == "" {
		return nil, &EmissionError{Artifact: "?", Err: fmt.Errorf("unnamed program")}
	}
	stamped := *p
	stamped.Schema = SchemaVersion
	raw, err := msgpack.Marshal(&stamped)
	if err != nil {
		return nil, &EmissionError{Artifact: p.Name, Err: err}
	}
	return raw, nil
}

// Decode reads artifact bytes back into a program, rejecting foreign schemas.
func Decode(name string, raw []byte) (*Program, error) {
	var p Program
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return nil, &EmissionError{Artifact: name, Err: err}
	}
	if p.Schema != SchemaVersion {
		return nil, &EmissionError{
			Artifact: name,
			Err:      fmt.Errorf("schema %d not supported (want %d)", p.Schema, SchemaVersion),
		}
	}
	return &p, nil
}

// ArgumentIndex narrows a positional argument index into binding form.
func ArgumentIndex(i int) (uint32, error) {
	idx, err := safecast.Conv[uint32](i)
	if err != nil {
		return 0, fmt.Errorf("argument index %d out of range: %w", i, err)
	}
	return idx, nil
}
