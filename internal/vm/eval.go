package vm

import (
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// evaluatedBody is a compiled snippet body.
type evaluatedBody func(args []any) (any, error)

// compileBody interprets an evaluated method source at load time. The snippet
// must define:
//
//	func Body(args []interface{}) (interface{}, error)
//
// Only stdlib symbols are visible inside the interpreter.
func compileBody(src string) (evaluatedBody, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty evaluated body")
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	if _, err := i.Eval(wrapBody(src)); err != nil {
		return nil, fmt.Errorf("evaluate body source: %w", err)
	}
	v, err := i.Eval("body.Body")
	if err != nil {
		return nil, fmt.Errorf("body function not found: %w", err)
	}
	fn, ok := v.Interface().(func([]interface{}) (interface{}, error))
	if !ok {
		return nil, fmt.Errorf("body has wrong signature (want func([]interface{}) (interface{}, error))")
	}
	return func(args []any) (any, error) {
		return fn(args)
	}, nil
}

func wrapBody(src string) string {
	if strings.Contains(src, "package body") {
		return src
	}
	return "package body\n\n" + src
}
