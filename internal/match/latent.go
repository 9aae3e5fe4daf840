package match

import "bytebuddy/internal/types"

// Latent is a matcher that cannot evaluate until the instrumented type's
// concrete name is fixed, because its criteria reference the self
// placeholder. Manifest runs exactly once per materialization.
type Latent interface {
	Manifest(concrete string) Matcher
}

type exact struct{ m Matcher }

func (e exact) Manifest(string) Matcher { return e.m }

// Exact lifts an ordinary matcher into a latent one.
func Exact(m Matcher) Latent { return exact{m} }

type forSignature struct{ sig types.Signature }

func (f forSignature) Manifest(concrete string) Matcher {
	resolved := f.sig.Resolve(concrete)
	return And(Named(resolved.Name), Returns(resolved.Return), Takes(resolved.Params...))
}

// ForSignature matches the member a recorded method token describes once its
// self references resolve against the concrete type name.
func ForSignature(sig types.Signature) Latent { return forSignature{sig} }
