package analyze

import (
	"go/types"

	"binding-resolver/internal/common"
)

// KeyType renders t the way keys are written in configuration files:
// package-qualified by package name, e.g. "*shop.Cart" or "[]shop.Product".
func KeyType(t types.Type) string {
	return types.TypeString(t, qualifier)
}

func qualifier(p *types.Package) string {
	if p.Name() != "" {
		return p.Name()
	}

	return common.PkgAlias(p.Path())
}

// providedType unwraps a provider parameter: func() T yields T and true.
func providedType(t types.Type) (types.Type, bool) {
	sig, ok := t.Underlying().(*types.Signature)
	if !ok {
		return nil, false
	}

	if sig.Params().Len() != 0 || sig.Results().Len() != 1 || sig.Variadic() {
		return nil, false
	}

	return sig.Results().At(0).Type(), true
}

// isError reports whether t is the built-in error interface.
func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
