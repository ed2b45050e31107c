package inject

// Key identifies an injectable value by type and optional qualifier.
type Key struct {
	Type      string // e.g., "*shop.Cart"
	Qualifier string // e.g., "primary"; empty when unqualified
}

// Origin stands for "required directly by the injector being resolved".
// It may appear as a dependency source but never as a target.
var Origin = Key{Type: "<origin>"}

// NewKey creates a Key for typ with an optional qualifier.
func NewKey(typ, qualifier string) Key {
	return Key{Type: typ, Qualifier: qualifier}
}

// IsOrigin reports whether k is the Origin sentinel.
func (k Key) IsOrigin() bool {
	return k == Origin
}

// String returns a human-readable representation of the Key.
func (k Key) String() string {
	if k.Qualifier == "" {
		return k.Type
	}

	return "@" + k.Qualifier + " " + k.Type
}
