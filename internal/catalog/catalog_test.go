package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binding-resolver/internal/inject"
	"binding-resolver/internal/resolve"
)

var (
	cartKey   = inject.NewKey("*shop.Cart", "")
	repoKey   = inject.NewKey("shop.Repository", "")
	clockKey  = inject.NewKey("shop.Clock", "")
	loggerKey = inject.NewKey("*zap.Logger", "")
)

func newCart() Constructor {
	return Constructor{
		Name: "shop.NewCart",
		Key:  cartKey,
		Params: []Param{
			{Key: repoKey},
			{Key: clockKey, Lazy: true},
			{Key: loggerKey, Optional: true},
		},
		Pos: "cart.go:12",
	}
}

func TestCatalog_CreateImplicitBinding(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Add(newCart()))

	binding, deps, errs := c.CreateImplicitBinding(cartKey)
	require.Empty(t, errs)
	require.NotNil(t, binding)

	implicit, ok := binding.(*inject.ImplicitBinding)
	require.True(t, ok)
	assert.Equal(t, "shop.NewCart", implicit.Constructor())
	assert.Equal(t, "shop.NewCart at cart.go:12", implicit.Context())
	assert.Equal(t, deps, implicit.Dependencies())

	require.Len(t, deps, 3)
	assert.Equal(t, cartKey, deps[0].Source)
	assert.Equal(t, repoKey, deps[0].Target)
	assert.Equal(t, "shop.NewCart param 0", deps[0].Context)
	assert.True(t, deps[1].Lazy)
	assert.False(t, deps[1].Optional)
	assert.True(t, deps[2].Optional)
}

func TestCatalog_NoConstructor(t *testing.T) {
	c := New(nil)

	binding, _, errs := c.CreateImplicitBinding(cartKey)
	assert.Nil(t, binding)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], inject.ErrNoBinding)
	assert.Contains(t, errs[0].Error(), "*shop.Cart")
}

func TestCatalog_NoConstructorSuggestsKeys(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddAll(newCart(), Constructor{Name: "shop.NewClock", Key: clockKey}))

	_, _, errs := c.CreateImplicitBinding(inject.NewKey("shop.Cart", ""))
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], inject.ErrNoBinding)
	assert.EqualError(t, errs[0], "no binding or constructor for shop.Cart (did you mean *shop.Cart?)")
}

func TestCatalog_Ambiguous(t *testing.T) {
	c := New(nil)
	second := newCart()
	second.Name = "shop.NewGuestCart"
	second.Pos = ""

	require.NoError(t, c.AddAll(newCart(), second))

	_, _, errs := c.CreateImplicitBinding(cartKey)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], inject.ErrAmbiguousBinding)
	assert.Contains(t, errs[0].Error(), "shop.NewCart at cart.go:12 and shop.NewGuestCart")
}

func TestCatalog_DuplicateNameIgnored(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Add(newCart()))
	require.NoError(t, c.Add(newCart()))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []inject.Key{cartKey}, c.Keys())
	assert.Len(t, c.Lookup(cartKey), 1)
}

func TestCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		ctor  Constructor
		error string
	}{
		{"no name", Constructor{Key: cartKey}, "missing name"},
		{"no key", Constructor{Name: "NewX"}, "provides no key"},
		{"origin key", Constructor{Name: "NewX", Key: inject.Origin}, "provides no key"},
		{"bad param", Constructor{Name: "NewX", Key: cartKey, Params: []Param{{}}}, "param 0 has no key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(nil).Add(tt.ctor)
			require.ErrorIs(t, err, ErrInvalidConstructor)
			assert.Contains(t, err.Error(), tt.error)
		})
	}
}

func TestCatalog_DrivesResolver(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddAll(
		newCart(),
		Constructor{Name: "shop.NewRepository", Key: repoKey},
		Constructor{Name: "shop.NewClock", Key: clockKey},
	))

	tree := inject.NewTree()
	root := tree.NewRoot("app")
	req := tree.NewChild(root, "request")
	req.Request(cartKey, "handler field Cart")

	run, err := resolve.NewResolver(c).Resolve(req)
	require.NoError(t, err)

	assert.Equal(t, []inject.Key{repoKey, clockKey, cartKey}, run.Output.ImplicitlyBoundKeys())
	assert.Equal(t, []inject.Key{loggerKey}, run.Pruned)
	assert.True(t, root.IsBound(cartKey))

	b, ok := req.Binding(cartKey)
	require.True(t, ok)
	assert.Equal(t, inject.KindParent, b.Kind())
}
