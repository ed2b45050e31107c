package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binding-resolver/internal/catalog"
	"binding-resolver/internal/inject"
	"binding-resolver/internal/resolve"
)

const shopPkg = "binding-resolver/examples/shop"

func loadShop(t *testing.T) *Result {
	t.Helper()

	result, err := NewAnalyzer(nil).LoadPackages(shopPkg)
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	result := loadShop(t)

	require.Contains(t, result.Packages, shopPkg)
	assert.Equal(t, "shop", result.Packages[shopPkg].Name)
	assert.Equal(t, []string{
		"shop.NewConfig",
		"shop.NewPrimaryDB",
		"shop.NewClock",
		"shop.NewCatalog",
		"shop.NewCart",
		"shop.NewOrders",
		"shop.NewCheckout",
	}, result.Packages[shopPkg].Constructors)
}

func TestAnalyzer_ConstructorKeys(t *testing.T) {
	result := loadShop(t)

	db, ok := result.Constructor("shop.NewPrimaryDB")
	require.True(t, ok)
	assert.Equal(t, inject.NewKey("*shop.DB", "primary"), db.Key)
	assert.Equal(t, []catalog.Param{{Key: inject.NewKey("*shop.Config", "")}}, db.Params)
	assert.Regexp(t, `^providers\.go:\d+$`, db.Pos)

	clock, ok := result.Constructor("shop.NewClock")
	require.True(t, ok)
	assert.Equal(t, inject.NewKey("shop.Clock", ""), clock.Key)
	assert.Empty(t, clock.Params)
}

func TestAnalyzer_ParamDirectives(t *testing.T) {
	result := loadShop(t)

	cart, ok := result.Constructor("shop.NewCart")
	require.True(t, ok)
	assert.Equal(t, []catalog.Param{
		{Key: inject.NewKey("*shop.Session", "")},
		{Key: inject.NewKey("shop.Catalog", "")},
		{Key: inject.NewKey("*shop.AuditLog", ""), Optional: true},
	}, cart.Params)

	orders, ok := result.Constructor("shop.NewOrders")
	require.True(t, ok)
	assert.Equal(t, inject.NewKey("*shop.DB", "primary"), orders.Params[0].Key)
}

func TestAnalyzer_ProviderParamIsLazy(t *testing.T) {
	result := loadShop(t)

	checkout, ok := result.Constructor("shop.NewCheckout")
	require.True(t, ok)
	require.Len(t, checkout.Params, 3)
	assert.Equal(t, catalog.Param{Key: inject.NewKey("shop.Clock", ""), Lazy: true}, checkout.Params[2])
}

func TestAnalyzer_Skipped(t *testing.T) {
	result := loadShop(t)

	reasons := make(map[string]string)
	for _, s := range result.Skipped {
		reasons[s.Name] = s.Reason
	}

	assert.Equal(t, map[string]string{
		"shop.NewMemoryCatalog": "ignored by directive",
		"shop.NewReporter":      "variadic functions are not supported",
	}, reasons)

	_, ok := result.Constructor("shop.NewLine")
	assert.False(t, ok, "methods are not constructors")
}

func TestAnalyzer_ResolvesShop(t *testing.T) {
	result := loadShop(t)

	c, err := result.Catalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())

	session := inject.NewKey("*shop.Session", "")
	checkout := inject.NewKey("*shop.Checkout", "")

	tree := inject.NewTree()
	app := tree.NewRoot("app")
	req := tree.NewChild(app, "request")
	require.NoError(t, req.AddBinding(session, inject.NewExplicitBinding(session, "request session")))
	req.Request(checkout, "handler field Checkout")

	run, err := resolve.NewResolver(c).Resolve(req)
	require.NoError(t, err)

	assert.Equal(t, []inject.Key{inject.NewKey("*shop.AuditLog", "")}, run.Pruned)

	for _, key := range []string{"*shop.Checkout", "*shop.Cart"} {
		b, ok := req.Binding(inject.NewKey(key, ""))
		require.True(t, ok, key)
		assert.Equal(t, inject.KindImplicit, b.Kind(), key)
	}

	for _, key := range []inject.Key{
		inject.NewKey("shop.Orders", ""),
		inject.NewKey("shop.Catalog", ""),
		inject.NewKey("*shop.DB", "primary"),
		inject.NewKey("shop.Clock", ""),
	} {
		b, ok := app.Binding(key)
		require.True(t, ok, key.String())
		assert.Equal(t, inject.KindImplicit, b.Kind(), key.String())
	}
}

func TestAnalyzer_BadPattern(t *testing.T) {
	_, err := NewAnalyzer(nil).LoadPackages("binding-resolver/examples/does-not-exist")
	assert.Error(t, err)
}
