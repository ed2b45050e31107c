package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Structure(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot("root")
	app := tree.NewChild(root, "app")
	req := tree.NewChild(app, "request")
	admin := tree.NewChild(root, "admin")

	assert.Nil(t, root.Parent())
	assert.Equal(t, app, req.Parent())
	assert.Equal(t, []*Scope{app, admin}, root.Children())
	assert.Equal(t, "root/app/request", req.String())
	assert.Equal(t, 2, req.Depth())
	assert.Equal(t, "root", root.String())

	assert.True(t, root.IsAncestorOrSelf(req))
	assert.True(t, req.IsAncestorOrSelf(req))
	assert.False(t, admin.IsAncestorOrSelf(req))

	assert.Equal(t, []*Scope{req, app, admin, root}, tree.PostOrder())

	found, ok := tree.Find("admin")
	require.True(t, ok)
	assert.Equal(t, admin.ID(), found.ID())
	assert.Nil(t, tree.Scope(NoScope))
}

func TestTree_SecondRootPanics(t *testing.T) {
	tree := NewTree()
	tree.NewRoot("root")

	assert.Panics(t, func() { tree.NewRoot("again") })
}

func TestScope_AddBindingRegistersInAncestors(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot("root")
	child := tree.NewChild(root, "child")
	leaf := tree.NewChild(child, "leaf")

	cart := NewKey("*shop.Cart", "")
	require.NoError(t, leaf.AddBinding(cart, NewExplicitBinding(cart, "test")))

	assert.True(t, leaf.IsBound(cart))
	assert.False(t, child.IsBound(cart))
	assert.True(t, child.IsBoundLocallyInChild(cart))
	assert.True(t, root.IsBoundLocallyInChild(cart))
	assert.Equal(t, []*Scope{leaf}, root.LocalChildHolders(cart))
}

func TestScope_ParentBindingIsNotLocal(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot("root")
	child := tree.NewChild(root, "child")

	clock := NewKey("shop.Clock", "")
	require.NoError(t, child.AddBinding(clock, NewParentBinding(clock, root.ID(), "bridge")))

	assert.True(t, child.IsBound(clock))
	assert.False(t, root.IsBoundLocallyInChild(clock))
}

func TestScope_DoubleBinding(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot("root")

	db := NewKey("*sql.DB", "primary")
	require.NoError(t, root.AddBinding(db, NewExplicitBinding(db, "first")))

	err := root.AddBinding(db, NewExplicitBinding(db, "second"))
	require.Error(t, err)

	var dbe *DoubleBindingError
	require.True(t, errors.As(err, &dbe))
	assert.Equal(t, db, dbe.Key)
	assert.Contains(t, err.Error(), `"second"`)
	assert.Len(t, root.Bindings(), 1)
}

func TestScope_PinRegistersOnce(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot("root")
	child := tree.NewChild(root, "child")

	k := NewKey("shop.Catalog", "")
	child.Pin(k)
	child.Pin(k)

	assert.True(t, child.IsPinned(k))
	assert.Len(t, root.LocalChildHolders(k), 1)
	assert.Equal(t, []Key{k}, child.Pins())

	require.NoError(t, child.AddBinding(k, NewImplicitBinding(k, "NewCatalog", "test")))
	assert.Equal(t, []Key{k}, child.Pins(), "bound pins are still listed")
	assert.Len(t, root.LocalChildHolders(k), 1)
}

func TestDependency_IdentityIgnoresContext(t *testing.T) {
	a := NewKey("A", "")
	b := NewKey("B", "")

	d1 := NewDependency(a, b, "NewA param %d", 0)
	d2 := NewDependency(a, b, "somewhere else")
	d3 := NewEdge(a, b, true, false, "optional")

	assert.Equal(t, "NewA param 0", d1.Context)
	assert.Equal(t, d1.ID(), d2.ID())
	assert.NotEqual(t, d1.ID(), d3.ID())
}

func TestDependency_InvalidEdgesPanic(t *testing.T) {
	a := NewKey("A", "")

	assert.Panics(t, func() { NewDependency(a, Origin, "ctx") })
	assert.Panics(t, func() { NewDependency(a, a, "") })
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "*shop.Cart", NewKey("*shop.Cart", "").String())
	assert.Equal(t, "@primary *sql.DB", NewKey("*sql.DB", "primary").String())
	assert.True(t, Origin.IsOrigin())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Explicit", KindExplicit.String())
	assert.Equal(t, "ExposedChild", KindExposedChild.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
