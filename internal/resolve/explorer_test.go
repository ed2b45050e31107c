package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

func TestGraphBuilder_FirstEdgeWins(t *testing.T) {
	_, _, child := rootAndChild()

	b := NewGraphBuilder(child)
	assert.True(t, b.AddEdge(inject.NewDependency(foo, bar, "first")))
	assert.False(t, b.AddEdge(inject.NewDependency(foo, bar, "second")))
	assert.True(t, b.AddEdge(inject.NewEdge(foo, bar, false, true, "lazy")))

	g := b.Build()
	deps := g.DependenciesOf(foo)
	require.Len(t, deps, 2)
	assert.Equal(t, "first", deps[0].Context)
	assert.Len(t, g.DependenciesTargeting(bar), 2)
	assert.Equal(t, []inject.Key{foo, bar}, g.Nodes())
}

func TestGraphPruner_RemovesEdges(t *testing.T) {
	_, _, child := rootAndChild()

	b := NewGraphBuilder(child)
	b.AddEdge(inject.NewDependency(inject.Origin, foo, "requested"))
	b.AddEdge(inject.NewDependency(foo, bar, "NewFoo param 0"))
	b.AddEdge(inject.NewDependency(bar, baz, "NewBar param 0"))
	g := b.Build()

	pruner := NewGraphPruner(g)
	pruner.Remove(bar)
	pruned := pruner.Update()

	assert.Equal(t, []inject.Key{foo}, pruned.Nodes())
	assert.False(t, pruned.Contains(baz))
	assert.Len(t, g.Edges(), 3, "the original graph is untouched")
	assert.Same(t, child, pruned.Origin())
}

func TestExplorer_DependencyFirstOrder(t *testing.T) {
	_, root, child := rootAndChild()
	bindExplicit(t, root, qux)
	child.Request(foo, "requested by child")

	factory := newFakeFactory().ctor(foo, bar, baz).ctor(bar, baz, qux).ctor(baz)

	output := NewDependencyExplorer(factory, nil).Explore(child)

	assert.Equal(t, []inject.Key{baz, bar, foo}, output.ImplicitlyBoundKeys())
	assert.Equal(t, []inject.Key{qux}, output.PreExistingKeys())
	assert.Empty(t, output.BindingErrors())
	assert.Equal(t, 1, factory.calls[baz], "each key is explored once")

	want := []string{
		"<origin> -> Foo",
		"Foo -> Bar",
		"Bar -> Baz",
		"Bar -> Qux",
		"Foo -> Baz",
	}

	got := make([]string, 0)
	for _, e := range output.Graph().Edges() {
		got = append(got, e.Source.String()+" -> "+e.Target.String())
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestExplorer_HighestAccessibleSource(t *testing.T) {
	tree := inject.NewTree()
	root := tree.NewRoot("root")
	app := tree.NewChild(root, "app")
	req := tree.NewChild(app, "request")

	require.NoError(t, app.AddBinding(foo, inject.NewExposedChildBinding(foo, req.ID(), "exposed by request")))
	bindExplicit(t, req, foo)
	require.NoError(t, root.AddBinding(bar, inject.NewExposedChildBinding(bar, app.ID(), "exposed by app")))
	bindExplicit(t, app, bar)
	req.Request(foo, "requested by request")
	req.Request(bar, "requested by request")

	output := NewDependencyExplorer(newFakeFactory(), nil).Explore(req)

	loc, _ := output.PreExistingLocation(foo)
	assert.Equal(t, app, loc)
	loc, _ = output.PreExistingLocation(bar)
	assert.Equal(t, root, loc)
	assert.Len(t, output.PreExistingLocations(), 2)
}

func TestExplorer_PinnedUnboundKeyIsCreatedAtOrigin(t *testing.T) {
	_, root, child := rootAndChild()
	child.Pin(foo)
	require.NoError(t, root.AddBinding(foo, inject.NewExposedChildBinding(foo, child.ID(), "exposed by child")))
	child.Request(foo, "pinned in child")

	output := NewDependencyExplorer(newFakeFactory().ctor(foo), nil).Explore(child)

	assert.True(t, output.IsImplicit(foo))
	_, ok := output.PreExistingLocation(foo)
	assert.False(t, ok)
}

func TestExplorer_RecordsFactoryErrors(t *testing.T) {
	_, _, child := rootAndChild()
	child.Request(foo, "requested by child")
	child.Request(baz, "requested by child")

	output := NewDependencyExplorer(newFakeFactory().ctor(foo, bar), nil).Explore(child)

	assert.Equal(t, []inject.Key{bar, baz}, output.BindingErrors())
	require.Len(t, output.BindingErrorsFor(bar), 1)
	assert.ErrorIs(t, output.BindingErrorsFor(bar)[0], inject.ErrNoBinding)
	assert.True(t, output.IsImplicit(foo))
}

func TestExplorer_SourceMustBeBoundAtOrigin(t *testing.T) {
	_, _, child := rootAndChild()
	child.AddDependency(inject.NewDependency(qux, foo, "field Foo of Qux"))

	assert.Panics(t, func() {
		NewDependencyExplorer(newFakeFactory().ctor(foo), nil).Explore(child)
	})
}

func TestCycleFinder_ReportsEachCycleOnce(t *testing.T) {
	_, _, child := rootAndChild()

	b := NewGraphBuilder(child)
	b.AddEdge(inject.NewDependency(inject.Origin, foo, "requested"))
	b.AddEdge(inject.NewDependency(inject.Origin, bar, "requested"))
	b.AddEdge(inject.NewDependency(foo, bar, "NewFoo param 0"))
	b.AddEdge(inject.NewDependency(bar, foo, "NewBar param 0"))
	b.AddEdge(inject.NewDependency(bar, baz, "NewBar param 1"))
	b.AddEdge(inject.NewEdge(baz, bar, false, true, "NewBaz param 0"))

	errs := newEagerCycleFinder(diagnostic.NopLogger()).find(b.Build())

	require.Len(t, errs, 1)
	assert.Equal(t, "Foo -> Bar -> Foo", FormatPath(errs[0].Path))
	assert.Equal(t, foo, errs[0].Source)
}
