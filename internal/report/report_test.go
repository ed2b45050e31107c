package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"binding-resolver/internal/catalog"
	"binding-resolver/internal/config"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
	"binding-resolver/internal/resolve"
)

const handlerConfig = `
constructors:
  - name: NewStore
    key: Store
    deps: [Config]
  - name: NewHandler
    key: Handler
    deps: [Session, Store, {key: Clock, optional: true}]
injector:
  name: app
  bindings:
    - key: Config
  children:
    - name: request
      bindings:
        - key: Session
      requests: [Handler]
`

func resolved(t *testing.T, src string) (*inject.Tree, *resolve.TreeResult) {
	t.Helper()

	f, err := config.Parse([]byte(src))
	require.NoError(t, err)
	require.True(t, config.Validate(f).IsValid())

	c := catalog.New(nil)
	require.NoError(t, c.AddAll(f.CatalogConstructors()...))

	tree, err := config.Build(f, nil)
	require.NoError(t, err)

	result, err := resolve.NewResolver(c).ResolveTree(tree)
	require.NoError(t, err)

	return tree, result
}

func TestExport(t *testing.T) {
	tree, result := resolved(t, handlerConfig)

	rep, err := Export(tree, result)
	require.NoError(t, err)
	require.Len(t, rep.Injectors, 2)

	app := rep.Injectors[0]
	assert.Equal(t, "app", app.Name)
	assert.NotEmpty(t, app.Run)
	assert.False(t, app.Failed)
	assert.Equal(t, []Binding{
		{Key: "Config", Kind: "Explicit", Context: "declared in app"},
		{
			Key:         "Store",
			Kind:        "Implicit",
			Constructor: "NewStore",
			Context:     "NewStore",
			Deps:        []config.KeyRef{{Key: "Config"}},
		},
	}, app.Bindings)
	assert.Equal(t, []string{"Config", "Store"}, app.Order)

	req := rep.Injectors[1]
	assert.Equal(t, "app/request", req.Name)
	require.Len(t, req.Bindings, 3)
	assert.Equal(t, "Session", req.Bindings[0].Key)
	assert.Equal(t, Binding{Key: "Store", Kind: "Parent", From: "app", Context: "Inheriting Store from parent app"}, req.Bindings[1])
	assert.Equal(t, []config.KeyRef{{Key: "Session"}, {Key: "Store"}, {Key: "Clock", Optional: true}}, req.Bindings[2].Deps)
	assert.Equal(t, []string{"Session", "Store", "Handler"}, req.Order)
	assert.Equal(t, []Move{{Key: "Handler", From: "app", To: "app/request"}}, req.Moves)
	assert.Equal(t, []string{"Clock"}, req.Pruned)

	require.Len(t, rep.Diagnostics, 1)
	assert.Equal(t, Diagnostic{
		Severity: "info",
		Code:     diagnostic.CodePrunedOptional,
		Message:  "optional key cannot be bound and was dropped",
		Scope:    "app/request",
		Key:      "Clock",
	}, rep.Diagnostics[0])
}

func TestExport_PinnedKeysSurviveBinding(t *testing.T) {
	src := strings.Replace(handlerConfig, "      requests: [Handler]", "      pinned: [Store]\n      requests: [Handler]", 1)
	tree, result := resolved(t, src)

	rep, err := Export(tree, result)
	require.NoError(t, err)
	require.Len(t, rep.Injectors, 2)

	req := rep.Injectors[1]
	assert.Equal(t, []string{"Store"}, req.Pinned)
	assert.Empty(t, rep.Injectors[0].Pinned)

	kinds := make(map[string]string)
	for _, b := range req.Bindings {
		kinds[b.Key] = b.Kind
	}

	assert.Equal(t, "Implicit", kinds["Store"])
}

func TestExport_Unresolved(t *testing.T) {
	f, err := config.Parse([]byte(handlerConfig))
	require.NoError(t, err)

	tree, err := config.Build(f, nil)
	require.NoError(t, err)

	rep, err := Export(tree, nil)
	require.NoError(t, err)

	assert.Len(t, rep.Injectors[0].Bindings, 1)
	assert.Empty(t, rep.Injectors[1].Run)
	assert.Empty(t, rep.Diagnostics)
}

func TestExportYAML_RoundTrip(t *testing.T) {
	tree, result := resolved(t, handlerConfig)

	data, err := ExportYAML(tree, result)
	require.NoError(t, err)

	var back Report
	require.NoError(t, yaml.Unmarshal(data, &back))

	want, err := Export(tree, result)
	require.NoError(t, err)
	assert.Equal(t, want, &back)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bindings.yaml")

	require.NoError(t, WriteFile(path, []byte("version: \"1\"\n")))
	assert.FileExists(t, path)
}
