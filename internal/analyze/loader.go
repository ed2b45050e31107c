package analyze

import (
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"binding-resolver/internal/catalog"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and collects their constructors.
type Analyzer struct {
	result *Result
	log    *diagnostic.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(log *diagnostic.Logger) *Analyzer {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	return &Analyzer{
		result: NewResult(),
		log:    log,
	}
}

// LoadPackages loads the specified packages and collects their constructors.
// Patterns are standard Go package patterns (e.g., "./shop", "binding-resolver/examples/shop").
func (a *Analyzer) LoadPackages(patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.result, nil
}

// Result returns what was collected so far.
func (a *Analyzer) Result() *Result {
	return a.result
}

// processPackage extracts constructors from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	if _, ok := a.result.Packages[pkg.PkgPath]; ok {
		return nil
	}

	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}
	a.result.Packages[pkg.PkgPath] = pkgInfo

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !isConstructorName(fn) {
				continue
			}

			ctor, skip, err := a.analyzeFunc(pkg, fn)
			if err != nil {
				return err
			}

			if skip != "" {
				a.log.Debugf("Skipping %s.%s: %s", pkg.Name, fn.Name.Name, skip)
				a.result.Skipped = append(a.result.Skipped, Skipped{
					Name:   pkg.Name + "." + fn.Name.Name,
					Pos:    a.position(pkg, fn),
					Reason: skip,
				})

				continue
			}

			a.log.Debugf("Found constructor %s for %s", ctor.Name, ctor.Key)
			a.result.Constructors = append(a.result.Constructors, ctor)
			pkgInfo.Constructors = append(pkgInfo.Constructors, ctor.Name)
		}
	}

	return nil
}

// isConstructorName matches exported top-level functions named New*.
func isConstructorName(fn *ast.FuncDecl) bool {
	return fn.Recv == nil && fn.Name.IsExported() && strings.HasPrefix(fn.Name.Name, "New")
}

// analyzeFunc turns fn into a constructor. A non-empty skip reason means fn
// looks like a constructor but cannot be used as one.
func (a *Analyzer) analyzeFunc(pkg *packages.Package, fn *ast.FuncDecl) (catalog.Constructor, string, error) {
	name := pkg.Name + "." + fn.Name.Name
	pos := a.position(pkg, fn)

	dirs, err := parseDirectives(fn.Doc)
	if err != nil {
		return catalog.Constructor{}, "", fmt.Errorf("%s at %s: %w", name, pos, err)
	}

	if dirs.ignore {
		return catalog.Constructor{}, "ignored by directive", nil
	}

	obj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	if !ok {
		return catalog.Constructor{}, "no type information", nil
	}

	sig := obj.Type().(*types.Signature)

	switch {
	case sig.TypeParams().Len() > 0:
		return catalog.Constructor{}, "generic functions are not supported", nil
	case sig.Variadic():
		return catalog.Constructor{}, "variadic functions are not supported", nil
	case sig.Results().Len() == 0 || sig.Results().Len() > 2:
		return catalog.Constructor{}, "must return a value and optionally an error", nil
	case sig.Results().Len() == 2 && !isError(sig.Results().At(1).Type()):
		return catalog.Constructor{}, "second result must be error", nil
	}

	ctor := catalog.Constructor{
		Name: name,
		Key:  inject.NewKey(KeyType(sig.Results().At(0).Type()), dirs.qualifier),
		Pos:  pos,
	}

	names := make(map[string]bool, sig.Params().Len())

	for i := range sig.Params().Len() {
		v := sig.Params().At(i)
		names[v.Name()] = true

		param := catalog.Param{Optional: dirs.optional[v.Name()]}

		t := v.Type()
		if provided, ok := providedType(t); ok {
			param.Lazy = true
			t = provided
		}

		param.Key = inject.NewKey(KeyType(t), dirs.named[v.Name()])
		ctor.Params = append(ctor.Params, param)
	}

	if unknown := dirs.unused(names); len(unknown) > 0 {
		return catalog.Constructor{}, "", fmt.Errorf("%s at %s: directives name unknown parameters %v",
			name, pos, unknown)
	}

	return ctor, "", nil
}

// position renders the declaration position as "file.go:line".
func (a *Analyzer) position(pkg *packages.Package, fn *ast.FuncDecl) string {
	p := pkg.Fset.Position(fn.Pos())
	if !p.IsValid() {
		return ""
	}

	return fmt.Sprintf("%s:%d", filepath.Base(p.Filename), p.Line)
}
