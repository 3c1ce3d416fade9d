package domain_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"eventcore/testutil"
)

// allowedDomainImport permits the standard library plus the uuid generator.
// The domain package is the dependency floor of the repository: everything
// imports it, so it must not pull in stores, transports, or observability.
func allowedDomainImport(path string) bool {
	if !strings.Contains(path, ".") {
		return true // standard library
	}
	return path == "github.com/google/uuid"
}

func TestDomainDirectImportsAreConfined(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(path string) bool {
		return !allowedDomainImport(path)
	}, "pkg/domain must stay free of infrastructure imports")
}

func TestDomainTransitiveImportsAreConfined(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps}
	pkgs, err := packages.Load(cfg, "eventcore/pkg/domain")
	if err != nil {
		t.Fatalf("load package: %v", err)
	}
	seen := map[string]bool{}
	var walk func(p *packages.Package)
	walk = func(p *packages.Package) {
		if seen[p.PkgPath] {
			return
		}
		seen[p.PkgPath] = true
		for _, imp := range p.Imports {
			walk(imp)
		}
	}
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			t.Fatalf("package errors: %v", p.Errors)
		}
		walk(p)
	}
	for path := range seen {
		if path == "eventcore/pkg/domain" {
			continue
		}
		if !allowedDomainImport(path) && !strings.HasPrefix(path, "github.com/google/uuid") {
			t.Errorf("forbidden transitive dependency: %s", path)
		}
	}
}
