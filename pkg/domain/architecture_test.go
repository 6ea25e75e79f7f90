package domain

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"breedlab/testutil"
)

// TestDomainImportBoundary keeps the input contracts at the bottom of the
// dependency graph: no internal packages and no engine package.
func TestDomainImportBoundary(t *testing.T) {
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("cannot read dir: %v", err)
	}
	fset := token.NewFileSet()
	violations := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(".", name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range file.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if strings.Contains(path, "/internal/") || strings.HasSuffix(path, "/pkg/genetics") {
				violations++
				t.Errorf("domain package must not import %s (%s)", path, name)
			}
		}
	}
	if violations > 0 {
		t.Fatalf("found %d forbidden imports in domain package", violations)
	}
}

func TestDomainHasNoTransitiveEngineDependency(t *testing.T) {
	forbidden := func(path string) bool {
		return testutil.GeneticsImportForbidden(path) || strings.HasPrefix(path, "breedlab/internal/")
	}
	testutil.AssertNoTransitiveDependency(t, ".", forbidden, "snapshots are decoded without the engine or infrastructure")
}
