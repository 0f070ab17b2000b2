package architecture_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// TestDomainNotDependOnInfrastructure keeps the domain layer free of
// storage, transport and service imports.
func TestDomainNotDependOnInfrastructure(t *testing.T) {
	forbiddenImports := []string{
		"database/sql",
		"github.com/jackc/pgx",
		"github.com/redis/go-redis",
		"net/http",
		"internal/infrastructure",
		"internal/service",
		"internal/api",
	}

	domainFiles, err := filepath.Glob("../../internal/domain/*/*.go")
	if err != nil {
		t.Fatal(err)
	}
	if len(domainFiles) == 0 {
		t.Fatal("no domain files found")
	}

	for _, file := range domainFiles {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}

		for _, imp := range fileImports(t, file) {
			for _, forbidden := range forbiddenImports {
				if strings.Contains(imp, forbidden) {
					t.Errorf("domain file %s imports infrastructure: %s", file, imp)
				}
			}
		}
	}
}

// TestServiceNotDependOnAPI keeps the dependency direction one way: the
// API layer calls services, never the reverse.
func TestServiceNotDependOnAPI(t *testing.T) {
	serviceFiles, err := filepath.Glob("../../internal/service/*/*.go")
	if err != nil {
		t.Fatal(err)
	}
	if len(serviceFiles) == 0 {
		t.Fatal("no service files found")
	}

	for _, file := range serviceFiles {
		for _, imp := range fileImports(t, file) {
			if strings.Contains(imp, "internal/api") {
				t.Errorf("service file %s imports the api layer: %s", file, imp)
			}
		}
	}
}

func fileImports(t *testing.T, filename string) []string {
	t.Helper()

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, parser.ImportsOnly)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", filename, err)
	}

	imports := make([]string, 0, len(node.Imports))
	for _, imp := range node.Imports {
		imports = append(imports, strings.Trim(imp.Path.Value, `"`))
	}
	return imports
}
