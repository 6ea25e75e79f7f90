package genetics_test

import (
	"strings"
	"testing"

	"breedlab/testutil"
)

// TestEngineHasNoIODependencies keeps the engine pure: callers hand it
// snapshots, it never reaches for storage, network or the filesystem itself.
func TestEngineHasNoIODependencies(t *testing.T) {
	forbidden := func(path string) bool {
		switch path {
		case "os", "os/exec", "net", "net/http", "database/sql", "io/fs", "log", "log/slog":
			return true
		}
		return testutil.InternalImportForbidden(path) || strings.HasPrefix(path, "github.com/")
	}
	testutil.AssertNoDirectImports(t, ".", forbidden, "genetics engine must stay free of I/O and infrastructure")
}
