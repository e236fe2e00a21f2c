package extractor

import (
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"

	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/resolver"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves relative specifiers against the importing file's
// directory with a .tsx suffix and treats everything else as third-party.
type fakeResolver struct{}

func (fakeResolver) Resolve(specifier, fromFile string) resolver.Resolution {
	if strings.HasPrefix(specifier, ".") {
		abs := path.Join(path.Dir(fromFile), specifier)
		return resolver.Resolution{
			ImportPath: "./" + strings.TrimPrefix(abs, "/proj/"),
			FilePath:   abs + ".tsx",
		}
	}
	return resolver.Resolution{ImportPath: specifier, FilePath: specifier}
}

const testFile = "/proj/src/App.tsx"

func parseFile(t *testing.T, code string) *parser.SourceFile {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := parser.NewParserManager(logger, parser.Options{PoolSize: 1})
	t.Cleanup(func() { manager.Close() })

	file, err := manager.ParseSource(testFile, []byte(code))
	require.NoError(t, err)
	return file
}

// analyze parses code and returns its bindings and usages.
func analyze(t *testing.T, code string) (*Imports, []*Usage) {
	t.Helper()
	file := parseFile(t, code)
	imports := Bindings(file.Statements, fakeResolver{}, testFile)
	return imports, ScanJSX(file.Tokens, imports)
}

func locals(usages []*Usage) []string {
	out := make([]string, 0, len(usages))
	for _, u := range usages {
		out = append(out, u.Local)
	}
	return out
}
