package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts Options) *ParserManager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewParserManager(logger, opts)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestParseTSX(t *testing.T) {
	manager := newTestManager(t, Options{})

	tree, err := manager.Parse([]byte("const App = () => <div>Hello</div>;"), LanguageTSX)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.Contains(t, root.ToSexp(), "jsx_element")
}

func TestParseUnknownLanguage(t *testing.T) {
	manager := newTestManager(t, Options{})

	tree, err := manager.Parse([]byte("some random text"), LanguageUnknown)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Nil(t, tree)
}

func TestParseSource_UnsupportedExtension(t *testing.T) {
	manager := newTestManager(t, Options{})

	_, err := manager.ParseSource("/proj/styles.css", []byte("body {}"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseSource_SyntaxError(t *testing.T) {
	manager := newTestManager(t, Options{})

	_, err := manager.ParseSource("/proj/broken.tsx", []byte("const = <div"))
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseSource_AllowPartial(t *testing.T) {
	manager := newTestManager(t, Options{AllowPartial: true})

	file, err := manager.ParseSource("/proj/broken.tsx", []byte("import A from './A';\nconst = <div"))
	require.NoError(t, err)
	assert.NotEmpty(t, file.Tokens)
}

func TestParseSource_JavaScriptWithJSX(t *testing.T) {
	manager := newTestManager(t, Options{})

	file, err := manager.ParseSource("/proj/App.jsx", []byte("import Nav from './Nav';\nexport default () => <Nav />;\n"))
	require.NoError(t, err)
	assert.Equal(t, LanguageJavaScript, file.Language)
	assert.Len(t, file.Statements, 2)
}

func TestLazyInitialization(t *testing.T) {
	manager := newTestManager(t, Options{})

	stats := manager.GetStats()
	assert.Equal(t, 0, stats.ParsersCreated)

	tree, err := manager.Parse([]byte("const x: number = 1;"), LanguageTypeScript)
	require.NoError(t, err)
	tree.Close()

	tree, err = manager.Parse([]byte("const x: number = 2;"), LanguageTypeScript)
	require.NoError(t, err)
	tree.Close()

	stats = manager.GetStats()
	assert.Equal(t, 1, stats.ParsersCreated, "parser should be reused")
	assert.Equal(t, 2, stats.ParsesCalled)

	tree, err = manager.Parse([]byte("const y = 2;"), LanguageJavaScript)
	require.NoError(t, err)
	tree.Close()

	stats = manager.GetStats()
	assert.Equal(t, 2, stats.ParsersCreated)
	assert.Equal(t, 3, stats.ParsesCalled)
}

func TestLanguageDetection(t *testing.T) {
	testCases := []struct {
		filePath string
		expected Language
	}{
		{"file.ts", LanguageTypeScript},
		{"file.mts", LanguageTypeScript},
		{"file.tsx", LanguageTSX},
		{"file.TSX", LanguageTSX},
		{"file.js", LanguageJavaScript},
		{"file.jsx", LanguageJavaScript},
		{"file.mjs", LanguageJavaScript},
		{"file.cjs", LanguageJavaScript},
		{"file.css", LanguageUnknown},
		{"react-redux", LanguageUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.filePath, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectLanguage(tc.filePath))
		})
	}
}

func TestSourceExtensionsOrder(t *testing.T) {
	assert.Equal(t, []string{".tsx", ".ts", ".jsx", ".js"}, SourceExtensions())
}
