package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	// ErrUnsupportedLanguage is returned for files whose extension has no grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrSyntax is returned when the syntax tree contains error nodes and
	// partial trees are not allowed.
	ErrSyntax = errors.New("syntax error")
)

// Options configures a ParserManager.
type Options struct {
	// PoolSize is the number of parsers kept per grammar (0 = CPU based).
	PoolSize int

	// AllowPartial accepts syntax trees that contain error nodes instead of
	// failing with ErrSyntax.
	AllowPartial bool
}

// ParserManager owns one parser pool per grammar and turns source text into
// SourceFile values (statements + token stream).
//
// Pools are created lazily. ParserManager is safe for concurrent use and
// must be closed via Close().
//
// Example:
//
//	manager := NewParserManager(logger, Options{})
//	defer manager.Close()
//
//	file, err := manager.ParseSource("src/App.tsx", source)
type ParserManager struct {
	pools map[Language]*parserPool

	// mutex guards pools and stats
	mutex sync.RWMutex

	opts   Options
	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a ParserManager. A nil logger uses slog.Default().
func NewParserManager(logger *slog.Logger, opts Options) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:  make(map[Language]*parserPool),
		opts:   opts,
		logger: logger,
	}
}

// Parse parses source with the given grammar.
//
// The returned Tree MUST be closed by the caller. Trees containing error
// nodes are returned as-is; ParseSource applies the strictness policy.
func (pm *ParserManager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, ErrUnsupportedLanguage
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree for %s source", lang)
	}

	return tree, nil
}

// ParseSource parses a file and converts the syntax tree into the statement
// list and token stream consumed by the extractor.
func (pm *ParserManager) ParseSource(filePath string, source []byte) (*SourceFile, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filePath)
	}

	tree, err := pm.Parse(source, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if !pm.opts.AllowPartial {
			return nil, fmt.Errorf("%w in %s", ErrSyntax, filePath)
		}
		pm.logger.Warn("parse tree contains errors",
			"file", filePath,
			"language", lang.String())
	}

	return &SourceFile{
		Path:       filePath,
		Language:   lang,
		Statements: buildStatements(root, source),
		Tokens:     buildTokens(root, source),
	}, nil
}

// Close releases all parser pools. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager",
		"parses_called", pm.stats.parsesCalled)

	for _, pool := range pm.pools {
		if pool != nil {
			pool.close()
		}
	}
	pm.pools = make(map[Language]*parserPool)

	return nil
}

// getOrCreatePool returns the pool for lang, creating it under the write lock.
func (pm *ParserManager) getOrCreatePool(lang Language) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[lang]
	pm.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[lang]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}

	size := getPoolSize(pm.opts.PoolSize)
	pool = newParserPool(lang, langPtr, size, pm.logger)
	pm.pools[lang] = pool

	pm.logger.Debug("created new parser pool",
		"language", lang.String(),
		"maxSize", size)

	return pool, nil
}

func languagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageTSX:
		return ts_typescript.LanguageTSX(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.getCreatedCount()
	}

	return ParserStats{
		ParsersCreated: total,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
