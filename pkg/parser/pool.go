package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers for one grammar.
//
// Parsers are created lazily up to maxSize. Once the limit is reached,
// acquire blocks until another caller releases a parser.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	lang    Language
	maxSize int

	// mutex protects created
	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(lang Language, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		lang:    lang,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns an idle parser or creates a new one.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
		return p.createParserIfNeeded()
	}
}

// createParserIfNeeded creates a parser while the pool is below maxSize,
// otherwise waits for a release.
func (p *parserPool) createParserIfNeeded() (*ts.Parser, error) {
	p.mutex.Lock()

	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to create parser")
	}

	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to set language %s: %w", p.lang, err)
	}

	p.created++
	p.logger.Debug("created parser in pool",
		"language", p.lang.String(),
		"pool_size", p.created)

	p.mutex.Unlock()
	return parser, nil
}

// release returns a parser to the pool.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}

	select {
	case p.pool <- parser:
	default:
		// Pool is full; never expected with balanced acquire/release.
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.lang.String())
	}
}

// close releases every idle parser. The pool cannot be used afterwards.
func (p *parserPool) close() {
	close(p.pool)

	count := 0
	for parser := range p.pool {
		if parser != nil {
			parser.Close()
			count++
		}
	}

	p.logger.Debug("closed parser pool",
		"language", p.lang.String(),
		"parsers_closed", count)
}

func (p *parserPool) getCreatedCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
