// Package mcp exposes component-tree sessions as MCP tools over stdio.
package mcp

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/comptree/pkg/mcplog"
	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/tree"
)

const (
	serverName    = "comptree"
	serverVersion = "0.1.0-dev"

	// DefaultMaxSessions bounds how many entry files keep a tree in memory.
	DefaultMaxSessions = 8
)

// Config configures a Server.
type Config struct {
	// Builder is the template for every session's builder. Parser, IDs and
	// Logger are filled in by the server when unset.
	Builder tree.Options

	MaxSessions int
	Logger      *slog.Logger

	// CallLog records every tool call when non-nil.
	CallLog *mcplog.Logger
}

// Server implements the MCP server. It keeps one tree.Session per entry
// file, evicting the least recently used when MaxSessions is exceeded.
type Server struct {
	mcpServer *server.MCPServer
	sessions  *lru.Cache[string, *tree.Session]
	// sessionsMu makes lookup-or-create atomic.
	sessionsMu sync.Mutex

	parser     *parser.ParserManager
	ownsParser bool
	builder    tree.Options
	logger     *slog.Logger
	callLog    *mcplog.Logger
}

// NewServer creates a Server and registers its tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	s := &Server{
		builder: cfg.Builder,
		logger:  cfg.Logger,
		callLog: cfg.CallLog,
		parser:  cfg.Builder.Parser,
	}
	if s.builder.Logger == nil {
		s.builder.Logger = cfg.Logger
	}
	if s.parser == nil {
		s.parser = parser.NewParserManager(cfg.Logger, parser.Options{AllowPartial: cfg.Builder.AllowPartial})
		s.ownsParser = true
	}
	s.builder.Parser = s.parser

	sessions, err := lru.NewWithEvict(cfg.MaxSessions, func(entry string, session *tree.Session) {
		s.logger.Debug("LRU evicting session", "entry", entry)
		_ = session.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	s.sessions = sessions

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(serverName, serverVersion, opts...)
	s.mcpServer.AddTools(
		server.ServerTool{Tool: buildTreeTool(), Handler: s.handleBuildTree},
		server.ServerTool{Tool: getTreeTool(), Handler: s.handleGetTree},
		server.ServerTool{Tool: reparseFileTool(), Handler: s.handleReparseFile},
		server.ServerTool{Tool: toggleNodeTool(), Handler: s.handleToggleNode},
		server.ServerTool{Tool: findNodesTool(), Handler: s.handleFindNodes},
		server.ServerTool{Tool: setTreeTool(), Handler: s.handleSetTree},
	)

	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close drops every session and releases the parser pools.
func (s *Server) Close() error {
	s.sessions.Purge()
	if s.ownsParser {
		return s.parser.Close()
	}
	return nil
}

// session returns the session for entry, creating an empty one if needed.
func (s *Server) session(entry string) (*tree.Session, string, error) {
	key, err := filepath.Abs(entry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve entry %q: %w", entry, err)
	}

	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if session, ok := s.sessions.Get(key); ok {
		return session, key, nil
	}

	builder, err := tree.NewBuilder(s.builder)
	if err != nil {
		return nil, "", err
	}
	session := tree.NewSession(builder)
	s.sessions.Add(key, session)
	return session, key, nil
}

// existingSession returns the session for entry only if a tree was built
// or set for it.
func (s *Server) existingSession(entry string) (*tree.Session, error) {
	key, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry %q: %w", entry, err)
	}
	session, ok := s.sessions.Get(key)
	if !ok || session.Tree() == nil {
		return nil, fmt.Errorf("%w for %s; call build_tree first", tree.ErrNoTree, key)
	}
	return session, nil
}

// SessionCount returns the number of cached sessions.
func (s *Server) SessionCount() int {
	return s.sessions.Len()
}
