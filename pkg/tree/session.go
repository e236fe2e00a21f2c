package tree

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNodeNotFound is returned by Toggle for an unknown node ID.
var ErrNodeNotFound = errors.New("node not found")

// Session holds the current tree for one entry file and serializes every
// operation on it. A watcher and an MCP server can share one Session.
type Session struct {
	mu      sync.Mutex
	builder *Builder
	root    *Node
}

func NewSession(builder *Builder) *Session {
	return &Session{builder: builder}
}

// Build replaces the current tree with a fresh build from entry. On error
// the current tree is kept.
func (s *Session) Build(entry string) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.builder.Build(entry)
	if err != nil {
		return nil, err
	}
	s.root = root
	return root, nil
}

// Tree returns the live tree, or nil before the first Build or SetTree.
// Callers that read it while other goroutines use the Session should use
// Snapshot instead.
func (s *Session) Tree() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Snapshot returns a deep copy of the current tree.
func (s *Session) Snapshot() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Clone()
}

// SetTree replaces the current tree, typically with one restored from JSON.
// Later reparses locate the project root from root.FilePath.
func (s *Session) SetTree(root *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if root != nil {
		root.normalize()
	}
	s.root = root
}

// Reparse rebuilds every subtree rooted at filePath and returns how many
// nodes were rebuilt.
func (s *Session) Reparse(filePath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == nil {
		return 0, ErrNoTree
	}
	n, err := s.builder.Reparse(s.root, filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to reparse %s: %w", filePath, err)
	}
	return n, nil
}

// Toggle sets the expansion flag of the node with the given ID.
func (s *Session) Toggle(id string, expanded bool) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == nil {
		return nil, ErrNoTree
	}
	if !ToggleExpansion(s.root, id, expanded) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return s.root, nil
}

// Traverse visits the current tree while holding the session lock.
func (s *Session) Traverse(visit Visitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Traverse(s.root, visit)
}

// Close releases the builder's resources.
func (s *Session) Close() error {
	return s.builder.Close()
}
