// Package tree builds and maintains the component tree of a React project.
package tree

import (
	"maps"
	"slices"
)

// Node is one component in the tree. The same file can appear as several
// nodes when it is rendered from different places.
type Node struct {
	// ID is regenerated every time the node's parent is (re)parsed.
	ID string `json:"id"`
	// Name is the imported binding name, or the entry file's base name
	// without extension for the root.
	Name string `json:"name"`
	// FileName is the resolved file's base name, or the raw specifier for
	// third-party modules. Children of one parent are unique by FileName.
	FileName   string `json:"fileName"`
	FilePath   string `json:"filePath"`
	ImportPath string `json:"importPath"`
	Expanded   bool   `json:"expanded"`
	Depth      int    `json:"depth"`
	// Count is the number of usage sites in the parent merged into this node.
	Count        int  `json:"count"`
	ThirdParty   bool `json:"thirdParty"`
	ReactRouter  bool `json:"reactRouter"`
	ReduxConnect bool `json:"reduxConnect"`

	Children []*Node `json:"children"`
	// ParentList holds ancestor file paths, nearest first. It is only used
	// to stop import cycles.
	ParentList []string        `json:"parentList"`
	Props      map[string]bool `json:"props"`
	Error      string          `json:"error"`
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.ParentList = slices.Clone(n.ParentList)
	c.Props = maps.Clone(n.Props)
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Find returns the first node in pre-order whose ID is id.
func (n *Node) Find(id string) *Node {
	var found *Node
	Traverse(n, func(node *Node) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}

// inCycle reports whether the node's own file is one of its ancestors.
func (n *Node) inCycle() bool {
	return slices.Contains(n.ParentList, n.FilePath)
}

// normalize fills nil slices and maps so that a tree decoded from JSON
// behaves like a built one.
func (n *Node) normalize() {
	Traverse(n, func(node *Node) {
		if node.Children == nil {
			node.Children = []*Node{}
		}
		if node.ParentList == nil {
			node.ParentList = []string{}
		}
		if node.Props == nil {
			node.Props = map[string]bool{}
		}
	})
}
