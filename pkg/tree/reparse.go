package tree

type expansionState struct {
	depth    int
	filePath string
}

// Reparse rebuilds the subtree of every node whose FilePath is filePath.
//
// Each matching node keeps its ID and Expanded flag. Its descendants are
// rebuilt with fresh IDs, and a new descendant is expanded when an old
// descendant with the same depth and file path was expanded. It returns
// the number of nodes rebuilt; zero when filePath is not in the tree.
func (b *Builder) Reparse(root *Node, filePath string) (int, error) {
	if root == nil {
		return 0, ErrNoTree
	}

	var targets []*Node
	Traverse(root, func(node *Node) {
		if node.FilePath == filePath && !node.inCycle() {
			targets = append(targets, node)
		}
	})
	if len(targets) == 0 {
		return 0, nil
	}

	res, err := b.resolverFor(root.FilePath)
	if err != nil {
		return 0, err
	}

	b.logger.Debug("reparsing file",
		"file", filePath,
		"nodes", len(targets))

	for _, node := range targets {
		expanded := make(map[expansionState]bool)
		for _, child := range node.Children {
			Traverse(child, func(n *Node) {
				if n.Expanded {
					expanded[expansionState{n.Depth, n.FilePath}] = true
				}
			})
		}

		node.Children = []*Node{}
		node.Error = ""
		node.ReduxConnect = false
		b.parse(node, res)

		for _, child := range node.Children {
			Traverse(child, func(n *Node) {
				if expanded[expansionState{n.Depth, n.FilePath}] {
					n.Expanded = true
				}
			})
		}
	}

	return len(targets), nil
}
