package tree

// Visitor is called once per node. It may modify the node it is given.
type Visitor func(node *Node)

// Traverse applies visit to node and its descendants in pre-order, children
// in stored order. Children are read after visit returns, so a visitor that
// replaces node.Children steers the walk into the new children.
func Traverse(node *Node, visit Visitor) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		Traverse(child, visit)
	}
}

// ToggleExpansion sets Expanded on the node whose ID is id and reports
// whether such a node exists.
func ToggleExpansion(root *Node, id string, expanded bool) bool {
	node := root.Find(id)
	if node == nil {
		return false
	}
	node.Expanded = expanded
	return true
}
