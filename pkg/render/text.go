// Package render turns a component tree into terminal text or JSON.
package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/gnana997/comptree/pkg/tree"
)

const (
	branchColor     = "#626262"
	nameColor       = "#FAFAFA"
	pathColor       = "#8A8A8A"
	thirdPartyColor = "#5F87FF"
	reduxColor      = "#AF87FF"
	errorColor      = "#FF5F5F"
	propsColor      = "#87AF87"
)

// TextOptions controls Text.
type TextOptions struct {
	// ExpandedOnly hides the children of nodes whose Expanded flag is false.
	// The root's children are always shown.
	ExpandedOnly bool
	// MaxDepth stops descending below this depth. Zero means unlimited.
	MaxDepth int
	// ShowProps appends the prop names seen on each usage.
	ShowProps bool
	// ShowIDs appends node IDs, which toggle_node needs.
	ShowIDs bool
}

// Text renders root as an indented tree, one component per line:
//
//	index (./src/app/)
//	├── Provider [third-party]
//	└── App (./src/App)
//	    ├── Header ×2 (./src/components/Header) [redux]
//	    └── Footer (./src/components/Footer)
func Text(root *tree.Node, opts TextOptions) string {
	if root == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor)).Render("No tree built.") + "\n"
	}

	branchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(branchColor))
	t := buildTree(root, opts, &branchStyle)
	return t.String() + "\n"
}

func buildTree(node *tree.Node, opts TextOptions, branchStyle *lipgloss.Style) *ltree.Tree {
	t := ltree.New().
		Root(label(node, opts)).
		EnumeratorStyle(*branchStyle)

	if opts.MaxDepth > 0 && node.Depth >= opts.MaxDepth {
		return t
	}
	if opts.ExpandedOnly && node.Depth > 0 && !node.Expanded {
		return t
	}

	for _, child := range node.Children {
		t.Child(buildTree(child, opts, branchStyle))
	}
	return t
}

func label(node *tree.Node, opts TextOptions) string {
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(nameColor)).Bold(true)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(pathColor))

	var b strings.Builder
	b.WriteString(nameStyle.Render(node.Name))

	if node.Count > 1 {
		fmt.Fprintf(&b, " ×%d", node.Count)
	}
	if !node.ThirdParty && node.ImportPath != "" {
		b.WriteString(" " + pathStyle.Render("("+node.ImportPath+")"))
	}

	for _, marker := range markers(node) {
		b.WriteString(" " + marker)
	}

	if opts.ShowProps && len(node.Props) > 0 {
		propsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(propsColor))
		b.WriteString(" " + propsStyle.Render("{"+strings.Join(PropNames(node), ", ")+"}"))
	}
	if opts.ShowIDs {
		b.WriteString(" " + pathStyle.Render("#"+node.ID))
	}

	return b.String()
}

func markers(node *tree.Node) []string {
	var out []string
	if node.ThirdParty {
		out = append(out, lipgloss.NewStyle().Foreground(lipgloss.Color(thirdPartyColor)).Render("[third-party]"))
	}
	if node.ReduxConnect {
		out = append(out, lipgloss.NewStyle().Foreground(lipgloss.Color(reduxColor)).Render("[redux]"))
	}
	if node.Error != "" {
		out = append(out, lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor)).Render("[error: "+node.Error+"]"))
	}
	return out
}

// PropNames returns the node's prop names in sorted order.
func PropNames(node *tree.Node) []string {
	names := make([]string, 0, len(node.Props))
	for name, present := range node.Props {
		if present {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
