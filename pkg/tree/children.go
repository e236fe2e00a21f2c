package tree

import (
	"maps"
	"path/filepath"

	"github.com/gnana997/comptree/pkg/extractor"
	"github.com/gnana997/comptree/pkg/resolver"
)

// children merges usages into child nodes keyed by file name, in order of
// first discovery. Two bindings resolving to files with the same base name
// share one node even when the files live in different directories.
func (b *Builder) children(parent *Node, usages []*extractor.Usage) []*Node {
	children := []*Node{}
	byFileName := make(map[string]*Node, len(usages))

	for _, usage := range usages {
		fileName := childFileName(usage.Binding)

		if existing, ok := byFileName[fileName]; ok {
			existing.Count++
			maps.Copy(existing.Props, usage.Props)
			continue
		}

		props := maps.Clone(usage.Props)
		if props == nil {
			props = map[string]bool{}
		}

		name := usage.Binding.ImportName
		if name == extractor.NamespaceImport {
			name = usage.Local
		}

		child := &Node{
			ID:         b.ids(),
			Name:       name,
			FileName:   fileName,
			FilePath:   usage.Binding.FilePath,
			ImportPath: usage.Binding.ImportPath,
			Depth:      parent.Depth + 1,
			Count:      1,
			ThirdParty: resolver.IsThirdParty(usage.Binding.ImportPath),
			Children:   []*Node{},
			ParentList: append([]string{parent.FilePath}, parent.ParentList...),
			Props:      props,
		}
		byFileName[fileName] = child
		children = append(children, child)
	}

	return children
}

// childFileName is the resolved file's base name. Bindings that never
// resolved to a file (package imports) keep the raw specifier.
func childFileName(b extractor.Binding) string {
	if !filepath.IsAbs(b.FilePath) {
		return b.FilePath
	}
	return filepath.Base(b.FilePath)
}
