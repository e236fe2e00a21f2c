// Package extractor recovers import bindings, JSX component usages and the
// Redux connect pattern from a parsed file.
package extractor

import (
	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/resolver"
)

// NamespaceImport is the ImportName recorded for `import * as X` bindings.
const NamespaceImport = "*"

// Resolver turns a specifier written in fromFile into a Resolution.
// *resolver.Resolver satisfies it.
type Resolver interface {
	Resolve(specifier, fromFile string) resolver.Resolution
}

// Binding is the import metadata behind one local name.
type Binding struct {
	ImportPath string
	FilePath   string
	// ImportName is the exported name for named imports, NamespaceImport
	// for namespace imports and the local name for default imports and
	// dynamic-import declarations.
	ImportName string
}

// Imports maps local names to bindings and remembers the order in which the
// names were first bound.
type Imports struct {
	byName map[string]Binding
	order  []string
}

// NewImports returns an empty binding table.
func NewImports() *Imports {
	return &Imports{byName: make(map[string]Binding)}
}

// Set binds local. Rebinding a name keeps its original position.
func (im *Imports) Set(local string, b Binding) {
	if _, ok := im.byName[local]; !ok {
		im.order = append(im.order, local)
	}
	im.byName[local] = b
}

// Lookup returns the binding for local.
func (im *Imports) Lookup(local string) (Binding, bool) {
	b, ok := im.byName[local]
	return b, ok
}

// Names returns the bound local names in first-binding order.
func (im *Imports) Names() []string {
	out := make([]string, len(im.order))
	copy(out, im.order)
	return out
}

func (im *Imports) Len() int {
	return len(im.order)
}

// Bindings collects the bindings introduced by a file's top-level
// statements. Static imports bind every specifier. A variable declaration
// binds its first declarator's name when the initializer contains a
// dynamic import() with a string literal, as in
//
//	const Settings = lazy(() => import("./pages/Settings"))
//
// Every other statement is ignored.
func Bindings(stmts []parser.Statement, res Resolver, fromFile string) *Imports {
	imports := NewImports()

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.ImportDeclaration:
			if len(s.Specifiers) == 0 {
				continue
			}
			resolved := res.Resolve(s.Source, fromFile)
			for _, spec := range s.Specifiers {
				name := spec.Local
				if spec.Kind != parser.SpecifierDefault {
					name = spec.Imported
				}
				imports.Set(spec.Local, Binding{
					ImportPath: resolved.ImportPath,
					FilePath:   resolved.FilePath,
					ImportName: name,
				})
			}

		case *parser.VariableDeclaration:
			if len(s.Declarators) == 0 {
				continue
			}
			decl := s.Declarators[0]
			if decl.Name == "" || decl.Init == nil {
				continue
			}
			specifier, ok := findDynamicImport(decl.Init)
			if !ok {
				continue
			}
			resolved := res.Resolve(specifier, fromFile)
			imports.Set(decl.Name, Binding{
				ImportPath: resolved.ImportPath,
				FilePath:   resolved.FilePath,
				ImportName: decl.Name,
			})
		}
	}

	return imports
}

// findDynamicImport searches expr depth-first, in source order, for an
// import() call whose first argument is a string literal.
func findDynamicImport(expr parser.Expr) (string, bool) {
	switch e := expr.(type) {
	case *parser.ImportCall:
		return e.Specifier()
	case *parser.CallExpression:
		if e.Callee != nil {
			if spec, ok := findDynamicImport(e.Callee); ok {
				return spec, true
			}
		}
		for _, arg := range e.Arguments {
			if spec, ok := findDynamicImport(arg); ok {
				return spec, true
			}
		}
	case *parser.CompoundExpr:
		for _, part := range e.Parts {
			if spec, ok := findDynamicImport(part); ok {
				return spec, true
			}
		}
	}
	return "", false
}
