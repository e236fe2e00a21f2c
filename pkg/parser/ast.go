package parser

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// SourceFile is the parsed form of one file: its top-level statements and its
// flat token stream.
type SourceFile struct {
	Path       string
	Language   Language
	Statements []Statement
	Tokens     []Token
}

// Statement is a top-level statement. Only imports and variable declarations
// carry structure; everything else is an OtherStatement.
type Statement interface {
	statementNode()
}

// SpecifierKind distinguishes the three static import specifier forms.
type SpecifierKind int

const (
	SpecifierDefault   SpecifierKind = iota // import Foo from "x"
	SpecifierNamed                          // import { Foo as Bar } from "x"
	SpecifierNamespace                      // import * as Foo from "x"
)

// ImportSpecifier is one binding introduced by a static import.
type ImportSpecifier struct {
	Kind SpecifierKind
	// Local is the name bound in the importing file.
	Local string
	// Imported is the exported name for named specifiers and "*" for
	// namespace specifiers. Empty for default specifiers.
	Imported string
}

// ImportDeclaration is `import ... from "source"`.
type ImportDeclaration struct {
	Source     string
	Specifiers []ImportSpecifier
	Line       int
}

// VariableDeclaration is a const/let/var statement.
type VariableDeclaration struct {
	Kind        string
	Declarators []VariableDeclarator
	Line        int
}

// VariableDeclarator is one `name = init` pair. Name is empty when the target
// is a destructuring pattern. Init is nil when there is no initializer.
type VariableDeclarator struct {
	Name string
	Init Expr
}

// OtherStatement is any top-level statement the analyzer does not inspect.
type OtherStatement struct {
	Kind string
}

func (*ImportDeclaration) statementNode()   {}
func (*VariableDeclaration) statementNode() {}
func (*OtherStatement) statementNode()      {}

// Expr is a sum type over the expression shapes the analyzer cares about.
// Everything that is not an identifier, a string, or a call is a
// CompoundExpr holding its sub-expressions in source order.
type Expr interface {
	exprNode()
}

type Identifier struct {
	Name string
}

type StringLiteral struct {
	Value string
}

// ImportCall is a dynamic `import(...)` expression.
type ImportCall struct {
	Arguments []Expr
}

type CallExpression struct {
	Callee    Expr
	Arguments []Expr
}

type CompoundExpr struct {
	Kind  string
	Parts []Expr
}

func (*Identifier) exprNode()     {}
func (*StringLiteral) exprNode()  {}
func (*ImportCall) exprNode()     {}
func (*CallExpression) exprNode() {}
func (*CompoundExpr) exprNode()   {}

// Specifier returns the module specifier when the first argument is a
// string literal.
func (c *ImportCall) Specifier() (string, bool) {
	if len(c.Arguments) == 0 {
		return "", false
	}
	lit, ok := c.Arguments[0].(*StringLiteral)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// buildStatements converts the children of a program node.
func buildStatements(root *ts.Node, source []byte) []Statement {
	stmts := make([]Statement, 0, root.NamedChildCount())

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil || child.IsExtra() {
			continue
		}

		switch child.Kind() {
		case "import_statement":
			stmts = append(stmts, buildImport(child, source))
		case "lexical_declaration", "variable_declaration":
			stmts = append(stmts, buildVariableDeclaration(child, source))
		default:
			stmts = append(stmts, &OtherStatement{Kind: child.Kind()})
		}
	}

	return stmts
}

func buildImport(node *ts.Node, source []byte) *ImportDeclaration {
	decl := &ImportDeclaration{Line: int(node.StartPosition().Row) + 1}

	if src := node.ChildByFieldName("source"); src != nil {
		decl.Source = stringContent(src, source)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "import_clause" {
			decl.Specifiers = buildImportClause(child, source)
		}
	}

	return decl
}

// buildImportClause handles `Foo`, `* as Foo` and `{ Foo, Bar as Baz }`.
func buildImportClause(node *ts.Node, source []byte) []ImportSpecifier {
	var specs []ImportSpecifier

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier":
			specs = append(specs, ImportSpecifier{
				Kind:  SpecifierDefault,
				Local: child.Utf8Text(source),
			})
		case "namespace_import":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				id := child.NamedChild(j)
				if id.Kind() == "identifier" {
					specs = append(specs, ImportSpecifier{
						Kind:     SpecifierNamespace,
						Local:    id.Utf8Text(source),
						Imported: "*",
					})
				}
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				imported := name.Utf8Text(source)
				if name.Kind() == "string" {
					imported = stringContent(name, source)
				}
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Utf8Text(source)
				}
				specs = append(specs, ImportSpecifier{
					Kind:     SpecifierNamed,
					Local:    local,
					Imported: imported,
				})
			}
		}
	}

	return specs
}

func buildVariableDeclaration(node *ts.Node, source []byte) *VariableDeclaration {
	decl := &VariableDeclaration{Line: int(node.StartPosition().Row) + 1}
	if node.ChildCount() > 0 {
		decl.Kind = node.Child(0).Kind()
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "variable_declarator" {
			continue
		}

		var d VariableDeclarator
		if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			d.Name = name.Utf8Text(source)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = buildExpr(value, source)
		}
		decl.Declarators = append(decl.Declarators, d)
	}

	return decl
}

// buildExpr converts a syntax node into the Expr sum type. Unknown shapes
// become CompoundExpr so that nested calls stay reachable.
func buildExpr(node *ts.Node, source []byte) Expr {
	switch node.Kind() {
	case "identifier":
		return &Identifier{Name: node.Utf8Text(source)}
	case "string":
		return &StringLiteral{Value: stringContent(node, source)}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		args := buildArguments(node.ChildByFieldName("arguments"), source)
		if fn != nil && fn.Kind() == "import" {
			return &ImportCall{Arguments: args}
		}
		var callee Expr
		if fn != nil {
			callee = buildExpr(fn, source)
		}
		return &CallExpression{Callee: callee, Arguments: args}
	}

	compound := &CompoundExpr{Kind: node.Kind()}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.IsExtra() {
			continue
		}
		compound.Parts = append(compound.Parts, buildExpr(child, source))
	}
	return compound
}

func buildArguments(node *ts.Node, source []byte) []Expr {
	if node == nil {
		return nil
	}
	// Tagged templates carry a template_string instead of an argument list.
	if node.Kind() != "arguments" {
		return []Expr{buildExpr(node, source)}
	}

	args := make([]Expr, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.IsExtra() {
			continue
		}
		args = append(args, buildExpr(child, source))
	}
	return args
}

// stringContent returns the value of a string node: its fragments joined
// with escape sequences decoded.
func stringContent(node *ts.Node, source []byte) string {
	var b strings.Builder
	parts := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(child.Utf8Text(source))
			parts++
		case "escape_sequence":
			b.WriteString(decodeEscape(child.Utf8Text(source)))
			parts++
		}
	}
	if parts > 0 {
		return b.String()
	}

	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// decodeEscape decodes one JavaScript escape sequence such as \n, \x41,
// \u0062 or \u{1F600}. Escapes of ordinary characters drop the backslash.
func decodeEscape(esc string) string {
	if strings.HasPrefix(esc, `\u{`) && strings.HasSuffix(esc, "}") {
		if r, err := strconv.ParseUint(esc[3:len(esc)-1], 16, 32); err == nil {
			return string(rune(r))
		}
		return esc
	}
	if strings.HasPrefix(esc, "\\\n") || strings.HasPrefix(esc, "\\\r") {
		// Line continuation.
		return ""
	}
	if value, err := strconv.Unquote(`"` + esc + `"`); err == nil {
		return value
	}
	return strings.TrimPrefix(esc, `\`)
}
