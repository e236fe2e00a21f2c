package parser

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// TokenKind labels a token in the flat stream produced for a file.
type TokenKind int

const (
	TokenOther TokenKind = iota
	// TokenJSXTagStart is the "<" opening any JSX tag, including closing tags.
	TokenJSXTagStart
	// TokenJSXTagEnd is the ">" or "/>" ending a JSX tag.
	TokenJSXTagEnd
	// TokenJSXName is an element name or attribute name inside an opening tag.
	TokenJSXName
	// TokenJSXClosingName is an element name inside a closing tag.
	TokenJSXClosingName
	// TokenName is a plain identifier outside JSX tag syntax.
	TokenName
	// TokenEq is the "=" between a JSX attribute and its value.
	TokenEq
	// TokenJSXExprStart and TokenJSXExprEnd delimit a JSX expression container.
	TokenJSXExprStart
	TokenJSXExprEnd
	// TokenKeyword is a reserved word such as export, default or import.
	TokenKeyword
	TokenString
	TokenJSXText
	TokenPunct
)

var tokenKindNames = map[TokenKind]string{
	TokenOther:          "other",
	TokenJSXTagStart:    "jsxTagStart",
	TokenJSXTagEnd:      "jsxTagEnd",
	TokenJSXName:        "jsxName",
	TokenJSXClosingName: "jsxClosingName",
	TokenName:           "name",
	TokenEq:             "eq",
	TokenJSXExprStart:   "jsxExpressionStart",
	TokenJSXExprEnd:     "jsxExpressionEnd",
	TokenKeyword:        "keyword",
	TokenString:         "string",
	TokenJSXText:        "jsxText",
	TokenPunct:          "punct",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is one lexical unit. Line and Column are 1-based.
type Token struct {
	Kind   TokenKind
	Value  string
	Line   int
	Column int
}

// Is reports whether the token has the given kind and value.
func (t Token) Is(kind TokenKind, value string) bool {
	return t.Kind == kind && t.Value == value
}

// atomicKinds are emitted as a single token instead of being descended into.
var atomicKinds = map[string]TokenKind{
	"string":                   TokenString,
	"regex":                    TokenString,
	"number":                   TokenOther,
	"jsx_text":                 TokenJSXText,
	"html_character_reference": TokenJSXText,
}

var identifierKinds = map[string]bool{
	"identifier":                            true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"type_identifier":                       true,
	"statement_identifier":                  true,
	"private_property_identifier":           true,
}

var namedKeywords = map[string]bool{
	"this":      true,
	"super":     true,
	"true":      true,
	"false":     true,
	"null":      true,
	"undefined": true,
	"import":    true,
}

var jsxTagKinds = map[string]bool{
	"jsx_opening_element":      true,
	"jsx_closing_element":      true,
	"jsx_self_closing_element": true,
}

// buildTokens flattens the syntax tree into source-ordered tokens. Comments
// and zero-width MISSING nodes are dropped.
func buildTokens(root *ts.Node, source []byte) []Token {
	tokens := make([]Token, 0, 256)
	collectTokens(root, source, &tokens)
	return tokens
}

func collectTokens(node *ts.Node, source []byte, out *[]Token) {
	if node == nil || node.IsMissing() {
		return
	}

	kind := node.Kind()
	if kind == "comment" || kind == "html_comment" {
		return
	}

	if _, atomic := atomicKinds[kind]; atomic || node.ChildCount() == 0 {
		*out = append(*out, Token{
			Kind:   classify(node),
			Value:  node.Utf8Text(source),
			Line:   int(node.StartPosition().Row) + 1,
			Column: int(node.StartPosition().Column) + 1,
		})
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		collectTokens(node.Child(i), source, out)
	}
}

// classify assigns a TokenKind to a leaf using its parent for JSX context.
func classify(node *ts.Node) TokenKind {
	kind := node.Kind()
	if k, ok := atomicKinds[kind]; ok {
		return k
	}

	parentKind := ""
	if parent := node.Parent(); parent != nil {
		parentKind = parent.Kind()
	}

	switch {
	case kind == "<" && jsxTagKinds[parentKind]:
		return TokenJSXTagStart
	case (kind == ">" || kind == "/>") && jsxTagKinds[parentKind]:
		return TokenJSXTagEnd
	case kind == "=" && parentKind == "jsx_attribute":
		return TokenEq
	case kind == "{" && parentKind == "jsx_expression":
		return TokenJSXExprStart
	case kind == "}" && parentKind == "jsx_expression":
		return TokenJSXExprEnd
	case identifierKinds[kind]:
		if jsxKind, ok := jsxNameKind(node); ok {
			return jsxKind
		}
		return TokenName
	case kind == "string_fragment" || kind == "escape_sequence":
		return TokenString
	case node.IsNamed():
		if namedKeywords[kind] {
			return TokenKeyword
		}
		return TokenOther
	case isWord(kind):
		return TokenKeyword
	default:
		return TokenPunct
	}
}

// jsxNameKind reports whether an identifier names a JSX element or
// attribute, looking through member expressions (<UI.Button>) and
// namespaced names (<svg:rect>).
func jsxNameKind(node *ts.Node) (TokenKind, bool) {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "member_expression", "nested_identifier", "jsx_namespace_name":
			continue
		case "jsx_opening_element", "jsx_self_closing_element", "jsx_attribute":
			return TokenJSXName, true
		case "jsx_closing_element":
			return TokenJSXClosingName, true
		}
		return TokenOther, false
	}
	return TokenOther, false
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return false
		}
	}
	return true
}
