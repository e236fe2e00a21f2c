package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTSX(t *testing.T, code string) *SourceFile {
	t.Helper()
	manager := newTestManager(t, Options{})
	file, err := manager.ParseSource("/proj/src/App.tsx", []byte(code))
	require.NoError(t, err)
	return file
}

func TestStatements_StaticImports(t *testing.T) {
	file := parseTSX(t, `
import React from "react";
import { connect, Provider as StoreProvider } from "react-redux";
import * as UI from "@/components/ui";
import "./styles.css";
`)

	require.Len(t, file.Statements, 4)

	def, ok := file.Statements[0].(*ImportDeclaration)
	require.True(t, ok)
	assert.Equal(t, "react", def.Source)
	assert.Equal(t, []ImportSpecifier{{Kind: SpecifierDefault, Local: "React"}}, def.Specifiers)

	named := file.Statements[1].(*ImportDeclaration)
	assert.Equal(t, "react-redux", named.Source)
	assert.Equal(t, []ImportSpecifier{
		{Kind: SpecifierNamed, Local: "connect", Imported: "connect"},
		{Kind: SpecifierNamed, Local: "StoreProvider", Imported: "Provider"},
	}, named.Specifiers)

	ns := file.Statements[2].(*ImportDeclaration)
	assert.Equal(t, []ImportSpecifier{{Kind: SpecifierNamespace, Local: "UI", Imported: "*"}}, ns.Specifiers)

	sideEffect := file.Statements[3].(*ImportDeclaration)
	assert.Equal(t, "./styles.css", sideEffect.Source)
	assert.Empty(t, sideEffect.Specifiers)
}

func TestStatements_DynamicImportInitializer(t *testing.T) {
	file := parseTSX(t, `const Page = lazy(() => import("./pages/Page"));`)

	require.Len(t, file.Statements, 1)
	decl, ok := file.Statements[0].(*VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "const", decl.Kind)
	require.Len(t, decl.Declarators, 1)
	assert.Equal(t, "Page", decl.Declarators[0].Name)

	call, ok := decl.Declarators[0].Init.(*CallExpression)
	require.True(t, ok)
	assert.Equal(t, &Identifier{Name: "lazy"}, call.Callee)
	require.Len(t, call.Arguments, 1)

	arrow, ok := call.Arguments[0].(*CompoundExpr)
	require.True(t, ok)
	assert.Equal(t, "arrow_function", arrow.Kind)

	var found *ImportCall
	for _, part := range arrow.Parts {
		if ic, ok := part.(*ImportCall); ok {
			found = ic
		}
	}
	require.NotNil(t, found)
	spec, ok := found.Specifier()
	assert.True(t, ok)
	assert.Equal(t, "./pages/Page", spec)
}

func TestStatements_OtherStatementsKept(t *testing.T) {
	file := parseTSX(t, `
function App() { return null; }
export default App;
`)

	require.Len(t, file.Statements, 2)
	assert.Equal(t, &OtherStatement{Kind: "function_declaration"}, file.Statements[0])
	assert.Equal(t, &OtherStatement{Kind: "export_statement"}, file.Statements[1])
}

func TestImportCall_NonLiteralSpecifier(t *testing.T) {
	call := &ImportCall{Arguments: []Expr{&Identifier{Name: "path"}}}
	_, ok := call.Specifier()
	assert.False(t, ok)

	_, ok = (&ImportCall{}).Specifier()
	assert.False(t, ok)
}

func TestStatements_EscapedSpecifiers(t *testing.T) {
	file := parseTSX(t, `
import A from "./a\u0062c";
import B from './it\'s';
import C from "./\x42tn";
const D = lazy(() => import("./pa\u{67}e"));
import E from "";
`)

	require.Len(t, file.Statements, 5)
	assert.Equal(t, "./abc", file.Statements[0].(*ImportDeclaration).Source)
	assert.Equal(t, "./it's", file.Statements[1].(*ImportDeclaration).Source)
	assert.Equal(t, "./Btn", file.Statements[2].(*ImportDeclaration).Source)
	assert.Equal(t, "", file.Statements[4].(*ImportDeclaration).Source)

	decl := file.Statements[3].(*VariableDeclaration)
	call := decl.Declarators[0].Init.(*CallExpression)
	arrow := call.Arguments[0].(*CompoundExpr)
	var specifier string
	for _, part := range arrow.Parts {
		if ic, ok := part.(*ImportCall); ok {
			specifier, _ = ic.Specifier()
		}
	}
	assert.Equal(t, "./page", specifier)
}

func TestDecodeEscape(t *testing.T) {
	tests := map[string]string{
		`\n`:        "\n",
		`\x41`:      "A",
		`\u0062`:    "b",
		`\u{1F600}`: "\U0001F600",
		`\'`:        "'",
		`\/`:        "/",
		"\\\n":      "",
	}
	for esc, want := range tests {
		assert.Equal(t, want, decodeEscape(esc), "escape %q", esc)
	}
}
