package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// significant drops punctuation and keywords so tests can compare the
// JSX-relevant part of the stream.
func significant(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenPunct, TokenOther, TokenKeyword:
			continue
		}
		out = append(out, Token{Kind: tok.Kind, Value: tok.Value})
	}
	return out
}

func TestTokens_SelfClosingElementWithProps(t *testing.T) {
	file := parseTSX(t, `<Foo bar="x" />;`)

	assert.Equal(t, []Token{
		{Kind: TokenJSXTagStart, Value: "<"},
		{Kind: TokenJSXName, Value: "Foo"},
		{Kind: TokenJSXName, Value: "bar"},
		{Kind: TokenEq, Value: "="},
		{Kind: TokenString, Value: `"x"`},
	}, significant(file.Tokens)[:5])

	last := significant(file.Tokens)[len(significant(file.Tokens))-1]
	assert.Equal(t, TokenJSXTagEnd, last.Kind)
}

func TestTokens_ClosingTagNameIsDistinct(t *testing.T) {
	file := parseTSX(t, `<Layout>text</Layout>;`)

	var kinds []TokenKind
	for _, tok := range significant(file.Tokens) {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokenJSXTagStart, TokenJSXName, TokenJSXTagEnd,
		TokenJSXText,
		TokenJSXTagStart, TokenJSXClosingName, TokenJSXTagEnd,
	}, kinds)
}

func TestTokens_ExpressionContainer(t *testing.T) {
	file := parseTSX(t, `<Route component={Home} />;`)

	sig := significant(file.Tokens)
	require.GreaterOrEqual(t, len(sig), 7)
	assert.Equal(t, TokenJSXName, sig[2].Kind)
	assert.Equal(t, "component", sig[2].Value)
	assert.Equal(t, TokenEq, sig[3].Kind)
	assert.Equal(t, TokenJSXExprStart, sig[4].Kind)
	assert.Equal(t, Token{Kind: TokenName, Value: "Home"}, sig[5])
	assert.Equal(t, TokenJSXExprEnd, sig[6].Kind)
}

func TestTokens_ExportDefault(t *testing.T) {
	file := parseTSX(t, `export default connect(mapState)(Counter);`)

	require.GreaterOrEqual(t, len(file.Tokens), 3)
	assert.True(t, file.Tokens[0].Is(TokenKeyword, "export"))
	assert.True(t, file.Tokens[1].Is(TokenKeyword, "default"))
	assert.True(t, file.Tokens[2].Is(TokenName, "connect"))
}

func TestTokens_CommentsDropped(t *testing.T) {
	file := parseTSX(t, "// <Nav />\nconst a = 1;")

	for _, tok := range file.Tokens {
		assert.NotEqual(t, TokenJSXTagStart, tok.Kind)
	}
}

func TestTokens_MemberExpressionTag(t *testing.T) {
	file := parseTSX(t, `<UI.Button />;`)

	sig := significant(file.Tokens)
	require.GreaterOrEqual(t, len(sig), 3)
	assert.Equal(t, Token{Kind: TokenJSXName, Value: "UI"}, sig[1])
	assert.Equal(t, Token{Kind: TokenJSXName, Value: "Button"}, sig[2])
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "jsxTagStart", TokenJSXTagStart.String())
	assert.Equal(t, "unknown", TokenKind(99).String())
}
