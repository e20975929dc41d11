package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	l := New(input)
	var out []TokenType
	for {
		tok := l.Next()
		out = append(out, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	types := tokenTypes(t, "x = 1 + 2.5\n")
	assert.Equal(t, []TokenType{IDENT, ASSIGN, INT, PLUS, FLOAT, NEWLINE, EOF}, types)
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	l := New("def foo")
	tok := l.Next()
	require.Equal(t, DEF, tok.Type)
	tok = l.Next()
	assert.Equal(t, IDENT, tok.Type)
	assert.Equal(t, "foo", tok.Value)
}

func TestLexerIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\nw = 3\n"
	types := tokenTypes(t, src)
	assert.Equal(t, []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT,
		IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE,
		DEDENT,
		IDENT, ASSIGN, INT, NEWLINE,
		EOF,
	}, types)
}

func TestLexerParenSuppressesNewline(t *testing.T) {
	src := "f(1,\n2)\n"
	types := tokenTypes(t, src)
	assert.Equal(t, []TokenType{
		IDENT, LPAREN, INT, COMMA, INT, RPAREN, NEWLINE, EOF,
	}, types)
}

func TestLexerStringLiteral(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.Next()
	require.Equal(t, STRING, tok.Type)
	assert.Equal(t, "hello world", tok.Value)
}

func TestLexerComparisonOperators(t *testing.T) {
	types := tokenTypes(t, "a <= b >= c == d != e\n")
	assert.Equal(t, []TokenType{
		IDENT, LE, IDENT, GE, IDENT, EQ, IDENT, NEQ, IDENT, NEWLINE, EOF,
	}, types)
}

// TestLexerBlankAndCommentLinesProduceNoIndentChange documents that blank
// and comment-only lines still surface as (redundant) NEWLINE tokens — they
// produce no INDENT/DEDENT either way — leaving it to the compiler's
// skipNewlines to collapse the run, the way a hand-written recursive-descent
// parser typically does rather than filtering in the lexer.
func TestLexerBlankAndCommentLinesProduceNoIndentChange(t *testing.T) {
	src := "x = 1\n\n# a comment\ny = 2\n"
	types := tokenTypes(t, src)
	for _, tt := range types {
		assert.NotEqual(t, INDENT, tt)
		assert.NotEqual(t, DEDENT, tt)
	}
	assert.Equal(t, EOF, types[len(types)-1])
}
