package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weave-lang/weave/internal/token"
)

func TestLex_OperatorsAndKeywords(t *testing.T) {
	input := `if (x >= 1 && not y) { goto start; } else { label start; }`

	toks := Lex(input)

	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}

	require.Equal(t, []token.Kind{
		token.IF, token.LPAREN, token.IDENT, token.GE, token.INT, token.AND, token.BANG, token.IDENT, token.RPAREN,
		token.LBRACE, token.GOTO, token.IDENT, token.SEMI, token.RBRACE,
		token.ELSE, token.LBRACE, token.LABEL, token.IDENT, token.SEMI, token.RBRACE,
		token.EOF,
	}, kinds)
}

func TestLex_TwoCharOperatorsBeforeOneChar(t *testing.T) {
	toks := Lex("a == b != c <= d >= e")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT,
		token.LE, token.IDENT, token.GE, token.IDENT, token.EOF,
	}, kinds)
}

func TestLex_StringLiteralUnquoted(t *testing.T) {
	toks := Lex(`Print("hello world")`)
	require.Equal(t, token.STRING, toks[2].Kind)
	require.Equal(t, "hello world", toks[2].Lexeme)
}

func TestLex_NumbersIntAndFloat(t *testing.T) {
	toks := Lex("42 3.14 counter")
	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, "42", toks[0].Lexeme)
	require.Equal(t, token.FLOAT, toks[1].Kind)
	require.Equal(t, "3.14", toks[1].Lexeme)
	require.Equal(t, token.IDENT, toks[2].Kind)
}

func TestLex_CommentsAreSkipped(t *testing.T) {
	toks := Lex("x = 1; // trailing comment\ny = 2;")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.EOF,
	}, kinds)
}

func TestLex_IllegalCharacter(t *testing.T) {
	toks := Lex("x = @;")
	require.Equal(t, token.ILLEGAL, toks[2].Kind)
	require.Equal(t, "@", toks[2].Lexeme)
}

// TestLex_Deterministic covers the spec's lexer determinism invariant:
// lex(s) == lex(s).
func TestLex_Deterministic(t *testing.T) {
	input := `if(x>0){ y = x+1; } else { y = 0; }`
	require.Equal(t, Lex(input), Lex(input))
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}
