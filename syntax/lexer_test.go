package syntax

import (
	"bufio"
	"strings"
	"testing"

	"clarity/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexAll drains the lexer over src, returning every token through EOF.
func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	lexer := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []*Token
	for {
		tok, err := lexer.NextToken()
		require.NoError(t, err)

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

// lexError drains the lexer over src until it produces an error.
func lexError(t *testing.T, src string) error {
	t.Helper()

	lexer := NewLexer(bufio.NewReader(strings.NewReader(src)))
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return err
		}

		require.NotEqual(t, TOK_EOF, tok.Kind, "expected a lex error in `%s`", src)
	}
}

func TestLexBasicTokens(t *testing.T) {
	toks := lexAll(t, "(define-read-only (get-x) 1)")

	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	assert.Equal(t, []int{
		TOK_LPAREN, TOK_IDENT, TOK_LPAREN, TOK_IDENT, TOK_RPAREN,
		TOK_INTLIT, TOK_RPAREN, TOK_EOF,
	}, kinds)

	assert.Equal(t, "define-read-only", toks[1].Value)
	assert.Equal(t, "get-x", toks[3].Value)
}

func TestLexLiterals(t *testing.T) {
	cases := []struct {
		src   string
		kind  int
		value string
	}{
		{"123", TOK_INTLIT, "123"},
		{"-45", TOK_INTLIT, "-45"},
		{"u789", TOK_UINTLIT, "u789"},
		{"true", TOK_BOOLLIT, "true"},
		{"false", TOK_BOOLLIT, "false"},
		{`"hello"`, TOK_STRINGLIT, "hello"},
		{`"a\nb\"c\\d"`, TOK_STRINGLIT, "a\nb\"c\\d"},
		{".token-contract", TOK_PRINCIPALLIT, "token-contract"},
	}

	for _, c := range cases {
		toks := lexAll(t, c.src)
		require.Len(t, toks, 2, c.src)
		assert.Equal(t, c.kind, toks[0].Kind, c.src)
		assert.Equal(t, c.value, toks[0].Value, c.src)
	}
}

func TestLexOperators(t *testing.T) {
	toks := lexAll(t, "+ - * / < <= > >= is-eq")

	var values []string
	for _, tok := range toks[:len(toks)-1] {
		assert.Equal(t, TOK_IDENT, tok.Kind, tok.Value)
		values = append(values, tok.Value)
	}

	assert.Equal(t, []string{"+", "-", "*", "/", "<", "<=", ">", ">=", "is-eq"}, values)
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, ";; a comment\n(+ 1 2) ;; trailing\n;; final")

	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	assert.Equal(t, []int{
		TOK_LPAREN, TOK_IDENT, TOK_INTLIT, TOK_INTLIT, TOK_RPAREN, TOK_EOF,
	}, kinds)
}

func TestLexSpans(t *testing.T) {
	toks := lexAll(t, "(var-get\n  counter)")

	assert.Equal(t, &report.TextSpan{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 1}, toks[0].Span)
	assert.Equal(t, &report.TextSpan{StartLine: 0, StartCol: 1, EndLine: 0, EndCol: 8}, toks[1].Span)
	assert.Equal(t, &report.TextSpan{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 9}, toks[2].Span)
	assert.Equal(t, &report.TextSpan{StartLine: 1, StartCol: 9, EndLine: 1, EndCol: 10}, toks[3].Span)
}

func TestLexErrors(t *testing.T) {
	for _, src := range []string{
		`"unclosed`,
		"\"line\nbreak\"",
		`"bad \q escape"`,
		"12abc",
		"u7x",
		"# nope",
		"; lonely",
		". gap",
	} {
		err := lexError(t, src)

		serr, ok := err.(*report.SourceError)
		require.True(t, ok, "`%s` should produce a source error", src)
		assert.NotNil(t, serr.Span, src)
	}
}
