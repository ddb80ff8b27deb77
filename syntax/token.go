package syntax

import "clarity/report"

// Token represents a single lexical token.
type Token struct {
	// The token's kind.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The span over which the token occurs.
	Span *report.TextSpan
}

// Enumeration of the different kinds of tokens.
const (
	TOK_LPAREN = iota
	TOK_RPAREN
	TOK_IDENT
	TOK_INTLIT
	TOK_UINTLIT
	TOK_BOOLLIT
	TOK_STRINGLIT
	TOK_PRINCIPALLIT
	TOK_EOF
)
