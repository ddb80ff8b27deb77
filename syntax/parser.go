package syntax

import (
	"bufio"
	"strconv"
	"strings"

	"clarity/ast"
	"clarity/report"
)

// Parser is responsible for producing a contract's expression tree from its
// source text.  It is a recursive descent parser over the lexer's token
// stream; a parser is created once per source unit.
type Parser struct {
	// The lexer the parser reads tokens from.
	lexer *Lexer

	// The token the parser is currently positioned on.
	tok *Token

	// The current expression nesting depth.
	depth int
}

// maxNestingDepth is the expression nesting at which the parser rejects the
// source as pathologically deep.  Well-formed contracts are bounded much
// earlier by the analysis passes that run over the parsed tree.
const maxNestingDepth = 256

// NewParser creates a new parser reading from the given reader.
func NewParser(r *bufio.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// ParseSource parses a complete source string into its top-level expressions.
func ParseSource(src string) ([]ast.Expr, error) {
	return NewParser(bufio.NewReader(strings.NewReader(src))).Parse()
}

// Parse consumes the whole token stream and returns the ordered top-level
// expressions of the contract.
func (p *Parser) Parse() ([]ast.Expr, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	var exprs []ast.Expr
	for p.tok.Kind != TOK_EOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	return exprs, nil
}

// -----------------------------------------------------------------------------

// parseExpr parses a single expression.  It assumes the parser is positioned
// on the expression's first token and consumes through its last token.
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.tok.Kind {
	case TOK_LPAREN:
		return p.parseList()
	case TOK_INTLIT:
		value, err := strconv.ParseInt(p.tok.Value, 10, 64)
		if err != nil {
			return nil, report.Raise(p.tok.Span, "integer literal out of range")
		}

		return p.finishValue(ast.IntValue(value))
	case TOK_UINTLIT:
		// The token value carries the `u` prefix.
		value, err := strconv.ParseUint(p.tok.Value[1:], 10, 64)
		if err != nil {
			return nil, report.Raise(p.tok.Span, "integer literal out of range")
		}

		return p.finishValue(ast.UIntValue(value))
	case TOK_BOOLLIT:
		return p.finishValue(ast.BoolValue(p.tok.Value == "true"))
	case TOK_STRINGLIT:
		return p.finishValue(ast.StringValue(p.tok.Value))
	case TOK_PRINCIPALLIT:
		if !ast.IsValidContractName(p.tok.Value) {
			return nil, report.Raise(p.tok.Span, "`%s` is not a valid contract name", p.tok.Value)
		}

		return p.finishValue(ast.ContractPrincipal{Contract: ast.ContractName(p.tok.Value)})
	case TOK_IDENT:
		if !ast.IsValidName(p.tok.Value) {
			return nil, report.Raise(p.tok.Span, "`%s` is not a valid name", p.tok.Value)
		}

		expr := &ast.AtomExpr{ExprBase: ast.NewExprBaseOn(p.tok.Span), Name: ast.Name(p.tok.Value)}
		return expr, p.next()
	case TOK_RPAREN:
		return nil, report.Raise(p.tok.Span, "unexpected `)`")
	default: // TOK_EOF
		return nil, report.Raise(p.tok.Span, "unexpected end of file")
	}
}

// finishValue produces a value expression over the current token and advances
// the parser past it.
func (p *Parser) finishValue(value ast.Value) (ast.Expr, error) {
	expr := &ast.ValueExpr{ExprBase: ast.NewExprBaseOn(p.tok.Span), Value: value}
	return expr, p.next()
}

// parseList parses a parenthesized list of expressions.
func (p *Parser) parseList() (ast.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > maxNestingDepth {
		return nil, report.Raise(p.tok.Span, "expression nesting too deep")
	}

	start := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	var elems []ast.Expr
	for p.tok.Kind != TOK_RPAREN {
		if p.tok.Kind == TOK_EOF {
			return nil, report.Raise(report.NewSpanOver(start, p.tok.Span), "unclosed `(`")
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, elem)
	}

	end := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	return &ast.ListExpr{ExprBase: ast.NewExprBaseOver(start, end), Elems: elems}, nil
}

// -----------------------------------------------------------------------------

// next advances the parser one token forward.
func (p *Parser) next() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}

	p.tok = tok
	return nil
}
