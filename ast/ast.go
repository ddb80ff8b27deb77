package ast

import (
	"strings"

	"clarity/report"
)

// The abstract interface for all nodes of a contract expression tree.  The
// tree is a closed variant: it is implemented only by ValueExpr, AtomExpr, and
// ListExpr, and consumers may type switch over exactly those three forms.
type Expr interface {
	// The text span of the expression.
	Span() *report.TextSpan

	// The canonical source form of the expression.
	String() string

	// isExpr seals the interface to the three node kinds above.
	isExpr()
}

// A utility base struct for all expression nodes.
type ExprBase struct {
	// The span over which the expression occurs.
	span *report.TextSpan
}

// NewExprBaseOn creates a new expression base with the given span.
func NewExprBaseOn(span *report.TextSpan) ExprBase {
	return ExprBase{span: span}
}

// NewExprBaseOver creates a new expression base spanning over two spans.
func NewExprBaseOver(start, end *report.TextSpan) ExprBase {
	return ExprBase{span: report.NewSpanOver(start, end)}
}

func (eb ExprBase) Span() *report.TextSpan {
	return eb.span
}

func (eb ExprBase) isExpr() {}

// -----------------------------------------------------------------------------

// ValueExpr is a literal value: a node whose evaluation can never touch
// contract state.
type ValueExpr struct {
	ExprBase

	// The resolved literal value.
	Value Value
}

func (ve *ValueExpr) String() string {
	return ve.Value.String()
}

// AtomExpr is a bare identifier: a variable, constant, keyword, function, or
// operator reference.
type AtomExpr struct {
	ExprBase

	// The referenced name.
	Name Name
}

func (ae *AtomExpr) String() string {
	return string(ae.Name)
}

// ListExpr is an ordered sequence of sub-expressions.  At the top level of a
// contract it is a definition form; everywhere else it is treated as a
// function application.
type ListExpr struct {
	ExprBase

	// The expressions of the list, in source order.
	Elems []Expr
}

func (le *ListExpr) String() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, elem := range le.Elems {
		if i > 0 {
			sb.WriteRune(' ')
		}

		sb.WriteString(elem.String())
	}

	sb.WriteRune(')')
	return sb.String()
}

// -----------------------------------------------------------------------------

// MatchList destructures an expression as a list, returning its elements.
func MatchList(expr Expr) ([]Expr, bool) {
	if list, ok := expr.(*ListExpr); ok {
		return list.Elems, true
	}

	return nil, false
}

// MatchAtom destructures an expression as a bare identifier.
func MatchAtom(expr Expr) (Name, bool) {
	if atom, ok := expr.(*AtomExpr); ok {
		return atom.Name, true
	}

	return "", false
}

// MatchContractPrincipal destructures an expression as a literal contract
// principal value.
func MatchContractPrincipal(expr Expr) (ContractName, bool) {
	if value, ok := expr.(*ValueExpr); ok {
		if principal, ok := value.Value.(ContractPrincipal); ok {
			return principal.Contract, true
		}
	}

	return "", false
}
