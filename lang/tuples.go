package lang

import "clarity/ast"

// MatchImplicitTuple destructures the implicit tuple shorthand: a tuple
// written as a bare list of key-value pairs rather than an explicit (tuple
// ...) construction.  The shorthand is recognized by its first element being
// itself a list.
func MatchImplicitTuple(expr ast.Expr) ([]ast.Expr, bool) {
	pairs, ok := ast.MatchList(expr)
	if !ok || len(pairs) == 0 {
		return nil, false
	}

	if _, ok := ast.MatchList(pairs[0]); !ok {
		return nil, false
	}

	return pairs, true
}
