package lang

import "clarity/ast"

// DefineForm enumerates the top-level definition forms of a contract.  The
// set is closed: handlers switch exhaustively over these values.
type DefineForm int

// Enumeration of definition forms.
const (
	DefineConstant          DefineForm = iota // define-constant
	DefineMap                                 // define-map
	DefinePersistedVariable                   // define-data-var
	DefineFungibleToken                       // define-fungible-token
	DefineNonFungibleToken                    // define-non-fungible-token
	DefinePrivateFunction                     // define-private
	DefinePublicFunction                      // define-public
	DefineReadOnlyFunction                    // define-read-only
)

// defineNames maps the leading identifier of a top-level list to its form.
var defineNames = map[ast.Name]DefineForm{
	"define-constant":           DefineConstant,
	"define-map":                DefineMap,
	"define-data-var":           DefinePersistedVariable,
	"define-fungible-token":     DefineFungibleToken,
	"define-non-fungible-token": DefineNonFungibleToken,
	"define-private":            DefinePrivateFunction,
	"define-public":             DefinePublicFunction,
	"define-read-only":          DefineReadOnlyFunction,
}

// MatchDefine classifies a top-level expression as a definition form.  It
// returns the form's kind along with the expressions following the leading
// identifier.  Expressions that are not definition forms return false.
func MatchDefine(expr ast.Expr) (DefineForm, []ast.Expr, bool) {
	elems, ok := ast.MatchList(expr)
	if !ok || len(elems) == 0 {
		return 0, nil, false
	}

	head, ok := ast.MatchAtom(elems[0])
	if !ok {
		return 0, nil, false
	}

	form, ok := defineNames[head]
	if !ok {
		return 0, nil, false
	}

	return form, elems[1:], true
}
