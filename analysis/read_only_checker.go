package analysis

import (
	"clarity/ast"
	"clarity/lang"
)

// DefaultMaxDepth is the expression nesting depth at which the checker rejects
// a contract.
const DefaultMaxDepth = 64

// ReadOnlyChecker classifies every function a contract defines as read-only
// or not, and rejects contracts that declare a writing function read-only.
// A checker is created per contract: the definition table it builds lives and
// dies with one Run.
type ReadOnlyChecker struct {
	// The database consulted for cross-contract call targets.
	db Database

	// definedFunctions records, for every function defined so far in the
	// contract, whether its body is read-only.  Functions are visible only
	// after their definition: referencing a later definition is an error.
	definedFunctions map[ast.Name]bool

	// declaredReadOnly lists the functions declared with the read-only
	// definition form, in declaration order.
	declaredReadOnly []ast.Name

	// The maximum expression nesting depth, and the current depth.
	maxDepth, depth int
}

// NewReadOnlyChecker creates a new checker over the given database.
func NewReadOnlyChecker(db Database) *ReadOnlyChecker {
	return &ReadOnlyChecker{
		db:               db,
		definedFunctions: make(map[ast.Name]bool),
		maxDepth:         DefaultMaxDepth,
	}
}

// SetMaxDepth overrides the checker's expression nesting limit.
func (rc *ReadOnlyChecker) SetMaxDepth(depth int) {
	rc.maxDepth = depth
}

// CheckContract runs the read-only pass over a single contract with a fresh
// checker against the given database.
func CheckContract(contract *ContractAnalysis, db Database) error {
	return NewReadOnlyChecker(db).Run(contract)
}

// -----------------------------------------------------------------------------

// Run checks every top-level expression of the contract in order, stopping at
// the first violation.  The failing top-level expression is attached to the
// returned error for reporting; no inner frame ever attaches one, so the
// attachment always names the whole offending definition.
func (rc *ReadOnlyChecker) Run(contract *ContractAnalysis) error {
	for _, expr := range contract.Expressions {
		if err := rc.checkTopLevel(expr); err != nil {
			if cerr, ok := err.(*CheckError); ok && !cerr.HasExpression() {
				cerr.SetExpression(expr)
			}

			return err
		}
	}

	return nil
}

// ReadOnlyFunctions returns the names of the functions the contract declares
// read-only, in declaration order.  It is only meaningful after Run accepts
// the contract.
func (rc *ReadOnlyChecker) ReadOnlyFunctions() []ast.Name {
	return rc.declaredReadOnly
}

// -----------------------------------------------------------------------------

// checkTopLevel checks a single top-level expression.  Definition forms are
// dispatched on their kind; every other expression is ignored by this pass.
func (rc *ReadOnlyChecker) checkTopLevel(expr ast.Expr) error {
	form, args, ok := lang.MatchDefine(expr)
	if !ok {
		return nil
	}

	switch form {
	case lang.DefineConstant, lang.DefineMap, lang.DefinePersistedVariable,
		lang.DefineFungibleToken, lang.DefineNonFungibleToken:
		// Storage definitions declare state; they cannot write to it.
		return nil
	case lang.DefinePrivateFunction, lang.DefinePublicFunction:
		name, isReadOnly, err := rc.checkDefineFunction(args)
		if err != nil {
			return err
		}

		rc.definedFunctions[name] = isReadOnly
		return nil
	default: // lang.DefineReadOnlyFunction
		name, isReadOnly, err := rc.checkDefineFunction(args)
		if err != nil {
			return err
		}

		if !isReadOnly {
			return newCheckError(WriteAttemptedInReadOnly)
		}

		rc.definedFunctions[name] = true
		rc.declaredReadOnly = append(rc.declaredReadOnly, name)
		return nil
	}
}

// checkDefineFunction validates the shape of a function definition and
// classifies its body.  It returns the function's name and whether its body
// is read-only.  The signature is only destructured far enough to extract the
// name: parameter checking belongs to other passes.
func (rc *ReadOnlyChecker) checkDefineFunction(args []ast.Expr) (ast.Name, bool, error) {
	if err := checkArgumentCount(2, args); err != nil {
		return "", false, err
	}

	signature, ok := ast.MatchList(args[0])
	if !ok || len(signature) == 0 {
		return "", false, newCheckError(DefineFunctionBadSignature)
	}

	name, ok := ast.MatchAtom(signature[0])
	if !ok {
		return "", false, newCheckError(BadFunctionName)
	}

	isReadOnly, err := rc.isReadOnly(args[1])
	if err != nil {
		return "", false, err
	}

	return name, isReadOnly, nil
}

// -----------------------------------------------------------------------------

// isReadOnly classifies a single expression.  Values and bare identifiers can
// never write; lists are classified as function applications.
func (rc *ReadOnlyChecker) isReadOnly(expr ast.Expr) (bool, error) {
	rc.depth++
	defer func() { rc.depth-- }()

	if rc.depth > rc.maxDepth {
		return false, newCheckError(ExpressionStackDepthTooDeep)
	}

	if list, ok := expr.(*ast.ListExpr); ok {
		return rc.isApplicationReadOnly(list.Elems)
	}

	return true, nil
}

// isApplicationReadOnly classifies a function application.  The head of the
// list must be a bare function name: either a native, or a function defined
// earlier in the contract.
func (rc *ReadOnlyChecker) isApplicationReadOnly(elems []ast.Expr) (bool, error) {
	if len(elems) == 0 {
		return false, newCheckError(NonFunctionApplication)
	}

	name, ok := ast.MatchAtom(elems[0])
	if !ok {
		return false, newCheckError(NonFunctionApplication)
	}

	args := elems[1:]

	if fn, ok := lang.LookupNative(name); ok {
		return rc.checkNativeFunction(fn, args)
	}

	isReadOnly, ok := rc.definedFunctions[name]
	if !ok {
		return false, errUnknownFunction(name)
	}

	return rc.allReadOnly(isReadOnly, args)
}

// checkNativeFunction classifies an application of a native function.
func (rc *ReadOnlyChecker) checkNativeFunction(fn lang.NativeFunc, args []ast.Expr) (bool, error) {
	switch fn {
	case lang.Add, lang.Subtract, lang.Divide, lang.Multiply, lang.CmpGeq,
		lang.CmpLeq, lang.CmpLess, lang.CmpGreater, lang.Modulo, lang.Power,
		lang.BitwiseXOR, lang.And, lang.Or, lang.Not, lang.Hash160,
		lang.Sha256, lang.Keccak256, lang.Equals, lang.If, lang.ConsSome,
		lang.ConsOkay, lang.ConsError, lang.DefaultTo, lang.Expects,
		lang.ExpectsErr, lang.IsOkay, lang.IsNone, lang.ListCons,
		lang.GetBlockInfo, lang.TupleGet, lang.Print, lang.AsContract,
		lang.Begin, lang.FetchVar, lang.GetTokenBalance, lang.GetAssetOwner,
		lang.ToInt, lang.ToUInt, lang.Sha512, lang.Sha512Trunc256:
		// The operation itself never writes: the application is read-only
		// exactly when every argument is.
		return rc.allReadOnly(true, args)
	case lang.FetchEntry:
		return rc.keyedLookupReadOnly(args, 2, 1)
	case lang.FetchContractEntry:
		return rc.keyedLookupReadOnly(args, 3, 2)
	case lang.SetVar, lang.SetEntry, lang.InsertEntry, lang.DeleteEntry,
		lang.MintAsset, lang.MintToken, lang.TransferAsset, lang.TransferToken:
		// Always a write, independent of the arguments.
		return false, nil
	case lang.Let:
		if err := checkArgumentsAtLeast(2, args); err != nil {
			return false, err
		}

		bindings, ok := ast.MatchList(args[0])
		if !ok {
			return false, newCheckError(BadLetSyntax)
		}

		for _, pair := range bindings {
			pairExprs, ok := ast.MatchList(pair)
			if !ok || len(pairExprs) != 2 {
				return false, newCheckError(BadSyntaxBinding)
			}

			valueReadOnly, err := rc.isReadOnly(pairExprs[1])
			if err != nil {
				return false, err
			}

			if !valueReadOnly {
				return false, nil
			}
		}

		return rc.allReadOnly(true, args[1:])
	case lang.Map, lang.Filter:
		if err := checkArgumentCount(2, args); err != nil {
			return false, err
		}

		return rc.isApplicationReadOnly(args)
	case lang.Fold:
		if err := checkArgumentCount(3, args); err != nil {
			return false, err
		}

		return rc.isApplicationReadOnly(args)
	case lang.TupleCons:
		return rc.pairsReadOnly(args)
	default: // lang.ContractCall
		if err := checkArgumentsAtLeast(2, args); err != nil {
			return false, err
		}

		contract, ok := ast.MatchContractPrincipal(args[0])
		if !ok {
			return false, newCheckError(ContractCallExpectName)
		}

		function, ok := ast.MatchAtom(args[1])
		if !ok {
			return false, newCheckError(ContractCallExpectName)
		}

		isReadOnly, err := rc.db.LookupReadOnly(contract, function)
		if err != nil {
			return false, err
		}

		return rc.allReadOnly(isReadOnly, args[2:])
	}
}

// keyedLookupReadOnly classifies a keyed storage read.  The count guard only
// ensures the key argument at keyIndex can be destructured.  The key may use
// the implicit tuple shorthand, in which case only its pair values are
// classified; otherwise every argument is.
func (rc *ReadOnlyChecker) keyedLookupReadOnly(args []ast.Expr, min, keyIndex int) (bool, error) {
	if err := checkArgumentsAtLeast(min, args); err != nil {
		return false, err
	}

	if pairs, ok := lang.MatchImplicitTuple(args[keyIndex]); ok {
		return rc.pairsReadOnly(pairs)
	}

	return rc.allReadOnly(true, args)
}

// pairsReadOnly classifies a tuple construction written as key-value pairs.
// Only pair values are classified: tuple keys are names, not expressions.  A
// pair value that is not read-only decides the whole form immediately.
func (rc *ReadOnlyChecker) pairsReadOnly(pairs []ast.Expr) (bool, error) {
	for _, pair := range pairs {
		pairExprs, ok := ast.MatchList(pair)
		if !ok || len(pairExprs) != 2 {
			return false, newCheckError(TupleExpectsPairs)
		}

		valueReadOnly, err := rc.isReadOnly(pairExprs[1])
		if err != nil {
			return false, err
		}

		if !valueReadOnly {
			return false, nil
		}
	}

	return true, nil
}

// allReadOnly classifies every expression in exprs, combining the results
// with initial.  Every expression is visited even once the result is known to
// be false so that errors in later arguments still surface.
func (rc *ReadOnlyChecker) allReadOnly(initial bool, exprs []ast.Expr) (bool, error) {
	result := initial
	for _, expr := range exprs {
		exprReadOnly, err := rc.isReadOnly(expr)
		if err != nil {
			return false, err
		}

		result = result && exprReadOnly
	}

	return result, nil
}
