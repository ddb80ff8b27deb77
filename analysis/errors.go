package analysis

import (
	"fmt"

	"clarity/ast"
)

// CheckErrorKind enumerates the failure classes an analysis pass produces.
// The set is closed: Error formats a user-facing message for each kind.
type CheckErrorKind int

// Enumeration of check error kinds.
const (
	DefineFunctionBadSignature  CheckErrorKind = iota // Malformed function definition shape.
	BadFunctionName                                   // Signature head is not a bare identifier.
	WriteAttemptedInReadOnly                          // Read-only declaration with a writing body.
	BadLetSyntax                                      // Let form without a binding list.
	BadSyntaxBinding                                  // Let binding that is not a name-value pair.
	TupleExpectsPairs                                 // Tuple entry that is not a key-value pair.
	IncorrectArgumentCount                            // Form applied to the wrong number of arguments.
	RequiresAtLeastArguments                          // Form applied to too few arguments.
	UnknownFunction                                   // Call to a function with no visible definition.
	NonFunctionApplication                            // Applied list whose head is not a function name.
	ContractCallExpectName                            // Call target is not statically named.
	ExpressionStackDepthTooDeep                       // Expression nesting beyond the depth limit.
)

// CheckError is the diagnostic a failed analysis pass returns.  Exactly one
// source expression is attached to it: the top-level expression the failure
// occurred in, attached by the pass driver once the error reaches it.
type CheckError struct {
	// The kind of failure.
	Kind CheckErrorKind

	// The referenced name, for UnknownFunction errors.
	FuncName ast.Name

	// The expected and received argument counts, for the arity error kinds.
	Expected, Actual int

	// The source expression the error is attributed to.
	Expr ast.Expr
}

// newCheckError creates a new check error of the given kind.
func newCheckError(kind CheckErrorKind) *CheckError {
	return &CheckError{Kind: kind}
}

// errUnknownFunction creates an UnknownFunction error referencing name.
func errUnknownFunction(name ast.Name) *CheckError {
	return &CheckError{Kind: UnknownFunction, FuncName: name}
}

// errIncorrectArgumentCount creates an IncorrectArgumentCount error.
func errIncorrectArgumentCount(expected, actual int) *CheckError {
	return &CheckError{Kind: IncorrectArgumentCount, Expected: expected, Actual: actual}
}

// errRequiresAtLeastArguments creates a RequiresAtLeastArguments error.
func errRequiresAtLeastArguments(expected, actual int) *CheckError {
	return &CheckError{Kind: RequiresAtLeastArguments, Expected: expected, Actual: actual}
}

func (ce *CheckError) Error() string {
	switch ce.Kind {
	case DefineFunctionBadSignature:
		return "invalid function definition signature"
	case BadFunctionName:
		return "invalid function name"
	case WriteAttemptedInReadOnly:
		return "expecting read-only statements, detected a writing operation"
	case BadLetSyntax:
		return "invalid syntax of `let`"
	case BadSyntaxBinding:
		return "invalid syntax binding"
	case TupleExpectsPairs:
		return "invalid tuple syntax, expecting list of pairs"
	case IncorrectArgumentCount:
		return fmt.Sprintf("expecting %d arguments, got %d", ce.Expected, ce.Actual)
	case RequiresAtLeastArguments:
		return fmt.Sprintf("expecting >= %d arguments, got %d", ce.Expected, ce.Actual)
	case UnknownFunction:
		return fmt.Sprintf("use of unresolved function `%s`", ce.FuncName)
	case NonFunctionApplication:
		return "expecting expression of type function"
	case ContractCallExpectName:
		return "missing contract name for call"
	default: // ExpressionStackDepthTooDeep
		return "expression stack depth limit exceeded"
	}
}

// HasExpression returns whether a source expression is attached to the error.
func (ce *CheckError) HasExpression() bool {
	return ce.Expr != nil
}

// SetExpression attaches the source expression the error is attributed to.
func (ce *CheckError) SetExpression(expr ast.Expr) {
	ce.Expr = expr
}

// -----------------------------------------------------------------------------

// checkArgumentCount verifies that a form received exactly the expected
// number of arguments.
func checkArgumentCount(expected int, args []ast.Expr) error {
	if len(args) != expected {
		return errIncorrectArgumentCount(expected, len(args))
	}

	return nil
}

// checkArgumentsAtLeast verifies that a form received at least the expected
// number of arguments.
func checkArgumentsAtLeast(expected int, args []ast.Expr) error {
	if len(args) < expected {
		return errRequiresAtLeastArguments(expected, len(args))
	}

	return nil
}
