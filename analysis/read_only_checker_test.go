package analysis

import (
	"errors"
	"strings"
	"testing"

	"clarity/ast"
	"clarity/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func mustParse(t *testing.T, source string) []ast.Expr {
	t.Helper()

	exprs, err := syntax.ParseSource(source)
	require.NoError(t, err)

	return exprs
}

func analyzeSourceWithDB(t *testing.T, source string, db Database) error {
	t.Helper()

	contract := NewContractAnalysis("test", []byte(source), mustParse(t, source))
	return CheckContract(contract, db)
}

func analyzeSource(t *testing.T, source string) error {
	t.Helper()

	return analyzeSourceWithDB(t, source, NewMemoryDatabase())
}

func requireCheckError(t *testing.T, err error, kind CheckErrorKind) *CheckError {
	t.Helper()

	require.Error(t, err)

	cerr, ok := err.(*CheckError)
	require.True(t, ok, "expected a check error, got: %s", err)
	require.Equal(t, kind, cerr.Kind)

	return cerr
}

// failingDatabase reports an error on every lookup.
type failingDatabase struct{}

func (failingDatabase) LookupReadOnly(contract ast.ContractName, function ast.Name) (bool, error) {
	return false, errors.New("lookup failed: database offline")
}

// -----------------------------------------------------------------------------

func TestLiteralsAndAtomsAreReadOnly(t *testing.T) {
	sources := []string{
		"(define-read-only (f) 1)",
		"(define-read-only (f) u42)",
		"(define-read-only (f) true)",
		`(define-read-only (f) "hello")`,
		"(define-read-only (f) tx-sender)",
		"(define-read-only (f) .other-contract)",
	}

	for _, src := range sources {
		assert.NoError(t, analyzeSource(t, src), "source: %s", src)
	}
}

func TestPureNativesAccepted(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-map names ((id int)) ((name int)))
(define-read-only (kitchen-sink)
  (begin
    (+ 1 2) (- 3 4) (* 5 6) (/ 8 2)
    (>= 1 2) (<= 1 2) (< 1 2) (> 1 2)
    (mod 5 3) (pow 2 8) (xor 1 2)
    (and true false) (or true false) (not true)
    (is-eq 1 1)
    (if true 1 2)
    (to-int u5) (to-uint 5)
    (hash160 1) (sha256 1) (sha512 1) (sha512/256 1) (keccak256 1)
    (print 1)
    (as-contract 1)
    (get-block-info? time u1)
    (ok 1) (err 1) (some 1)
    (default-to 0 (some 1))
    (unwrap! (some 1) 0)
    (unwrap-err! (err 1) 0)
    (is-ok (ok 1)) (is-none (some 1))
    (list 1 2 3)
    (get name (tuple (name 1)))
    (var-get counter)
    (ft-get-balance stackaroo tx-sender)
    (nft-get-owner? stackaroo 1)
    (map-get? names ((id 1)))))
`
	assert.NoError(t, analyzeSource(t, source))
}

func TestWriteRejectedInReadOnlyFunction(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-read-only (bump) (begin (var-set counter 1) (var-get counter)))
`
	exprs := mustParse(t, source)
	contract := NewContractAnalysis("test", nil, exprs)
	err := CheckContract(contract, NewMemoryDatabase())

	cerr := requireCheckError(t, err, WriteAttemptedInReadOnly)
	assert.EqualError(t, cerr, "expecting read-only statements, detected a writing operation")
	require.True(t, cerr.HasExpression())
	assert.Same(t, exprs[1], cerr.Expr)
}

func TestMutatingNativesRejected(t *testing.T) {
	bodies := []string{
		"(var-set counter 1)",
		"(map-set names ((id 1)) ((name 2)))",
		"(map-insert names ((id 1)) ((name 2)))",
		"(map-delete names ((id 1)))",
		"(ft-mint? stackaroo u100 tx-sender)",
		"(nft-mint? stackaroo u1 tx-sender)",
		"(ft-transfer? stackaroo u50 tx-sender recipient)",
		"(nft-transfer? stackaroo u1 tx-sender recipient)",
	}

	for _, body := range bodies {
		source := "(define-read-only (f) " + body + ")"
		requireCheckError(t, analyzeSource(t, source), WriteAttemptedInReadOnly)

		// The same operation is fine outside a read-only declaration.
		source = "(define-public (f) " + body + ")"
		assert.NoError(t, analyzeSource(t, source), "body: %s", body)
	}
}

func TestPrivateAndPublicFunctionsMayWrite(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-map names ((id int)) ((name int)))
(define-private (bump) (var-set counter 1))
(define-public (store (id int) (name int))
  (ok (map-set names ((id id)) ((name name)))))
`
	assert.NoError(t, analyzeSource(t, source))
}

func TestReadOnlyCallingWriterRejected(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-private (bump) (var-set counter 1))
(define-read-only (sneaky) (bump))
`
	exprs := mustParse(t, source)
	contract := NewContractAnalysis("test", nil, exprs)
	err := CheckContract(contract, NewMemoryDatabase())

	cerr := requireCheckError(t, err, WriteAttemptedInReadOnly)
	assert.Same(t, exprs[2], cerr.Expr)
}

func TestCallArgumentsAreClassified(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-private (ident (x int)) x)
(define-read-only (f) (ident (var-set counter 1)))
`
	requireCheckError(t, analyzeSource(t, source), WriteAttemptedInReadOnly)
}

func TestForwardReferenceRejected(t *testing.T) {
	const source = `
(define-read-only (f) (g))
(define-read-only (g) 1)
`
	cerr := requireCheckError(t, analyzeSource(t, source), UnknownFunction)
	assert.Equal(t, ast.Name("g"), cerr.FuncName)
	assert.EqualError(t, cerr, "use of unresolved function `g`")
}

// -----------------------------------------------------------------------------

func TestContractCallClassification(t *testing.T) {
	const source = `
(define-read-only (peek) (contract-call? .bank get-balance tx-sender))
`

	// Unknown contracts classify as writing.
	requireCheckError(t, analyzeSource(t, source), WriteAttemptedInReadOnly)

	// A registered read-only target is accepted.
	db := NewMemoryDatabase()
	db.InsertContract("bank", "", []ast.Name{"get-balance"})
	assert.NoError(t, analyzeSourceWithDB(t, source, db))

	// A registered contract whose function is not read-only is rejected.
	db = NewMemoryDatabase()
	db.InsertContract("bank", "", []ast.Name{"deposit"})
	requireCheckError(t, analyzeSourceWithDB(t, source, db), WriteAttemptedInReadOnly)

	// A writing argument rejects the call even against a read-only target.
	db = NewMemoryDatabase()
	db.InsertContract("bank", "", []ast.Name{"get-balance"})
	const impureArg = `
(define-data-var counter int 0)
(define-read-only (peek) (contract-call? .bank get-balance (var-set counter 1)))
`
	requireCheckError(t, analyzeSourceWithDB(t, impureArg, db), WriteAttemptedInReadOnly)

	// In writing contexts the conservative default is tolerated.
	const public = "(define-public (poke) (contract-call? .bank withdraw))"
	assert.NoError(t, analyzeSource(t, public))
}

func TestContractCallSyntax(t *testing.T) {
	cerr := requireCheckError(t,
		analyzeSource(t, "(define-read-only (f) (contract-call? .bank))"),
		RequiresAtLeastArguments)
	assert.Equal(t, 2, cerr.Expected)
	assert.Equal(t, 1, cerr.Actual)

	requireCheckError(t,
		analyzeSource(t, "(define-read-only (f) (contract-call? bank get-balance))"),
		ContractCallExpectName)

	requireCheckError(t,
		analyzeSource(t, `(define-read-only (f) (contract-call? .bank "get-balance"))`),
		ContractCallExpectName)
}

func TestContractCallDatabaseError(t *testing.T) {
	err := analyzeSourceWithDB(t,
		"(define-read-only (f) (contract-call? .bank get-balance))",
		failingDatabase{})

	require.Error(t, err)
	assert.EqualError(t, err, "lookup failed: database offline")

	_, ok := err.(*CheckError)
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------

func TestHigherOrderFunctions(t *testing.T) {
	const prologue = `
(define-data-var counter int 0)
(define-private (double (x int)) (* x 2))
(define-private (bump (x int)) (var-set counter x))
(define-private (add-em (x int) (acc int)) (+ x acc))
`

	accepted := []string{
		"(define-read-only (f (xs (list 10 int))) (map double xs))",
		"(define-read-only (f (xs (list 10 int))) (filter double xs))",
		"(define-read-only (f (xs (list 10 int))) (fold add-em xs 0))",
		"(define-public (f (xs (list 10 int))) (ok (map bump xs)))",
	}

	for _, src := range accepted {
		assert.NoError(t, analyzeSource(t, prologue+src), "source: %s", src)
	}

	rejected := []struct {
		source string
		kind   CheckErrorKind
	}{
		{"(define-read-only (f (xs (list 10 int))) (map bump xs))", WriteAttemptedInReadOnly},
		{"(define-read-only (f (xs (list 10 int))) (fold bump xs 0))", WriteAttemptedInReadOnly},
		{"(define-read-only (f (xs (list 10 int))) (map missing xs))", UnknownFunction},
		{"(define-read-only (f (xs (list 10 int))) (map (double) xs))", NonFunctionApplication},
	}

	for _, c := range rejected {
		requireCheckError(t, analyzeSource(t, prologue+c.source), c.kind)
	}

	arity := []struct {
		source   string
		expected int
		actual   int
	}{
		{"(define-read-only (f) (map double))", 2, 1},
		{"(define-read-only (f) (filter double xs extra))", 2, 3},
		{"(define-read-only (f) (fold add-em xs))", 3, 2},
	}

	for _, c := range arity {
		cerr := requireCheckError(t, analyzeSource(t, prologue+c.source), IncorrectArgumentCount)
		assert.Equal(t, c.expected, cerr.Expected, "source: %s", c.source)
		assert.Equal(t, c.actual, cerr.Actual, "source: %s", c.source)
	}
}

// -----------------------------------------------------------------------------

func TestLetClassification(t *testing.T) {
	const prologue = "(define-data-var counter int 0)\n"

	assert.NoError(t, analyzeSource(t, prologue+
		"(define-read-only (f) (let ((x 1) (y (var-get counter))) (+ x y)))"))

	rejected := []string{
		"(define-read-only (f) (let ((x (var-set counter 1))) x))",
		"(define-read-only (f) (let ((x 1)) (var-set counter x)))",
		"(define-read-only (f) (let ((x 1)) x (var-set counter x)))",
	}

	for _, src := range rejected {
		requireCheckError(t, analyzeSource(t, prologue+src), WriteAttemptedInReadOnly)
	}
}

func TestLetSyntaxErrors(t *testing.T) {
	cases := []struct {
		source string
		kind   CheckErrorKind
	}{
		{"(define-read-only (f) (let x 1))", BadLetSyntax},
		{"(define-read-only (f) (let ((x)) 1))", BadSyntaxBinding},
		{"(define-read-only (f) (let ((x 1 2)) 1))", BadSyntaxBinding},
		{"(define-read-only (f) (let (x) 1))", BadSyntaxBinding},
		// Binding syntax is validated in writing contexts too.
		{"(define-public (f) (let ((x)) 1))", BadSyntaxBinding},
	}

	for _, c := range cases {
		requireCheckError(t, analyzeSource(t, c.source), c.kind)
	}

	cerr := requireCheckError(t,
		analyzeSource(t, "(define-read-only (f) (let ((x 1))))"),
		RequiresAtLeastArguments)
	assert.Equal(t, 2, cerr.Expected)
	assert.Equal(t, 1, cerr.Actual)
}

func TestTupleClassification(t *testing.T) {
	const prologue = "(define-data-var counter int 0)\n"

	assert.NoError(t, analyzeSource(t, prologue+
		"(define-read-only (f) (tuple (a 1) (b (var-get counter))))"))

	requireCheckError(t, analyzeSource(t, prologue+
		"(define-read-only (f) (tuple (a (var-set counter 1))))"),
		WriteAttemptedInReadOnly)

	malformed := []string{
		"(define-read-only (f) (tuple a))",
		"(define-read-only (f) (tuple (a)))",
		"(define-read-only (f) (tuple (a 1 2)))",
	}

	for _, src := range malformed {
		requireCheckError(t, analyzeSource(t, src), TupleExpectsPairs)
	}
}

func TestLetAndTupleDecideOnFirstWrite(t *testing.T) {
	const prologue = "(define-data-var counter int 0)\n"

	// A writing binding or pair value classifies the form immediately;
	// later entries are not visited.
	sources := []string{
		"(define-public (f) (let ((x (var-set counter 1)) (y (missing))) x))",
		"(define-public (f) (tuple (a (var-set counter 1)) (b (missing))))",
	}

	for _, src := range sources {
		assert.NoError(t, analyzeSource(t, prologue+src), "source: %s", src)
	}
}

// -----------------------------------------------------------------------------

func TestKeyedLookupClassification(t *testing.T) {
	const prologue = `
(define-data-var counter int 0)
(define-map names ((id int)) ((name int)))
`

	accepted := []string{
		"(define-read-only (f) (map-get? names ((id 1))))",
		"(define-read-only (f) (map-get? names some-key))",
		"(define-read-only (f) (contract-map-get? .other names ((id 1))))",
		"(define-read-only (f) (contract-map-get? .other names some-key))",
		// The shorthand form classifies pair values only.
		"(define-read-only (f) (map-get? (var-set counter 1) ((id 2))))",
		// Arguments past the key are tolerated, and the shorthand form does
		// not visit them.
		"(define-read-only (f) (map-get? names ((id 1)) extra))",
		"(define-read-only (f) (map-get? names ((id 1)) (missing)))",
		"(define-read-only (f) (contract-map-get? .other names ((id 1)) extra))",
	}

	for _, src := range accepted {
		assert.NoError(t, analyzeSource(t, prologue+src), "source: %s", src)
	}

	rejected := []string{
		"(define-read-only (f) (map-get? names ((id (var-set counter 1)))))",
		"(define-read-only (f) (map-get? names (var-set counter 1)))",
		"(define-read-only (f) (contract-map-get? .other names ((id (var-set counter 1)))))",
		// The explicit form classifies every argument, trailing ones included.
		"(define-read-only (f) (map-get? names some-key (var-set counter 1)))",
	}

	for _, src := range rejected {
		requireCheckError(t, analyzeSource(t, prologue+src), WriteAttemptedInReadOnly)
	}

	malformed := []struct {
		source   string
		kind     CheckErrorKind
		expected int
		actual   int
	}{
		{"(define-read-only (f) (map-get? names))", RequiresAtLeastArguments, 2, 1},
		{"(define-read-only (f) (map-get? names ((id))))", TupleExpectsPairs, 0, 0},
		{"(define-read-only (f) (contract-map-get? .other names))", RequiresAtLeastArguments, 3, 2},
		{"(define-read-only (f) (contract-map-get? .other names ((id 1 2))))", TupleExpectsPairs, 0, 0},
	}

	for _, c := range malformed {
		cerr := requireCheckError(t, analyzeSource(t, prologue+c.source), c.kind)

		if c.kind == RequiresAtLeastArguments {
			assert.Equal(t, c.expected, cerr.Expected, "source: %s", c.source)
			assert.Equal(t, c.actual, cerr.Actual, "source: %s", c.source)
		}
	}
}

// -----------------------------------------------------------------------------

func TestWritesDoNotMaskLaterErrors(t *testing.T) {
	const prologue = "(define-data-var counter int 0)\n"

	cerr := requireCheckError(t, analyzeSource(t, prologue+
		"(define-public (act) (begin (var-set counter 1) (nonexistent)))"),
		UnknownFunction)
	assert.Equal(t, ast.Name("nonexistent"), cerr.FuncName)

	requireCheckError(t, analyzeSource(t, prologue+
		"(define-public (act) (+ (var-set counter 1) (let x 1)))"),
		BadLetSyntax)
}

func TestNonFunctionApplications(t *testing.T) {
	sources := []string{
		"(define-read-only (f) ())",
		"(define-read-only (f) (1 2))",
		"(define-read-only (f) ((+ 1 2) 3))",
		`(define-read-only (f) ("nope"))`,
	}

	for _, src := range sources {
		requireCheckError(t, analyzeSource(t, src), NonFunctionApplication)
	}
}

func TestFunctionDefinitionShapes(t *testing.T) {
	cases := []struct {
		source   string
		kind     CheckErrorKind
		expected int
		actual   int
	}{
		{"(define-private)", IncorrectArgumentCount, 2, 0},
		{"(define-private (f))", IncorrectArgumentCount, 2, 1},
		{"(define-private (f) 1 2)", IncorrectArgumentCount, 2, 3},
		{"(define-private f 1)", DefineFunctionBadSignature, 0, 0},
		{"(define-private () 1)", DefineFunctionBadSignature, 0, 0},
		{"(define-private (1) 1)", BadFunctionName, 0, 0},
		{"(define-read-only ((f)) 1)", BadFunctionName, 0, 0},
	}

	for _, c := range cases {
		cerr := requireCheckError(t, analyzeSource(t, c.source), c.kind)

		if c.kind == IncorrectArgumentCount {
			assert.Equal(t, c.expected, cerr.Expected, "source: %s", c.source)
			assert.Equal(t, c.actual, cerr.Actual, "source: %s", c.source)
		}
	}
}

func TestTopLevelExpressionsIgnored(t *testing.T) {
	const source = `
5
tx-sender
(+ 1 2)
(var-set counter 1)
(begin (map-delete names ((k 1))))
(define-constant)
(define-read-only (f) 1)
`
	assert.NoError(t, analyzeSource(t, source))
}

func TestRedefinitionUsesLatestDefinition(t *testing.T) {
	const source = `
(define-data-var counter int 0)
(define-private (op) (var-get counter))
(define-read-only (before) (op))
(define-private (op) (var-set counter 1))
(define-read-only (after) (op))
`
	exprs := mustParse(t, source)
	contract := NewContractAnalysis("test", nil, exprs)
	err := CheckContract(contract, NewMemoryDatabase())

	cerr := requireCheckError(t, err, WriteAttemptedInReadOnly)
	assert.Same(t, exprs[4], cerr.Expr)
}

// -----------------------------------------------------------------------------

func nestedBegins(count int) string {
	return strings.Repeat("(begin ", count) + "1" + strings.Repeat(")", count)
}

func TestNestingDepthLimit(t *testing.T) {
	shallow := "(define-read-only (f) " + nestedBegins(7) + ")"
	deep := "(define-read-only (f) " + nestedBegins(8) + ")"

	rc := NewReadOnlyChecker(NewMemoryDatabase())
	rc.SetMaxDepth(8)
	assert.NoError(t, rc.Run(NewContractAnalysis("test", nil, mustParse(t, shallow))))

	rc = NewReadOnlyChecker(NewMemoryDatabase())
	rc.SetMaxDepth(8)
	err := rc.Run(NewContractAnalysis("test", nil, mustParse(t, deep)))
	requireCheckError(t, err, ExpressionStackDepthTooDeep)

	// The default limit applies when none is set.
	deep = "(define-read-only (f) " + nestedBegins(DefaultMaxDepth) + ")"
	requireCheckError(t, analyzeSource(t, deep), ExpressionStackDepthTooDeep)
}

func TestReadOnlyFunctionsAccessor(t *testing.T) {
	const source = `
(define-read-only (first) 1)
(define-private (helper) 2)
(define-public (act) (ok (helper)))
(define-read-only (second) (helper))
`
	rc := NewReadOnlyChecker(NewMemoryDatabase())
	require.NoError(t, rc.Run(NewContractAnalysis("test", nil, mustParse(t, source))))

	assert.Equal(t, []ast.Name{"first", "second"}, rc.ReadOnlyFunctions())
}
