package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"clarity/analysis"
	"clarity/ast"
	"clarity/report"
	"clarity/syntax"
)

// loadDatabase loads the contract registry at `path` into a fresh analysis
// database.  An empty path, or a registry file that does not exist yet, yields
// an empty database.
func loadDatabase(path string) *analysis.MemoryDatabase {
	if path == "" {
		return analysis.NewMemoryDatabase()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return analysis.NewMemoryDatabase()
	}

	db, err := analysis.LoadRegistry(path)
	if err != nil {
		report.ReportFatal("unable to load registry at `%s`: %s", path, err.Error())
	}

	return db
}

// saveDatabase writes the analysis database back to the registry at `path`.
func saveDatabase(path string, db *analysis.MemoryDatabase) {
	if err := analysis.SaveRegistry(path, db); err != nil {
		report.ReportFatal("unable to save registry at `%s`: %s", path, err.Error())
	}
}

// contractNameFromPath derives the contract name from the path of a contract
// source file.  It returns false if the file name does not produce a valid
// contract name.
func contractNameFromPath(path string) (ast.ContractName, bool) {
	base := filepath.Base(path)
	if filepath.Ext(base) != ContractFileExt {
		return "", false
	}

	name := strings.TrimSuffix(base, ContractFileExt)
	if !ast.IsValidContractName(name) {
		return "", false
	}

	return ast.ContractName(name), true
}

// -----------------------------------------------------------------------------

// analyzeContract runs read-only analysis over a single contract file and, if
// it passes, records its results in the database so that contracts analyzed
// later can call into it.  It returns whether the contract passed.
func analyzeContract(db *analysis.MemoryDatabase, name ast.ContractName, absPath string, maxDepth int) bool {
	report.BeginPhase("Analyzing", string(name))

	buff, err := ioutil.ReadFile(absPath)
	if err != nil {
		report.EndPhase(false)
		report.ReportStdError(string(name), err)
		return false
	}

	exprs, err := syntax.ParseSource(string(buff))
	if err != nil {
		report.EndPhase(false)
		report.ReportSyntaxError(absPath, string(name), err)
		return false
	}

	contract := analysis.NewContractAnalysis(name, buff, exprs)

	// warn when the source no longer matches its registered code hash
	if hash, ok := db.LookupCodeHash(name); ok && hash != "" && hash != contract.CodeHashHex() {
		report.ReportWarning(string(name), "contract source does not match its registered code hash")
	}

	checker := analysis.NewReadOnlyChecker(db)
	if maxDepth > 0 {
		checker.SetMaxDepth(maxDepth)
	}

	if err := checker.Run(contract); err != nil {
		report.EndPhase(false)
		reportAnalysisError(absPath, string(name), err)
		return false
	}

	db.InsertContract(name, contract.CodeHashHex(), checker.ReadOnlyFunctions())

	report.EndPhase(true)
	return true
}

// reportAnalysisError displays a failed analysis, selecting the offending
// source text when the error carries an expression.
func reportAnalysisError(absPath, contract string, err error) {
	if cerr, ok := err.(*analysis.CheckError); ok && cerr.HasExpression() {
		report.ReportCheckError(absPath, contract, cerr.Expr.Span(), cerr.Error())
		return
	}

	report.ReportStdError(contract, err)
}
