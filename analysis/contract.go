package analysis

import (
	"encoding/hex"

	"clarity/ast"

	"golang.org/x/crypto/sha3"
)

// ContractAnalysis is the unit of input consumed by an analysis pass: one
// contract's name, its ordered top-level expressions, and the keccak-256 hash
// of the source text it was parsed from.  The hash pins registry entries to
// the exact source that was analyzed; the passes themselves ignore it.
type ContractAnalysis struct {
	// The name the contract is analyzed and registered under.
	Name ast.ContractName

	// The contract's top-level expressions, in source order.
	Expressions []ast.Expr

	// The keccak-256 hash of the contract's source text.
	CodeHash [32]byte
}

// NewContractAnalysis creates the analysis unit for one contract from its
// name, raw source text, and parsed expressions.
func NewContractAnalysis(name ast.ContractName, source []byte, expressions []ast.Expr) *ContractAnalysis {
	ca := &ContractAnalysis{Name: name, Expressions: expressions}

	h := sha3.NewLegacyKeccak256()
	h.Write(source)
	h.Sum(ca.CodeHash[:0])

	return ca
}

// CodeHashHex returns the contract's code hash in hexadecimal.
func (ca *ContractAnalysis) CodeHashHex() string {
	return hex.EncodeToString(ca.CodeHash[:])
}
