package analysis

import (
	"sync"

	"clarity/ast"
)

// Database answers queries about contracts that have already been analyzed.
// Analysis passes only ever read from it: persisting results is the caller's
// decision, made after a pass accepts a contract.
type Database interface {
	// LookupReadOnly reports whether the named function is registered as
	// read-only on the given contract.  An unknown contract or function
	// reports false without error.
	LookupReadOnly(contract ast.ContractName, function ast.Name) (bool, error)
}

// MemoryDatabase is the in-process Database the analysis pipeline threads
// between contracts: each contract accepted earlier is registered so that
// later contracts can call into it.  It is safe for concurrent use.
type MemoryDatabase struct {
	// The mutex guarding the contract table.
	m *sync.RWMutex

	// The registered contracts by name.
	contracts map[ast.ContractName]*contractRecord
}

// contractRecord is the registration of a single analyzed contract.
type contractRecord struct {
	// The keccak-256 hash of the source the registration was made from, in
	// hexadecimal.  May be empty for registrations without a source pin.
	codeHash string

	// The contract's read-only function names.
	readOnly map[ast.Name]struct{}
}

// NewMemoryDatabase creates an empty in-memory analysis database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		m:         &sync.RWMutex{},
		contracts: make(map[ast.ContractName]*contractRecord),
	}
}

// InsertContract registers an analyzed contract's read-only functions.  The
// code hash may be empty when the registration is not pinned to a source
// snapshot.  Registering a name that already exists replaces the previous
// registration.
func (db *MemoryDatabase) InsertContract(name ast.ContractName, codeHash string, readOnly []ast.Name) {
	record := &contractRecord{
		codeHash: codeHash,
		readOnly: make(map[ast.Name]struct{}, len(readOnly)),
	}
	for _, fn := range readOnly {
		record.readOnly[fn] = struct{}{}
	}

	db.m.Lock()
	defer db.m.Unlock()

	db.contracts[name] = record
}

// LookupReadOnly implements Database.
func (db *MemoryDatabase) LookupReadOnly(contract ast.ContractName, function ast.Name) (bool, error) {
	db.m.RLock()
	defer db.m.RUnlock()

	record, ok := db.contracts[contract]
	if !ok {
		return false, nil
	}

	_, ok = record.readOnly[function]
	return ok, nil
}

// LookupCodeHash returns the code hash a contract was registered with.  The
// second result reports whether the contract is registered at all; the hash
// itself may still be empty for unpinned registrations.
func (db *MemoryDatabase) LookupCodeHash(contract ast.ContractName) (string, bool) {
	db.m.RLock()
	defer db.m.RUnlock()

	record, ok := db.contracts[contract]
	if !ok {
		return "", false
	}

	return record.codeHash, true
}
