package analysis

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"sort"

	"clarity/ast"

	"gopkg.in/yaml.v3"
)

// registryFile represents a registry snapshot as it is encoded on disk.
type registryFile struct {
	Contracts []*registryContract `yaml:"contracts"`
}

// registryContract represents one registered contract of a snapshot.
type registryContract struct {
	Name     string   `yaml:"name"`
	CodeHash string   `yaml:"code-hash,omitempty"`
	ReadOnly []string `yaml:"read-only"`
}

// LoadRegistry reads a registry snapshot from path and returns a memory
// database seeded with its contents.
func LoadRegistry(path string) (*MemoryDatabase, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file := &registryFile{}
	if err := yaml.Unmarshal(buff, file); err != nil {
		return nil, fmt.Errorf("malformed registry: %s", err)
	}

	db := NewMemoryDatabase()
	for i, contract := range file.Contracts {
		if contract == nil || contract.Name == "" {
			return nil, fmt.Errorf("registry entry %d is missing a contract name", i+1)
		}

		if !ast.IsValidContractName(contract.Name) {
			return nil, fmt.Errorf("`%s` is not a valid contract name", contract.Name)
		}

		name := ast.ContractName(contract.Name)
		if _, ok := db.LookupCodeHash(name); ok {
			return nil, fmt.Errorf("contract `%s` is registered twice", contract.Name)
		}

		if contract.CodeHash != "" {
			hash, err := hex.DecodeString(contract.CodeHash)
			if err != nil || len(hash) != 32 {
				return nil, fmt.Errorf("contract `%s` has a malformed code hash", contract.Name)
			}
		}

		readOnly := make([]ast.Name, len(contract.ReadOnly))
		for j, fn := range contract.ReadOnly {
			if !ast.IsValidName(fn) {
				return nil, fmt.Errorf("contract `%s` registers an invalid function name `%s`", contract.Name, fn)
			}

			readOnly[j] = ast.Name(fn)
		}

		db.InsertContract(name, contract.CodeHash, readOnly)
	}

	return db, nil
}

// SaveRegistry writes the database's current registrations to path as a
// registry snapshot.  Contracts and function names are written sorted so that
// the snapshot is stable across runs.
func SaveRegistry(path string, db *MemoryDatabase) error {
	db.m.RLock()

	file := &registryFile{Contracts: make([]*registryContract, 0, len(db.contracts))}
	for name, record := range db.contracts {
		readOnly := make([]string, 0, len(record.readOnly))
		for fn := range record.readOnly {
			readOnly = append(readOnly, string(fn))
		}
		sort.Strings(readOnly)

		file.Contracts = append(file.Contracts, &registryContract{
			Name:     string(name),
			CodeHash: record.codeHash,
			ReadOnly: readOnly,
		})
	}

	db.m.RUnlock()

	sort.Slice(file.Contracts, func(i, j int) bool {
		return file.Contracts[i].Name < file.Contracts[j].Name
	})

	buff, err := yaml.Marshal(file)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, buff, 0644)
}
