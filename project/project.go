package project

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"clarity/ast"

	"github.com/pelletier/go-toml"
)

// ManifestName is the file name every project manifest must have.
const ManifestName = "clarity.toml"

// tomlManifest represents a project manifest as it is encoded in TOML
type tomlManifest struct {
	Analysis  *tomlAnalysis   `toml:"analysis"`
	Contracts []*tomlContract `toml:"contracts"`
}

// tomlAnalysis represents the analysis settings table as it is encoded in TOML
type tomlAnalysis struct {
	Registry       string `toml:"registry,omitempty"`
	MaxDepth       int    `toml:"max-depth,omitempty"`
	UpdateRegistry bool   `toml:"update-registry"`
}

// tomlContract represents a contract entry as it is encoded in TOML
type tomlContract struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Contract is a single contract listed by a project: its registered name and
// the path of its source file.
type Contract struct {
	Name ast.ContractName
	Path string
}

// Project is a fully loaded and validated project manifest.  All paths are
// absolute.
type Project struct {
	// Root is the directory containing the manifest.
	Root string

	// Registry is the path of the registry file, or empty if the project does
	// not use one.
	Registry string

	// MaxDepth overrides the checker's expression nesting limit when nonzero.
	MaxDepth int

	// UpdateRegistry indicates that analysis results should be written back to
	// the registry after every contract passes.
	UpdateRegistry bool

	// Contracts lists the project's contracts in analysis order.  Contracts
	// may only call into contracts listed before them.
	Contracts []Contract
}

// LoadProject loads and validates the project manifest in `dir`.
func LoadProject(dir string) (*Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	// open file
	f, err := os.Open(filepath.Join(absDir, ManifestName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// unmarshal the contents
	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	manifest := &tomlManifest{}
	if err := toml.Unmarshal(buff, manifest); err != nil {
		return nil, err
	}

	proj := &Project{Root: absDir}

	// ensure the manifest contents are valid before moving them over
	if err := convertAnalysis(proj, manifest.Analysis); err != nil {
		return nil, err
	}

	if err := convertContracts(proj, manifest.Contracts); err != nil {
		return nil, err
	}

	return proj, nil
}

// convertAnalysis validates the analysis settings and moves them onto the
// project.  The whole table is optional.
func convertAnalysis(proj *Project, analysis *tomlAnalysis) error {
	if analysis == nil {
		return nil
	}

	if analysis.MaxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative, got %d", analysis.MaxDepth)
	}

	if analysis.UpdateRegistry && analysis.Registry == "" {
		return errors.New("update-registry requires a registry path")
	}

	proj.MaxDepth = analysis.MaxDepth
	proj.UpdateRegistry = analysis.UpdateRegistry

	if analysis.Registry != "" {
		proj.Registry = resolvePath(proj.Root, analysis.Registry)
	}

	return nil
}

// convertContracts validates the contract entries and moves them onto the
// project.
func convertContracts(proj *Project, contracts []*tomlContract) error {
	if len(contracts) == 0 {
		return errors.New("project must list at least one contract")
	}

	seen := make(map[string]struct{})
	for i, contract := range contracts {
		if contract == nil || contract.Name == "" {
			return fmt.Errorf("contract entry %d is missing a name", i+1)
		}

		if !ast.IsValidContractName(contract.Name) {
			return fmt.Errorf("`%s` is not a valid contract name", contract.Name)
		}

		if contract.Path == "" {
			return fmt.Errorf("contract `%s` is missing a source path", contract.Name)
		}

		if _, ok := seen[contract.Name]; ok {
			return fmt.Errorf("contract `%s` is listed twice", contract.Name)
		}
		seen[contract.Name] = struct{}{}

		proj.Contracts = append(proj.Contracts, Contract{
			Name: ast.ContractName(contract.Name),
			Path: resolvePath(proj.Root, contract.Path),
		})
	}

	return nil
}

// resolvePath resolves a manifest path against the project root unless it is
// already absolute.
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}
