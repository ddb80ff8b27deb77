package cmd

import (
	"os"
	"path/filepath"
	"strconv"

	"clarity/report"

	"github.com/ComedicChimera/olive"
)

// execCheckCommand executes the `check` subcommand and handles all errors
func execCheckCommand(result *olive.ArgParseResult, loglevel string) {
	// initialize the reporter
	report.InitReporter(logLevels[loglevel])

	// extract CLI data
	contractRelPath, _ := result.PrimaryArg()

	contractPath, err := filepath.Abs(contractRelPath)
	if err != nil {
		report.ReportFatal("error calculating absolute path: %s", err.Error())
	}

	registryPath := ""
	if regArgVal, ok := result.Arguments["registry"]; ok {
		registryPath, err = filepath.Abs(regArgVal.(string))
		if err != nil {
			report.ReportFatal("error calculating absolute path: %s", err.Error())
		}
	}

	if result.HasFlag("update-registry") && registryPath == "" {
		report.ReportFatal("`update-registry` requires a registry path")
	}

	maxDepth := 0
	if depthArgVal, ok := result.Arguments["max-depth"]; ok {
		maxDepth, err = strconv.Atoi(depthArgVal.(string))
		if err != nil || maxDepth < 1 {
			report.ReportFatal("`max-depth` must be a positive integer")
		}
	}

	// the contract is analyzed under the name of its source file
	name, ok := contractNameFromPath(contractPath)
	if !ok {
		report.ReportFatal("`%s` does not name a contract: contract files are named `<contract-name>%s`",
			filepath.Base(contractPath), ContractFileExt)
	}

	db := loadDatabase(registryPath)

	if !analyzeContract(db, name, contractPath, maxDepth) {
		os.Exit(1)
	}

	if result.HasFlag("update-registry") {
		saveDatabase(registryPath, db)
	}

	report.ReportFinished(1)
}
