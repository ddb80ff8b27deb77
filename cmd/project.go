package cmd

import (
	"os"

	"clarity/project"
	"clarity/report"

	"github.com/ComedicChimera/olive"
)

// execProjectCommand executes the `project` subcommand and handles all errors
func execProjectCommand(result *olive.ArgParseResult, loglevel string) {
	// initialize the reporter
	report.InitReporter(logLevels[loglevel])

	// the project directory defaults to the working directory
	projectDir, ok := result.PrimaryArg()
	if !ok {
		projectDir = "."
	}

	proj, err := project.LoadProject(projectDir)
	if err != nil {
		report.ReportFatal("unable to load project: %s", err.Error())
	}

	db := loadDatabase(proj.Registry)

	// analyze the contracts in manifest order: each contract may only call
	// into contracts registered or listed before it
	passed := 0
	for _, contract := range proj.Contracts {
		if analyzeContract(db, contract.Name, contract.Path, proj.MaxDepth) {
			passed++
		}
	}

	// a failed contract leaves the registry untouched
	if report.AnyErrors() {
		os.Exit(1)
	}

	if proj.UpdateRegistry {
		saveDatabase(proj.Registry, db)
	}

	report.ReportFinished(passed)
}
