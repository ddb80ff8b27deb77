package cmd

import (
	"os"

	"clarity/report"

	"github.com/ComedicChimera/olive"
)

// ClarityVersion is the version string reported by the `version` command.
const ClarityVersion = "0.1.0"

// ContractFileExt is the file extension of Clarity contract source files.
const ContractFileExt = ".clar"

// logLevels maps log level selector values to reporter log levels
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// Execute is the main entry point for the `clarity` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("clarity", "clarity is a static analysis tool for Clarity smart contracts", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the analyzer log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	checkCmd := cli.AddSubcommand("check", "analyze a single contract file", true)
	checkCmd.AddPrimaryArg("contract-file", "the path to the contract file to analyze", true)
	checkCmd.AddStringArg("registry", "r", "the path to the contract registry to analyze against", false)
	checkCmd.AddStringArg("max-depth", "d", "the maximum expression nesting depth", false)
	checkCmd.AddFlag("update-registry", "u", "write analysis results back to the registry")

	projectCmd := cli.AddSubcommand("project", "analyze every contract of a project", true)
	projectCmd.AddPrimaryArg("project-dir", "the path to the project directory", false)

	cli.AddSubcommand("version", "print the clarity version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// dispatch on the selected subcommand
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		execCheckCommand(subResult, result.Arguments["loglevel"].(string))
	case "project":
		execProjectCommand(subResult, result.Arguments["loglevel"].(string))
	case "version":
		report.DisplayInfoMessage("Clarity Version", ClarityVersion)
	}
}
