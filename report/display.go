package report

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// The pterm styles shared by all analyzer output.
var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// DisplayInfoMessage prints an informational message to the user.  It does not
// go through the global reporter, so it can be used before initialization.
func DisplayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
}

// displayStdError displays a standard Go error.
func displayStdError(contract string, err error) {
	ErrorStyleBG.Print(contract)
	ErrorColorFG.Println(" " + err.Error())
}

// displayWarning displays an analysis warning.
func displayWarning(contract, message string) {
	WarnStyleBG.Print(contract)
	WarnColorFG.Println(" " + message)
}

// -----------------------------------------------------------------------------

// displayCheckMessage displays a syntax or analysis error for a contract.  The
// kind is the banner label: eg. if we want to display a syntax error, the kind
// is "Syntax".
func displayCheckMessage(kind, absPath, contract string, span *TextSpan, message string) {
	displayBanner(kind, contract)
	fmt.Println(message)

	if span != nil {
		displayCodeSelection(absPath, span)
	}

	fmt.Println()
}

// displayBanner displays the banner on top of all check messages.
func displayBanner(kind, contract string) {
	fmt.Print("\n\n-- ")
	ErrorStyleBG.Print(kind + " Error")

	fmt.Print(" ")

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(contract) - len(kind) - 7
	if dashCount < 3 {
		dashCount = 3
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(contract)
}

// displayCodeSelection displays the segment of source text selected by a text
// span, with line numbers and carret underlining.
func displayCodeSelection(absPath string, span *TextSpan) {
	// The selection is a nicety: if the source can't be re-read, the error
	// text alone has to do.
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	fmt.Println()

	// Collect all the source lines containing the selected source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation so it can be trimmed off.
	minIndent := -1
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if minIndent == -1 || lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Generate the format string used to pad line numbers evenly.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v"

	for i, line := range lines {
		// Print the line number, separator bar, and the source text with the
		// leading indent trimmed off.
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Print(" | ")
		fmt.Println(line[minIndent:])

		// Carret underlining begins at the start column on the first line,
		// continues over full middle lines, and stops at the end column on
		// the last line.
		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		carretSuffixCount := 0
		if i == len(lines)-1 {
			carretSuffixCount = len(line) - span.EndCol
		}

		carretCount := len(line) - carretSuffixCount - carretPrefixCount - minIndent
		if carretPrefixCount < 0 || carretCount < 1 {
			// A span pointing past the visible text (eg. at the very end of a
			// line) still gets a single carret.
			carretPrefixCount = len(line) - minIndent
			carretCount = 1
		}

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")
		fmt.Print(strings.Repeat(" ", carretPrefixCount))
		ErrorColorFG.Println(strings.Repeat("^", carretCount))
	}
}

// -----------------------------------------------------------------------------

// phaseSpinner stores the current phase spinner.
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

// displayBeginPhase displays the beginning of an analysis phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phase + "...")
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of an analysis phase.
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase,
				fmt.Sprintf(" (%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase)
		}

		phaseSpinner = nil
	}
}

// displayFinished displays the closing message after every contract passes.
func displayFinished(contracts int) {
	fmt.Print("\n")
	SuccessColorFG.Print("All done! ")

	if contracts == 1 {
		fmt.Println("(1 contract analyzed)")
	} else {
		fmt.Printf("(%d contracts analyzed)\n", contracts)
	}
}
