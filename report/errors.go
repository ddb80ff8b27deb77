package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text.  It is used to specify
// erroneous or otherwise significant source text in a contract.  The starting
// position is the position of the first character in the span and the ending
// position is one past the last character in the span.  The line and column
// numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// SourceError is an error in contract source text that occurs in a context in
// which the file is known by the error handler and thus doesn't need to be
// passed along with the error.
type SourceError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (se *SourceError) Error() string {
	return se.Message
}

// Raise creates a new source error over the given span.
func Raise(span *TextSpan, msg string, args ...interface{}) *SourceError {
	return &SourceError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// ReportFatal reports a fatal error.  These are errors that should cause the
// analyzer to stop immediately.  However, they are expected errors that
// generally result from invalid invocation of some form: unreadable files,
// malformed manifests, etc.  Fatal errors can occur before the reporter is
// initialized.
func ReportFatal(message string, args ...interface{}) {
	if rep != nil {
		rep.m.Lock()
		defer rep.m.Unlock()
	}

	if rep == nil || rep.logLevel > LogLevelSilent {
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportSyntaxError reports an error parsing a contract's source text.  The
// absPath is the absolute path to the erroneous source file; the contract is
// the name the contract is analyzed under.  Errors raised with spans are
// displayed with a selection of the offending source text.  Errors are
// recorded at every log level; the log level only controls display.
func ReportSyntaxError(absPath, contract string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		if serr, ok := err.(*SourceError); ok {
			displayCheckMessage("Syntax", absPath, contract, serr.Span, serr.Message)
		} else {
			displayStdError(contract, err)
		}
	}
}

// ReportCheckError reports a failed analysis pass over a contract.  The
// arguments are of the same form as those to ReportSyntaxError.  The span may
// be nil in which case no source selection is displayed.
func ReportCheckError(absPath, contract string, span *TextSpan, message string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		displayCheckMessage("Analysis", absPath, contract, span, message)
	}
}

// ReportWarning reports an analysis warning for a contract.
func ReportWarning(contract, message string, args ...interface{}) {
	if rep.logLevel >= LogLevelWarn {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayWarning(contract, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(contract string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		displayStdError(contract, err)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	return rep.isErr
}
