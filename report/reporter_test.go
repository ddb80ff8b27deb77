package report

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setTestReporter replaces the global reporter with a fresh instance at the
// given log level.
func setTestReporter(logLevel int) {
	rep = &Reporter{m: &sync.Mutex{}, logLevel: logLevel, isErr: false}
}

func TestErrorsRecordedAtSilentLogLevel(t *testing.T) {
	// The silent log level suppresses display only: a silent run must still
	// fail once any contract error is reported.
	setTestReporter(LogLevelSilent)
	assert.False(t, AnyErrors())

	ReportStdError("bank", errors.New("analysis failed"))
	assert.True(t, AnyErrors())

	setTestReporter(LogLevelSilent)
	ReportSyntaxError("/contracts/bank.clar", "bank", Raise(&TextSpan{}, "unclosed `(`"))
	assert.True(t, AnyErrors())

	setTestReporter(LogLevelSilent)
	ReportCheckError("/contracts/bank.clar", "bank", nil, "use of unresolved function `f`")
	assert.True(t, AnyErrors())
}

func TestErrorsRecordedAtEveryLogLevel(t *testing.T) {
	for _, logLevel := range []int{LogLevelSilent, LogLevelError, LogLevelWarn, LogLevelVerbose} {
		setTestReporter(logLevel)

		ReportStdError("bank", errors.New("analysis failed"))
		assert.True(t, AnyErrors(), "log level %d", logLevel)
	}
}

func TestWarningsAreNotErrors(t *testing.T) {
	setTestReporter(LogLevelSilent)

	ReportWarning("bank", "contract source does not match its registered code hash")
	assert.False(t, AnyErrors())
}

func TestInitReporterOnlyInitializesOnce(t *testing.T) {
	rep = nil

	InitReporter(LogLevelSilent)
	InitReporter(LogLevelVerbose)

	assert.Equal(t, LogLevelSilent, rep.logLevel)
}
