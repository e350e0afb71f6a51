package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Verbose controls whether debug messages are being printed.
var Verbose bool

// IndentationLevel controls the amount of indentation of log messages.
var IndentationLevel = 0

// Spinner is shown while waiting for external tools to finish.
var Spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))

var logger = newLogger()

type consoleFormatter struct{}

const successKey = "success"

func (consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefix := ""
	switch entry.Level {
	case logrus.DebugLevel:
		prefix = "\033[36mDebug: \033[0m"
	case logrus.WarnLevel:
		prefix = "\033[33mWarning: \033[0m"
	case logrus.ErrorLevel, logrus.FatalLevel:
		prefix = "\033[31mError: \033[0m"
	}
	if _, ok := entry.Data[successKey]; ok {
		prefix = "\033[32mSuccess: \033[0m"
	}
	message := strings.Repeat("  ", IndentationLevel) + prefix + entry.Message
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	return []byte(message), nil
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(consoleFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Logger returns the shared logger for injection into library code.
// The debug level follows the Verbose flag.
func Logger() logrus.FieldLogger {
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// SetOutput redirects all log messages, e.g. for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Log prints an indented and formatted message to os.Stderr.
func Log(format string, a ...interface{}) {
	logger.Infof(format, a...)
}

// Debug prints an indented and formatted debug message to os.Stderr if verbose output is selected.
func Debug(format string, a ...interface{}) {
	if Verbose {
		Logger().Debugf(format, a...)
	}
}

// Success prints an indented and formatted success message to os.Stderr.
func Success(format string, a ...interface{}) {
	logger.WithField(successKey, true).Infof(format, a...)
}

// Warning prints an indented and formatted warning to os.Stderr.
func Warning(format string, a ...interface{}) {
	logger.Warnf(format, a...)
}

// Error prints an indented and formatted error message to os.Stderr.
func Error(format string, a ...interface{}) {
	logger.Errorf(format, a...)
}

// Fatal prints an indented and formatted error message to os.Stderr and terminates the program.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	fmt.Fprintf(os.Stderr, "\033[31mA fatal error occured. Exiting...\033[0m\n")
	os.Exit(1)
}
