/**
 * @description
 * Structured logger for the Auction Backend.
 * Info and warning messages go to stdout, errors to stderr, so container
 * log collectors classify them correctly.
 *
 * @dependencies
 * - standard "log"
 */

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	// InfoLogger writes to stdout
	InfoLogger *log.Logger
	// ErrorLogger writes to stderr (for actual errors)
	ErrorLogger *log.Logger
)

func init() {
	InfoLogger = log.New(os.Stdout, "", log.LstdFlags)
	ErrorLogger = log.New(os.Stderr, "", log.LstdFlags)
}

// Info logs an info message to stdout
func Info(format string, v ...interface{}) {
	InfoLogger.Println(fmt.Sprintf(format, v...))
}

// Warn logs a recoverable problem to stdout with a WARN prefix
func Warn(format string, v ...interface{}) {
	InfoLogger.Println("WARN " + fmt.Sprintf(format, v...))
}

// Error logs an error message to stderr
func Error(format string, v ...interface{}) {
	ErrorLogger.Println(fmt.Sprintf(format, v...))
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	ErrorLogger.Fatalln(fmt.Sprintf(format, v...))
}

// SetOutput redirects both loggers, mainly so tests can capture output.
func SetOutput(info, errs io.Writer) {
	InfoLogger.SetOutput(info)
	ErrorLogger.SetOutput(errs)
}

// New creates a new logger that writes to the specified writer
func New(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}
