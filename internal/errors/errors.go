package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/betteryou/internal/logger"
)

var (
	// ErrNotFound is returned when a habit or profile does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks user-supplied values that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Invalid wraps ErrInvalidInput with a formatted detail message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidInput):
		return 2
	default:
		return 1
	}
}

// Fatal logs err, prints it to stderr and exits with ExitCode(err).
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
