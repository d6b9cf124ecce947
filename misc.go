package drbg

import (
	"errors"
	"fmt"
	goLog "log"
)

// Errors wrapped by the Error values returned from this package.
// Use errors.Is to test for them.
var (
	// The requested security strength exceeds what the primitive or
	// mechanism supports.
	ErrStrengthNotSupported = errors.New("security strength not supported")

	// The entropy source cannot (or did not) deliver enough entropy for
	// the security strength.
	ErrInsufficientEntropy = errors.New("insufficient entropy")

	// More output was requested in a single Generate call than the
	// mechanism allows.
	ErrRequestTooLarge = errors.New("request too large")

	// Additional input, personalization string or nonce is too long.
	ErrInputTooLarge = errors.New("input too large")

	// The seed file has no entropy left.
	ErrPoolExhausted = errors.New("entropy pool exhausted")
)

type errorImpl struct {
	msg    string
	locked bool
	inner  error
}

func (err *errorImpl) Locked() bool  { return err.locked }
func (err *errorImpl) Inner() error  { return err.inner }
func (err *errorImpl) Unwrap() error { return err.inner }

func (err *errorImpl) Error() string {
	if err.inner != nil {
		return fmt.Sprintf("%s: %s", err.msg, err.inner.Error())
	}
	return err.msg
}

// Formats a new Error
func errorf(format string, a ...interface{}) *errorImpl {
	return &errorImpl{msg: fmt.Sprintf(format, a...)}
}

// Formats a new Error that wraps another
func wrapErrorf(err error, format string, a ...interface{}) *errorImpl {
	return &errorImpl{msg: fmt.Sprintf(format, a...), inner: err}
}

type dummyLogger struct{}
type stdlibLogger struct{}

func (logger *dummyLogger) Logf(format string, a ...interface{}) {}

func (logger *stdlibLogger) Logf(format string, a ...interface{}) {
	goLog.Printf(format, a...)
}

var log Logger = &dummyLogger{}

type Logger interface {
	Logf(format string, a ...interface{})
}

// Enables logging to log package.  For more flexibility, see SetLogger().
func EnableLogging() {
	SetLogger(&stdlibLogger{})
}

// Enables logging.  Disable logging by passing nil.
//
// Use EnableLogging if you want to log to the log package.
func SetLogger(logger Logger) {
	if logger == nil {
		log = &dummyLogger{}
		return
	}
	log = logger
}
