package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Validation errors (1xx) are caused by malformed or invalid input and are
// always raised before any external call is made.
var (
	// ErrInput stands for general input problems indication.
	ErrInput = Register(100, "invalid input")

	// ErrAddress is returned when an address is the zero address, the
	// sentinel address or otherwise not usable in the requested context.
	ErrAddress = Register(101, "invalid address")

	// ErrEmptyBatch is returned when a batch encoding or standardization
	// is requested for an empty transaction set.
	ErrEmptyBatch = Register(102, "empty transaction set")

	// ErrThreshold is returned when a threshold value violates the
	// 1 <= threshold <= owner count invariant.
	ErrThreshold = Register(103, "threshold out of range")

	// ErrAlreadyOwner is returned when adding or swapping in an address
	// that is already an owner.
	ErrAlreadyOwner = Register(104, "already an owner")

	// ErrNotOwner is returned when removing or swapping out an address
	// that is not an owner.
	ErrNotOwner = Register(105, "not an owner")

	// ErrAlreadyEnabled is returned when enabling a module, guard or
	// fallback handler that is already set.
	ErrAlreadyEnabled = Register(106, "already enabled")

	// ErrNotEnabled is returned when disabling a module, guard or
	// fallback handler that is not set.
	ErrNotEnabled = Register(107, "not enabled")

	// ErrSignature is returned when signature bytes are malformed or the
	// recovered signer does not match the expected address.
	ErrSignature = Register(108, "invalid signature")
)

// Authorization errors (2xx) mean the caller must obtain more signatures or
// authorization. They are never retried automatically.
var (
	// ErrNoSigner is returned when an operation requires an active signer
	// and the chain adapter provides none.
	ErrNoSigner = Register(200, "no active signer")

	// ErrSignerNotOwner is returned when the active signer must be an
	// owner of the wallet but is not.
	ErrSignerNotOwner = Register(201, "signer is not an owner")

	// ErrInsufficientSignatures is returned when the collected signature
	// count is below the wallet threshold.
	ErrInsufficientSignatures = Register(202, "insufficient signatures")
)

// Version errors (3xx) mean the deployed contract version does not support
// the requested capability.
var (
	// ErrUnsupportedVersion is returned when a feature is gated on a
	// contract version newer than the deployed one.
	ErrUnsupportedVersion = Register(300, "unsupported contract version")

	// ErrUnsupportedMethod is returned when a signing method is not
	// available for the deployed contract version.
	ErrUnsupportedMethod = Register(301, "unsupported signing method")
)

// External errors (4xx) wrap chain adapter and contract binding failures.
// The cause chain is preserved so callers can implement their own retry
// policy; this package never retries.
var (
	// ErrExternal is returned when a chain adapter or contract call
	// fails.
	ErrExternal = Register(400, "external call failed")
)

var (
	// ErrState is returned when an object is in an invalid state.
	ErrState = Register(500, "invalid state")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may want
// to declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No
// two error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for unclassified errors and must not be used.
}

// Error represents a root error.
//
// This package is using root errors to categorize issues. Each instance
// created during the runtime should wrap one of the declared root errors.
// This allows error tests and returning all errors to the client in a safe
// manner.
//
// If an extension has to declare a custom root error, always use the
// Register function to ensure error code uniqueness.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the classification code of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//
//	e.New("my description")
//	Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional functionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call
// this function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping.
// Use it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

func isNilErr(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if err == nil {
		return true
	}
	if reflect.ValueOf(err).Kind() == reflect.Ptr && reflect.ValueOf(err).IsNil() {
		return true
	}
	return false
}

// stackTrace returns the first found stack trace frame carried by given
// error or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}
