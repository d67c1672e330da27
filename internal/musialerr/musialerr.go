// Package musialerr defines the error taxonomy used across the engine.
package musialerr

import "fmt"

// Kind classifies a fatal error for exit-code purposes.
type Kind int

const (
	// KindInternal is the zero value, used for InternalError.
	KindInternal Kind = iota
	KindConfiguration
	KindIO
	KindReference
	KindBio
)

// Error wraps an underlying error with a taxonomy Kind.
type Error struct {
	Kind Kind
	Op   string // component or operation that raised it, e.g. "filter.Config.Validate"
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindIO:
		return "IOError"
	case KindReference:
		return "ReferenceError"
	case KindBio:
		return "BioError"
	default:
		return "InternalError"
	}
}

// Configuration wraps err as a ConfigurationError.
func Configuration(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// Configurationf formats a new ConfigurationError.
func Configurationf(op, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: fmt.Errorf(format, args...)}
}

// IO wraps err as an IOError.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// Reference wraps err as a ReferenceError.
func Reference(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindReference, Op: op, Err: err}
}

// Referencef formats a new ReferenceError.
func Referencef(op, format string, args ...any) error {
	return &Error{Kind: KindReference, Op: op, Err: fmt.Errorf(format, args...)}
}

// Bio wraps err as a BioError.
func Bio(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBio, Op: op, Err: err}
}

// Biof formats a new BioError.
func Biof(op, format string, args ...any) error {
	return &Error{Kind: KindBio, Op: op, Err: fmt.Errorf(format, args...)}
}

// Internal wraps err as an InternalError (aggregator invariant violation).
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// Internalf formats a new InternalError.
func Internalf(op, format string, args ...any) error {
	return &Error{Kind: KindInternal, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind of err if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return KindInternal, false
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ExitCode maps an error to a process exit code per spec §6:
// 0 success, non-zero on any fatal error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
