package config

import "fmt"

// ExitConfigError is the process exit code for any configuration failure.
const ExitConfigError = 2

// ErrorKind classifies configuration failures.
type ErrorKind int

const (
	KindIO         ErrorKind = iota // file could not be read
	KindParse                       // file is not valid YAML
	KindValidation                  // file does not match the schema
	KindCheck                       // merged settings are inconsistent
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "check"
	}
}

// Error is a configuration failure, optionally tied to a file.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for this error.
func (e *Error) ExitCode() int {
	return ExitConfigError
}
