package render

import "fmt"

// ConfigErrorKind identifies the class of configuration problem.
type ConfigErrorKind int

const (
	// MalformedColorEntry means a colormap literal entry could not be parsed.
	MalformedColorEntry ConfigErrorKind = iota
	// DuplicateStopValue means two color stops share the same value.
	DuplicateStopValue
	// UnknownPalette means a named palette did not resolve.
	UnknownPalette
	// DegenerateRange means a stretch range has lo >= hi.
	DegenerateRange
	// InsufficientStops means too few stops for the renderer kind.
	InsufficientStops
	// TickOutOfRange means an explicit legend tick lies outside the domain.
	TickOutOfRange
)

func (k ConfigErrorKind) String() string {
	switch k {
	case MalformedColorEntry:
		return "malformed color entry"
	case DuplicateStopValue:
		return "duplicate stop value"
	case UnknownPalette:
		return "unknown palette"
	case DegenerateRange:
		return "degenerate range"
	case InsufficientStops:
		return "insufficient stops"
	case TickOutOfRange:
		return "tick out of range"
	default:
		return "unknown config error"
	}
}

// ConfigError reports an invalid renderer or legend configuration.
// It is raised at construction time only; Apply never fails.
type ConfigError struct {
	Kind   ConfigErrorKind
	Detail string // offending input, if available
	Err    error  // wrapped cause, may be nil
}

func (e *ConfigError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(kind ConfigErrorKind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// CodecError reports a malformed persisted renderer document. Field names
// the offending part of the document; the wrapped error carries the same
// validation failure a direct construction would report.
type CodecError struct {
	Field string
	Err   error
}

func (e *CodecError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid renderer document: %v", e.Err)
	}
	return fmt.Sprintf("invalid renderer document: %s: %v", e.Field, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }
