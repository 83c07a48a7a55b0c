// Package errors provides structured error reporting for the permission demo.
//
// Errors that must not reach the user (an empty dialog queue, a permission
// without rationale text, a broken platform event) are wrapped in an
// AppError and handed to a pluggable ErrorHandler. The default handler logs
// them through logrus.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPlatform indicates a platform channel or native bridge error.
	KindPlatform
	// KindParsing indicates an event parsing failure.
	KindParsing
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindQueue indicates a misuse of the rationale dialog queue.
	KindQueue
	// KindCatalog indicates a rationale text lookup failure.
	KindCatalog
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindParsing:
		return "parsing"
	case KindConfig:
		return "config"
	case KindQueue:
		return "queue"
	case KindCatalog:
		return "catalog"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// AppError represents a structured, locally absorbed error.
type AppError struct {
	// Op is the operation that failed (e.g., "screen.Dismiss").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Permission is the permission identifier involved, if any.
	Permission string
	// Channel is the platform channel name, if applicable.
	Channel string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.Permission != "" {
		msg += " permission=" + e.Permission
	}
	if e.Channel != "" {
		msg += " channel=" + e.Channel
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "screen.Confirm").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to parse event data.
type ParseError struct {
	// Channel is the platform channel that received the event.
	Channel string
	// DataType is the expected type name.
	DataType string
	// Got is the actual data received.
	Got any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from channel %s: got %T", e.DataType, e.Channel, e.Got)
}

// ErrorHandler receives reported errors.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AppError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
