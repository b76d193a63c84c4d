// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, timestamps, configuration
//   - Store errors (200-299): Unknown symbols and missing data
//   - Import and export errors (300-399): Unreadable sources, malformed rows, failed exports
//
// Besides the coded *Error, three typed errors describe the store's failure
// modes and carry the context a caller needs to recover:
//
//	// Source could not be opened or read
//	var importErr *errors.ImportError
//
//	// A row could not be converted; Line is the 1-based line in the source
//	if pe, ok := errors.AsParseError(err); ok { fmt.Println(pe.Line) }
//
//	// Query against a symbol that was never imported
//	if errors.IsUnknownSymbolError(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost coded error in err's chain.
// Returns ErrCodeUnknown if the chain carries no code.
func GetCode(err error) ErrorCode {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch coded := e.(type) {
		case *Error:
			return coded.Code
		case interface{ ErrorCode() ErrorCode }:
			return coded.ErrorCode()
		}
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// ImportError is returned when an import source cannot be opened or read.
type ImportError struct {
	Source string
	Cause  error
}

// NewImportError creates a new ImportError for the given source.
func NewImportError(source string, cause error) *ImportError {
	return &ImportError{
		Source: source,
		Cause:  cause,
	}
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] cannot read import source %q: %v", ErrCodeImportFailed, e.Source, e.Cause)
	}

	return fmt.Sprintf("[%d] cannot read import source %q", ErrCodeImportFailed, e.Source)
}

// Unwrap returns the underlying error cause.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns ErrCodeImportFailed.
func (e *ImportError) ErrorCode() ErrorCode {
	return ErrCodeImportFailed
}

// ParseError is returned when a row of an import source cannot be converted
// into a bar. Line is 1-based; Column is 1-based and zero when unknown.
type ParseError struct {
	Source string
	Line   int
	Column int
	Cause  error
}

// NewParseError creates a new ParseError.
func NewParseError(source string, line, column int, cause error) *ParseError {
	return &ParseError{
		Source: source,
		Line:   line,
		Column: column,
		Cause:  cause,
	}
}

// NewParseErrorf creates a new ParseError with a formatted cause.
func NewParseErrorf(source string, line, column int, format string, args ...any) *ParseError {
	return &ParseError{
		Source: source,
		Line:   line,
		Column: column,
		Cause:  fmt.Errorf(format, args...),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("[%d] %s: line %d, column %d: %v", ErrCodeParseFailed, e.Source, e.Line, e.Column, e.Cause)
	}

	return fmt.Sprintf("[%d] %s: line %d: %v", ErrCodeParseFailed, e.Source, e.Line, e.Cause)
}

// Unwrap returns the underlying error cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns ErrCodeParseFailed.
func (e *ParseError) ErrorCode() ErrorCode {
	return ErrCodeParseFailed
}

// UnknownSymbolError is returned when a symbol was never registered in the store.
type UnknownSymbolError struct {
	Symbol string
}

// NewUnknownSymbolError creates a new UnknownSymbolError.
func NewUnknownSymbolError(symbol string) *UnknownSymbolError {
	return &UnknownSymbolError{Symbol: symbol}
}

// Error implements the error interface.
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("[%d] unknown symbol: %s", ErrCodeUnknownSymbol, e.Symbol)
}

// ErrorCode returns ErrCodeUnknownSymbol.
func (e *UnknownSymbolError) ErrorCode() ErrorCode {
	return ErrCodeUnknownSymbol
}

// IsImportError checks if an error is an ImportError.
func IsImportError(err error) bool {
	var importErr *ImportError

	return errors.As(err, &importErr)
}

// IsParseError checks if an error is a ParseError.
func IsParseError(err error) bool {
	_, ok := AsParseError(err)

	return ok
}

// AsParseError returns the first ParseError in err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}

	return nil, false
}

// IsUnknownSymbolError checks if an error is an UnknownSymbolError.
func IsUnknownSymbolError(err error) bool {
	var unknownErr *UnknownSymbolError

	return errors.As(err, &unknownErr)
}
