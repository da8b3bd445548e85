package parser

import (
	"fmt"

	"github.com/CerenB/miss-hit/compiler/errors"
)

// SyntaxError is the single fatal error that ends the parse of a file
type SyntaxError struct {
	Code     string
	Message  string
	Location SourceLocation
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Message)
}

// ErrorCode returns the diagnostic code of this error
func (e *SyntaxError) ErrorCode() string {
	return e.Code
}

// Severity returns the severity level
func (e *SyntaxError) Severity() string {
	return "fatal"
}

// ToCompilerError converts the error into a diagnostic
func (e *SyntaxError) ToCompilerError() errors.CompilerError {
	return errors.NewCompilerError("parser", e.Code, e.Message, e.Location, errors.Fatal)
}

// ToJSON converts the error to a JSON-compatible structure
func (e *SyntaxError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"code":     e.ErrorCode(),
		"type":     "syntax",
		"severity": e.Severity(),
		"file":     e.Location.File,
		"line":     e.Location.Line,
		"column":   e.Location.Column,
		"message":  e.Message,
	}
}

// bailout carries a SyntaxError from the point of failure up to ParseFile
type bailout struct {
	err *SyntaxError
}
