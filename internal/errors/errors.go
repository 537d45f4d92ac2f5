package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes pipeline errors so callers can decide between
// fatal and absorbable failures without string matching.
type ErrorType string

const (
	// Fatal: the run never starts or produces no result.
	ErrorTypePreparation ErrorType = "preparation"
	ErrorTypeConfig      ErrorType = "config"

	// Absorbed: represented as data (Issues or per-analyzer error fields).
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeFileRead ErrorType = "file_read"
	ErrorTypeAnalyzer ErrorType = "analyzer"

	ErrorTypeInternal ErrorType = "internal"
)

// AnalysisError carries context about a failure inside the pipeline.
type AnalysisError struct {
	Type       ErrorType
	Analyzer   string
	FilePath   string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// New creates an AnalysisError for the given type and operation.
func New(errType ErrorType, op string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       errType,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewPreparationError creates a fatal preparation failure.
func NewPreparationError(op string, err error) *AnalysisError {
	return New(ErrorTypePreparation, op, err)
}

// NewConfigError creates a fatal configuration error for a named option.
func NewConfigError(option string, err error) *AnalysisError {
	e := New(ErrorTypeConfig, "validate", err)
	e.Operation = "validate " + option
	return e
}

// WithFile attaches the file the error occurred on.
func (e *AnalysisError) WithFile(path string) *AnalysisError {
	e.FilePath = path
	return e
}

// WithAnalyzer attaches the analyzer that produced the error.
func (e *AnalysisError) WithAnalyzer(name string) *AnalysisError {
	e.Analyzer = name
	return e
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	switch {
	case e.FilePath != "" && e.Analyzer != "":
		return fmt.Sprintf("%s: %s failed in %s for %s: %v", e.Type, e.Operation, e.Analyzer, e.FilePath, e.Underlying)
	case e.FilePath != "":
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	case e.Analyzer != "":
		return fmt.Sprintf("%s: %s failed in %s: %v", e.Type, e.Operation, e.Analyzer, e.Underlying)
	default:
		return fmt.Sprintf("%s: %s failed: %v", e.Type, e.Operation, e.Underlying)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error must abort the whole run rather
// than be absorbed into the result.
func (e *AnalysisError) IsFatal() bool {
	return e.Type == ErrorTypePreparation || e.Type == ErrorTypeConfig
}

// IsFatal reports whether err (or anything it wraps) is a fatal
// pipeline error. Non-AnalysisError values are treated as fatal,
// since only the pipeline produces absorbable errors.
func IsFatal(err error) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.IsFatal()
	}
	return err != nil
}
