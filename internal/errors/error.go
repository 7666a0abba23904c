package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
	CategorySource   Category = "source"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// Location points at the origin of an error: a file position, a template
// node, or both.
type Location struct {
	File   string
	Line   int
	Column int

	// Node is the path of a template node, e.g. "div#app > p:1".
	Node string
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	var s string
	switch {
	case l.File != "" && l.Column > 0:
		s = fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	case l.File != "" && l.Line > 0:
		s = fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		s = l.File
	}
	if l.Node != "" {
		if s != "" {
			s += " "
		}
		s += l.Node
	}
	return s
}

// VbindError is a structured error with a code, location and a hint.
type VbindError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, template, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VbindError) Error() string {
	msg := e.Message
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VbindError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position and reads the lines around it.
func (e *VbindError) WithLocation(file string, line, column int) *VbindError {
	node := ""
	if e.Location != nil {
		node = e.Location.Node
	}
	e.Location = &Location{File: file, Line: line, Column: column, Node: node}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithOffset sets the location from a byte offset into data, as reported by
// encoding/json syntax errors.
func (e *VbindError) WithOffset(file string, data []byte, offset int64) *VbindError {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	e.Location = &Location{File: file, Line: line, Column: col}
	e.Context = contextFromLines(strings.Split(string(data), "\n"), line, 5)
	return e
}

// WithNode records the template node the error belongs to.
func (e *VbindError) WithNode(path string) *VbindError {
	if e.Location == nil {
		e.Location = &Location{}
	}
	e.Location.Node = path
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VbindError) WithSuggestion(s string) *VbindError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VbindError) WithDetail(d string) *VbindError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *VbindError) Wrap(err error) *VbindError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	if filename == "" || targetLine <= 0 {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > targetLine+contextSize/2 {
			break
		}
	}
	return contextFromLines(lines, targetLine, contextSize)
}

func contextFromLines(lines []string, targetLine, contextSize int) []string {
	start := targetLine - contextSize/2
	end := targetLine + contextSize/2
	var out []string
	for i, line := range lines {
		n := i + 1
		if n >= start && n <= end {
			out = append(out, line)
		}
	}
	return out
}

// New creates a VbindError from a registered error code.
func New(code string) *VbindError {
	template, ok := registry[code]
	if !ok {
		return &VbindError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VbindError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new VbindError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *VbindError {
	return &VbindError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VbindError.
func FromError(err error, code string) *VbindError {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*VbindError); ok {
		return ve
	}
	return New(code).Wrap(err)
}
