// Package errors provides error formatting utilities for the ecma toolchain.
// It formats lexer/parser/compiler errors with source context, line/column
// information, and a caret pointing to the offending span.
package errors

import (
	"fmt"
	"strings"
)

// Span identifies a range of source text by line/column/byte offset pairs.
// Columns are 1-based and counted in UTF-16 code units, matching the value
// the lexer reports for template-literal and string-escape diagnostics.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol      int
	StartOffset, EndOffset int
}

// String renders a span as "line:col".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
}

// Phase identifies which pipeline stage raised a CompilerError.
type Phase int

const (
	PhaseLex Phase = iota
	PhaseParse
	PhaseCompile
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "SyntaxError"
	case PhaseParse:
		return "SyntaxError"
	case PhaseCompile:
		return "SyntaxError"
	default:
		return "Error"
	}
}

// CompilerError represents a single lex/parse/compile error with position
// and source context, formatted the way a terminal front-end expects.
type CompilerError struct {
	Phase   Phase
	Message string
	Source  string
	File    string
	Span    Span
}

// NewCompilerError builds a CompilerError carrying source context.
func NewCompilerError(phase Phase, span Span, message, source, file string) *CompilerError {
	return &CompilerError{Phase: phase, Message: message, Source: source, File: file, Span: span}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source line and caret indicator.
// If color is true, ANSI color codes highlight the caret.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s: %s\n  --> %s:%d:%d\n", e.Phase, e.Message, e.File, e.Span.StartLine, e.Span.StartCol)
	} else {
		fmt.Fprintf(&sb, "%s: %s\n  --> %d:%d\n", e.Phase, e.Message, e.Span.StartLine, e.Span.StartCol)
	}

	line := sourceLine(e.Source, e.Span.StartLine)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Span.StartLine)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		width := e.Span.EndCol - e.Span.StartCol
		if width < 1 {
			width = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Span.StartCol-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString(strings.Repeat("^", width))
		if color {
			sb.WriteString("\033[0m")
		}
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// ErrorList accumulates CompilerErrors produced during a single lex/parse pass.
type ErrorList struct {
	Errors []*CompilerError
}

func (l *ErrorList) Add(err *CompilerError) {
	l.Errors = append(l.Errors, err)
}

func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

func (l *ErrorList) Error() string {
	parts := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n\n")
}
