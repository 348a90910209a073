package lib

import "fmt"

type DiagnosticKind int

const (
	DiagnosticUnterminatedString DiagnosticKind = iota
	DiagnosticUnterminatedComment
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticUnterminatedString:
		return "unterminated-string"
	case DiagnosticUnterminatedComment:
		return "unterminated-comment"
	}
	return "unknown"
}

// Diagnostic describes input the lexer accepted leniently. Line is where the
// offending construct starts.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}
