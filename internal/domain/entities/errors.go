package entities

import (
	"fmt"
	"strings"
)

// RecordKind names the kind of record a validation problem refers to.
type RecordKind string

const (
	RecordEntity       RecordKind = "entity"
	RecordRelationship RecordKind = "relationship"
	RecordDocument     RecordKind = "document"
)

// DataValidationError describes one malformed, duplicate or dangling
// record. The build aborts when any are found.
type DataValidationError struct {
	Kind    RecordKind
	Index   int    // 0-indexed position within its collection, -1 if not applicable
	Line    int    // 1-indexed source line, 0 if unknown
	Ref     string // offending identifier or "source -> target"
	Field   string
	Message string
}

func (e *DataValidationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " %q", e.Ref)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors collects every problem found in one build.
type ValidationErrors []*DataValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	lines := make([]string, 0, len(v)+1)
	lines = append(lines, fmt.Sprintf("%d validation errors:", len(v)))
	for _, e := range v {
		lines = append(lines, "  "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes each problem to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// IOError reports a source that could not be read or an output that could
// not be written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
