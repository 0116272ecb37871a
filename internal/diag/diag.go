// Package diag implements the diagnostic sink shared by every pass: a
// fatal-first-error policy with a separate, non-aborting warning channel.
package diag

import (
	"fmt"
	"strings"

	"github.com/oxhq/midc/internal/ast"
)

// Kind is the diagnostic taxonomy. It is informational only
// (affects formatting and lets callers filter); severity is orthogonal
// (Warn vs the fatal Diagnostic.Error()).
type Kind string

const (
	KindLookup        Kind = "lookup"
	KindType          Kind = "type"
	KindTemplate      Kind = "template"
	KindStructural    Kind = "structural"
	KindOverride      Kind = "override"
	KindControlFlow   Kind = "control-flow"
	KindConstExpr     Kind = "const-expr"
	KindInternal      Kind = "internal"
)

// Diagnostic is a single fatal error: file, position range, and message.
// It implements error so passes can return it directly.
type Diagnostic struct {
	File    string
	Pos     ast.Range
	Kind    Kind
	Message string
}

func (d *Diagnostic) Error() string {
	prefix := ""
	if d.Kind == KindInternal {
		prefix = "[INTERNAL] "
	}
	if d.File == "" {
		return fmt.Sprintf("%s%s: %s", prefix, d.Pos, d.Message)
	}
	return fmt.Sprintf("%s%s:%s: %s", prefix, d.File, d.Pos, d.Message)
}

// New builds a Diagnostic at kind/pos with a formatted message.
func New(kind Kind, file string, pos ast.Range, format string, args ...any) *Diagnostic {
	return &Diagnostic{File: file, Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal builds a KindInternal diagnostic: an internal invariant
// failed, which is a bug in this module rather than in the source under
// compilation.
func Internal(file string, pos ast.Range, format string, args ...any) *Diagnostic {
	return New(KindInternal, file, pos, format, args...)
}

// Warning is a non-fatal diagnostic: printed, execution continues.
type Warning struct {
	File    string
	Pos     ast.Range
	Message string
}

func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("warning: %s: %s", w.Pos, w.Message)
	}
	return fmt.Sprintf("warning: %s:%s: %s", w.File, w.Pos, w.Message)
}

// Sink collects diagnostics for one compilation run. The first Error call
// is retained as the run's fatal error, favoring a precise error location
// over reporting many errors per run; Warn never aborts.
type Sink struct {
	first    *Diagnostic
	warnings []Warning
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink { return &Sink{} }

// Error records d as fatal if this sink has not already recorded one, and
// always returns d so callers can `return s.Error(d)` from a function that
// needs to unwind immediately.
func (s *Sink) Error(d *Diagnostic) *Diagnostic {
	if s.first == nil {
		s.first = d
	}
	return d
}

// Warn records a non-fatal diagnostic.
func (s *Sink) Warn(w Warning) {
	s.warnings = append(s.warnings, w)
}

// Fatal reports whether a fatal diagnostic has been recorded.
func (s *Sink) Fatal() bool { return s.first != nil }

// FirstError returns the first fatal diagnostic recorded, or nil.
func (s *Sink) FirstError() *Diagnostic { return s.first }

// Warnings returns every warning recorded, in order.
func (s *Sink) Warnings() []Warning { return s.warnings }

// Report renders the sink's outcome the way the CLI driver prints it:
// warnings first (in recorded order), then the fatal error if any.
func (s *Sink) Report() string {
	var b strings.Builder
	for _, w := range s.warnings {
		b.WriteString(w.String())
		b.WriteByte('\n')
	}
	if s.first != nil {
		b.WriteString(s.first.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
