// Package diag implements the compiler's error taxonomy and Log
// sink: every diagnostic produced by any stage is a Report delivered
// to a caller-supplied Log, never an exception used for control flow,
// with the originating pipeline phase recorded on each Report.
package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Severity classifies a Report. Warnings never fail a compilation;
// every other severity does.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Phase names the pipeline stage a Report originated in.
type Phase string

const (
	PhaseArgument   Phase = "argument"
	PhaseLex        Phase = "lexer"
	PhasePreprocess Phase = "preprocessor"
	PhaseSyntax     Phase = "parser"
	PhaseSemantic   Phase = "analyzer"
	PhaseTarget     Phase = "target"
	PhaseInternal   Phase = "internal"
)

// Report is a single diagnostic: where it happened, what phase raised
// it, how severe it is, and an optional list of one-line hints.
type Report struct {
	Severity Severity
	Phase    Phase
	Message  string
	Pos      token.Position
	HasPos   bool
	Hints    []string
}

func (r Report) String() string {
	if r.HasPos {
		return fmt.Sprintf("[%s] %s:%d:%d: %s", r.Phase, r.Pos.File, r.Pos.Line, r.Pos.Column, r.Message)
	}
	return fmt.Sprintf("[%s] %s", r.Phase, r.Message)
}

// Log is the sink every stage reports into. The CLI driver's default
// implementation prints to stderr (optionally colorized, see
// cmd/shaderc); library callers may supply any sink, including one
// that only collects Reports for programmatic inspection.
type Log interface {
	Report(r Report)
}

// Collector is a Log that simply accumulates Reports in memory. It is
// the sink used by stages under test. The public API does not
// substitute one for a nil Log: with a nil Log, Sink drops every
// Report.
type Collector struct {
	Reports []Report
}

// Report implements Log.
func (c *Collector) Report(r Report) { c.Reports = append(c.Reports, r) }

// HasErrors reports whether any accumulated Report is at Error
// severity or above.
func (c *Collector) HasErrors() bool {
	for _, r := range c.Reports {
		if r.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the Error-severity reports, in order.
func (c *Collector) Errors() []Report {
	var out []Report
	for _, r := range c.Reports {
		if r.Severity == Error {
			out = append(out, r)
		}
	}
	return out
}

// Sink reports r into log if log is non-nil; it is always safe to
// call with a nil log, since the caller's log is optional.
func Sink(log Log, r Report) {
	if log != nil {
		log.Report(r)
	}
}

// Errorf reports an Error-severity diagnostic at pos in phase.
func Errorf(log Log, phase Phase, pos token.Position, format string, args ...interface{}) {
	Sink(log, Report{Severity: Error, Phase: phase, Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true})
}

// Warnf reports a Warning-severity diagnostic at pos in phase.
func Warnf(log Log, phase Phase, pos token.Position, format string, args ...interface{}) {
	Sink(log, Report{Severity: Warning, Phase: phase, Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true})
}

// Internalf reports an InternalError: an invariant violation. cause,
// when non-nil, is wrapped with github.com/pkg/errors and the wrapped
// error's message ("<msg>: <cause>") becomes the Report's only Hint;
// the stack trace itself is not kept in the Report.
func Internalf(log Log, cause error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	var hints []string
	if cause != nil {
		wrapped := errors.Wrap(cause, msg)
		hints = []string{wrapped.Error()}
	}
	Sink(log, Report{Severity: Error, Phase: PhaseInternal, Message: msg, Hints: hints})
}

// ArgumentErrorf reports an ArgumentError: raised before any stage
// runs, for a malformed ShaderInput/ShaderOutput descriptor.
func ArgumentErrorf(log Log, format string, args ...interface{}) {
	Sink(log, Report{Severity: Error, Phase: PhaseArgument, Message: fmt.Sprintf(format, args...)})
}
