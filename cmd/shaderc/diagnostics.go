package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"golang.org/x/term"

	"github.com/btouchard/shaderx"
)

// ansiColor maps a diagnostic severity to its terminal color code.
// This CLI only ever prints one report at a time, never repaints a
// screen, so plain escape codes suffice.
func ansiColor(sev shaderx.Severity) string {
	switch sev {
	case shaderx.Error:
		return "\x1b[31m"
	case shaderx.Warning:
		return "\x1b[33m"
	default:
		return "\x1b[36m"
	}
}

const ansiReset = "\x1b[0m"

// textLog prints each Report to w as a single line, colorized when w
// is a TTY (term.IsTerminal).
type textLog struct {
	w      io.Writer
	colors bool
}

func newTextLog(w io.Writer) *textLog {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	return &textLog{w: w, colors: colors}
}

// Report implements shaderx.Log.
func (l *textLog) Report(r shaderx.Report) {
	line := r.String()
	if l.colors {
		line = ansiColor(r.Severity) + line + ansiReset
	}
	fmt.Fprintln(l.w, line)
}

// lspLog accumulates Reports and, on Flush, emits them as a JSON array
// of go.lsp.dev/protocol.Diagnostic values keyed by file, for
// --diagnostics-format=lsp. No jsonrpc2 server is started; this only
// shapes one-shot
// output a language server's own diagnostics publisher could forward
// verbatim.
type lspLog struct {
	reports []shaderx.Report
}

// Report implements shaderx.Log.
func (l *lspLog) Report(r shaderx.Report) {
	l.reports = append(l.reports, r)
}

// fileDiagnostic pairs one LSP Diagnostic with the document URI it
// belongs to, the shape a language server's own publishDiagnostics
// notification would forward one-for-one.
type fileDiagnostic struct {
	URI        uri.URI             `json:"uri"`
	Diagnostic protocol.Diagnostic `json:"diagnostic"`
}

// Flush writes the accumulated reports to w as a JSON array of
// fileDiagnostic entries.
func (l *lspLog) Flush(w io.Writer) error {
	out := make([]fileDiagnostic, 0, len(l.reports))
	for _, r := range l.reports {
		var docURI uri.URI
		var rng protocol.Range
		if r.HasPos {
			docURI = uri.File(r.Pos.File)
			var line, col uint32
			if r.Pos.Line > 0 {
				line = uint32(r.Pos.Line - 1)
			}
			if r.Pos.Column > 0 {
				col = uint32(r.Pos.Column - 1)
			}
			rng = protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col},
			}
		}
		out = append(out, fileDiagnostic{
			URI: docURI,
			Diagnostic: protocol.Diagnostic{
				Range:    rng,
				Severity: lspSeverity(r.Severity),
				Source:   string(r.Phase),
				Message:  r.Message,
			},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func lspSeverity(sev shaderx.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case shaderx.Error:
		return protocol.DiagnosticSeverityError
	case shaderx.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
