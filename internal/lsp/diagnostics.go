package lsp

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"acircore/internal/errors"
	"acircore/internal/frontend"
)

// ConvertParseError turns a participle parse failure into a single LSP
// diagnostic, the syntax-error analogue of kanso's ConvertParseErrors (this
// front end surfaces one syntax error per parse rather than kanso's
// accumulated list, since participle.Parser.ParseString stops at the first
// one).
func ConvertParseError(err error) []protocol.Diagnostic {
	pe, ok := err.(participle.Error)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    zeroRange(),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("parser"),
			Message:  err.Error(),
		}}
	}

	pos := pe.Position()
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(pos.Line - 1), Character: uint32(pos.Column - 1)},
			End:   protocol.Position{Line: uint32(pos.Line - 1), Character: uint32(pos.Column - 1 + 1)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("parser"),
		Message:  pe.Message(),
	}}
}

// ConvertLowerError turns a *frontend.LowerError (itself wrapping an
// errors.CompilerError, whether raised during name resolution/type checking
// or bridged from a core *ssa.RuntimeError) into an LSP diagnostic.
func ConvertLowerError(err error) []protocol.Diagnostic {
	lowerErr, ok := err.(*frontend.LowerError)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    zeroRange(),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("lower"),
			Message:  err.Error(),
		}}
	}

	ce := lowerErr.Compiler
	severity := protocol.DiagnosticSeverityError
	if ce.Level == errors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}

	line := uint32(0)
	if ce.Position.Line > 0 {
		line = uint32(ce.Position.Line - 1)
	}
	col := uint32(0)
	if ce.Position.Column > 0 {
		col = uint32(ce.Position.Column - 1)
	}
	length := uint32(ce.Length)
	if length == 0 {
		length = 1
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + length},
		},
		Severity: ptrSeverity(severity),
		Source:   ptrString("acircore"),
		Message:  fmt.Sprintf("[%s] %s", ce.Code, ce.Message),
	}}
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
