package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDiagnoseReportsNothingForValidSource(t *testing.T) {
	h := NewHandler()
	diagnostics := h.diagnose("ok.acx", `
fn add(a: Field, b: Field) -> Field {
    let sum = a + b;
    return sum;
}
`)
	assert.Empty(t, diagnostics)

	h.mu.RLock()
	_, cached := h.programs["ok.acx"]
	h.mu.RUnlock()
	assert.True(t, cached, "a successfully parsed program should be cached")
}

func TestDiagnoseReportsSyntaxErrors(t *testing.T) {
	h := NewHandler()
	diagnostics := h.diagnose("bad.acx", "fn ( ) { this is not valid")
	require.Len(t, diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)
}

func TestDiagnoseReportsLoweringErrors(t *testing.T) {
	h := NewHandler()
	diagnostics := h.diagnose("undefined.acx", `
fn f() -> Field {
    return unknownVar;
}
`)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "E0001")
	assert.Contains(t, diagnostics[0].Message, "unknownVar")

	h.mu.RLock()
	_, cached := h.programs["undefined.acx"]
	h.mu.RUnlock()
	assert.True(t, cached, "a parseable-but-ill-typed program should still be cached for later lookups")
}

func TestUriToPathRoundTripsAPlainPath(t *testing.T) {
	path, err := uriToPath("file:///tmp/example.acx")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/example.acx", path)
}
