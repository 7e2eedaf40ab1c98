// Package lsp implements the editor/diagnostics surface: an LSP server that
// parses and lowers internal/frontend source on every open/change
// notification and reports the result back as diagnostics. It mirrors
// kanso's internal/lsp/handler.go structure (a mutex-guarded per-file cache,
// one updateX method both didOpen and didChange call into) wired to
// internal/frontend + internal/ssa + internal/errors instead of kanso's own
// Move-like parser.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"acircore/internal/frontend"
	"acircore/internal/ssa"
)

// Handler implements the LSP server methods for the demonstration surface
// language.
type Handler struct {
	mu       sync.RWMutex
	content  map[string]string
	programs map[string]*frontend.Program
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{
		content:  make(map[string]string),
		programs: make(map[string]*frontend.Program),
	}
}

// Initialize responds to the LSP client's initialize request.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is called once the client has received the server's capabilities.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP Shutdown")
	return nil
}

// TextDocumentDidOpen parses and lowers the freshly opened document.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)
	return h.refresh(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-parses and re-lowers on every full-document sync.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// TextDocumentSyncKindFull means the last change event carries the
	// whole new document text.
	change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("unexpected content change event shape for %s", params.TextDocument.URI)
	}
	return h.refresh(ctx, params.TextDocument.URI, change.Text)
}

// TextDocumentDidClose drops the cached content and program for a file.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.programs, path)
	return nil
}

// refresh parses text, lowers it through internal/ssa, and publishes whatever
// diagnostics result (possibly none, clearing a previously reported error).
func (h *Handler) refresh(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	diagnostics := h.diagnose(path, text)

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// diagnose runs the full parse -> lower -> fold pipeline and converts the
// first failure, if any, into an LSP diagnostic. Unlike a batch compiler,
// the editor surface reports one diagnostic at a time: lowering stops at the
// first error, matching LowerProgram's fail-fast contract.
func (h *Handler) diagnose(path, text string) []protocol.Diagnostic {
	prog, err := frontend.ParseString(path, text)
	if err != nil {
		return ConvertParseError(err)
	}

	h.mu.Lock()
	h.programs[path] = prog
	h.mu.Unlock()

	ctx := ssa.NewContext()
	if _, err := frontend.LowerProgram(ctx, prog); err != nil {
		return ConvertLowerError(err)
	}

	return nil
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
