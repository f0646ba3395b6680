package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"dicelang/internal/ast"
	"dicelang/internal/builtins"
	"dicelang/internal/decomposition"
	"dicelang/internal/interp"
	"dicelang/internal/parser"
)

// SemanticTokenTypes is the set of token kinds this server reports.
var SemanticTokenTypes = []string{
	"variable",
	"function",
	"keyword",
	"number",
	"operator",
}

// SemanticTokenModifiers is the set of extra tags a token can carry.
var SemanticTokenModifiers = []string{
	"declaration",
}

// document holds the parsed state for one open file: its own Environment
// and dependency ID source, so that one file's variables never leak into
// another's (spec.md's no-persisted-state, no-concurrent-mutation rules
// apply per document, not across the server).
type document struct {
	content string
	program *ast.Program
	env     *builtins.Environment
	ids     *decomposition.IDSource
}

// DiceHandler implements the LSP server handlers for dicelang.
type DiceHandler struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// NewDiceHandler creates and returns a new DiceHandler instance
func NewDiceHandler() *DiceHandler {
	return &DiceHandler{
		docs: make(map[string]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *DiceHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *DiceHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("dicelang LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *DiceHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("dicelang LSP Shutdown")
	return nil
}

// SetTrace is a no-op; dicelang's server does not vary its own tracing.
func (h *DiceHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *DiceHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)
	return h.reparse(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidClose handles file close notifications from the editor,
// discarding that document's Environment.
func (h *DiceHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	delete(h.docs, path)
	h.mu.Unlock()

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server is configured for full-document sync, so the document's
// text is re-read from disk rather than reconstructed from edit ranges.
func (h *DiceHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return h.reparse(ctx, params.TextDocument.URI, string(content))
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *DiceHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.RLock()
	doc, ok := h.docs[path]
	h.mu.RUnlock()
	if !ok || doc.program == nil {
		return &protocol.SemanticTokens{}, nil
	}

	tokens := collectSemanticTokens(doc.program)

	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// reparse runs the scanner/parser/interp pipeline over the document's
// current text and republishes the resulting diagnostics, per spec.md's
// scanner/parser/error-log external collaborators.
func (h *DiceHandler) reparse(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	program, parseErrs, scanErrs := parser.ParseSource(path, text)

	diagnostics := ConvertScanErrors(scanErrs)
	diagnostics = append(diagnostics, ConvertParseErrors(parseErrs)...)

	doc := &document{
		content: text,
		program: program,
		env:     builtins.New(),
		ids:     decomposition.NewIDSource(),
	}

	if len(diagnostics) == 0 && program != nil {
		driver := interp.NewDriver(doc.env, doc.ids)
		diagnostics = append(diagnostics, ConvertEvalErrors(program, driver.Evaluate(program))...)
	}

	h.mu.Lock()
	h.docs[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// uriToPath converts a file:// URI to a platform-local file path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
