package lsp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"dicelang/internal/lsp"
)

func openDoc(t *testing.T, handler *lsp.DiceHandler, uri, text string) *protocol.PublishDiagnosticsParams {
	t.Helper()
	var published *protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
				published = p
			}
		},
	}

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: text},
	})
	require.NoError(t, err)
	return published
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewDiceHandler()
	uri := "file:///tmp/dicelang-test/program.dice"

	openDoc(t, handler, uri, "var X = 1d6;\nexpectation(X);\n")

	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	require.NotEmpty(t, tokens.Data)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.NotEmpty(t, decoded)

	tokenTypes := make(map[string]int)
	for _, token := range decoded {
		tokenTypes[token.Type]++
	}

	require.Greater(t, tokenTypes["variable"], 0, "should have variable tokens for X")
	require.Greater(t, tokenTypes["function"], 0, "should have a function token for expectation")
	require.Greater(t, tokenTypes["number"], 0, "should have number tokens for 1 and 6")
}

func TestTextDocumentDidOpenPublishesNoDiagnosticsForValidProgram(t *testing.T) {
	handler := lsp.NewDiceHandler()
	published := openDoc(t, handler, "file:///tmp/dicelang-test/ok.dice", "var X = 1d6;\nX + 1;\n")

	require.NotNil(t, published)
	require.Empty(t, published.Diagnostics)
}

func TestTextDocumentDidOpenPublishesDiagnosticForUnknownVariable(t *testing.T) {
	handler := lsp.NewDiceHandler()
	published := openDoc(t, handler, "file:///tmp/dicelang-test/bad.dice", "Y + 1;\n")

	require.NotNil(t, published)
	require.NotEmpty(t, published.Diagnostics)
}

func TestTextDocumentDidOpenPublishesDiagnosticForParseError(t *testing.T) {
	handler := lsp.NewDiceHandler()
	published := openDoc(t, handler, "file:///tmp/dicelang-test/syntax.dice", "var = 1;\n")

	require.NotNil(t, published)
	require.NotEmpty(t, published.Diagnostics)
}

func TestTextDocumentDidCloseDiscardsDocument(t *testing.T) {
	handler := lsp.NewDiceHandler()
	uri := "file:///tmp/dicelang-test/closing.dice"
	openDoc(t, handler, uri, "1 + 1;\n")

	err := handler.TextDocumentDidClose(&glsp.Context{}, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Empty(t, tokens.Data)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1,
			Char:      char + 1,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}
