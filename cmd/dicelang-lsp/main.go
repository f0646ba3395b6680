// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"dicelang/internal/lsp"
)

const lsName = "dicelang" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	diceHandler := lsp.NewDiceHandler()

	handler = protocol.Handler{
		Initialize:                     diceHandler.Initialize,
		Initialized:                    diceHandler.Initialized,
		Shutdown:                       diceHandler.Shutdown,
		SetTrace:                       diceHandler.SetTrace,
		TextDocumentDidOpen:            diceHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           diceHandler.TextDocumentDidClose,
		TextDocumentDidChange:          diceHandler.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: diceHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting dicelang LSP server (version %s)...\n", version)

	// Start the server over standard input/output, as most editors expect.
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting dicelang LSP server:", err)
		os.Exit(1)
	}
}
