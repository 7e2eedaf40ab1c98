package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"acircore/internal/frontend"
	"acircore/internal/lsp"
	"acircore/internal/ssa"
)

const lsName = "acircore-lsp"

func main() {
	showSSA := flag.Bool("show-ssa", false, "dump the lowered SSA instead of just reporting success")
	runLSP := flag.Bool("lsp", false, "run the language server over stdio instead of compiling a file")
	flag.Parse()

	if *runLSP {
		runServer()
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: acircore [--show-ssa] <file.acx>")
		fmt.Println("       acircore --lsp")
		os.Exit(1)
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	prog, err := frontend.ParseString(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	ctx := ssa.NewContext()
	fns, err := frontend.LowerProgram(ctx, prog)
	if err != nil {
		reportLowerError(err)
		os.Exit(1)
	}

	if *showSSA {
		for _, fn := range fns {
			fmt.Printf("fn %s:\n", fn.Name)
			fmt.Print(ssa.PrintContext(ctx))
		}
	}

	color.Green("successfully lowered %s (%d function(s))", path, len(fns))
}

// reportParseError prints a caret-style syntax error, grounded on kanso-cli's
// own reportParseError.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

// reportLowerError prints a *frontend.LowerError the same way the LSP
// surfaces it, just rendered for a terminal instead of a Diagnostic.
func reportLowerError(err error) {
	var lowerErr *frontend.LowerError
	if !errors.As(err, &lowerErr) {
		color.Red("unexpected error: %s", err)
		return
	}

	ce := lowerErr.Compiler
	color.Red("error[%s] at line %d, column %d: %s", ce.Code, ce.Position.Line, ce.Position.Column, ce.Message)
	for _, note := range ce.Notes {
		fmt.Printf("  note: %s\n", note)
	}
}

func runServer() {
	commonlog.Configure(1, nil)

	handler := lsp.NewHandler()
	lspHandler := protocol.Handler{
		Initialize:            handler.Initialize,
		Initialized:           handler.Initialized,
		Shutdown:              handler.Shutdown,
		TextDocumentDidOpen:   handler.TextDocumentDidOpen,
		TextDocumentDidChange: handler.TextDocumentDidChange,
		TextDocumentDidClose:  handler.TextDocumentDidClose,
	}

	srv := server.NewServer(&lspHandler, lsName, false)
	if err := srv.RunStdio(); err != nil {
		color.Red("lsp server exited: %s", err)
		os.Exit(1)
	}
}
