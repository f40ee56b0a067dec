package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/btouchard/shaderx"
)

// compileParams bundles one file's worth of flag-derived settings,
// keeping runCompile's loop body a single readable call instead of a
// dozen positional arguments.
type compileParams struct {
	target         shaderx.Target
	entryPoint     string
	secondaryEntry string
	inputVersion   shaderx.Version
	outputVersion  shaderx.Version
	defines        map[string]string
	searchPaths    []string
	opts           shaderx.Options
	mangling       shaderx.NameMangling
	vertexSem      map[string]int
	fragmentSem    map[string]int
	diagFormat     string
}

// readFileAsString adapts os.ReadFile's []byte result to the string
// preprocessor.FileIncludeHandler.Read expects.
func readFileAsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// compileOne reads inputFile, runs shaderx.CompileShader, and writes
// outputFile, returning false on any failure. Diagnostics are printed
// to stderr in either plain-text or LSP-JSON shape depending on
// p.diagFormat.
func compileOne(inputFile, outputFile string, p compileParams) bool {
	source, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inputFile, err)
		return false
	}

	var sink strings.Builder
	textOut := newTextLog(os.Stderr)
	lspOut := &lspLog{}
	var logger shaderx.Log = textOut
	if p.diagFormat == "lsp" {
		logger = lspOut
	}

	in := shaderx.ShaderInput{
		Filename:            inputFile,
		EntryPoint:          p.entryPoint,
		SecondaryEntryPoint: p.secondaryEntry,
		ShaderTarget:        p.target,
		ShaderVersion:       p.inputVersion,
		SourceCode:          string(source),
		IncludeHandler:      shaderx.FileIncludeHandler{Read: readFileAsString},
		SearchPaths:         p.searchPaths,
		Defines:             p.defines,
	}
	out := &shaderx.ShaderOutput{
		ShaderVersion:     p.outputVersion,
		Sink:              &sink,
		Options:           p.opts,
		NameMangling:      p.mangling,
		VertexSemantics:   p.vertexSem,
		FragmentSemantics: p.fragmentSem,
	}

	ok := shaderx.CompileShader(in, out, logger, nil)

	if p.diagFormat == "lsp" {
		if err := lspOut.Flush(os.Stderr); err != nil {
			log.Errorf("writing lsp diagnostics: %v", err)
		}
	}

	if !ok {
		return false
	}
	// writeSink inside CompileShader already withheld the sink write when
	// ValidateOnly is set; PreprocessOnly
	// still produces text in sink that belongs in outputFile.
	if p.opts.ValidateOnly {
		return true
	}
	if err := os.WriteFile(outputFile, []byte(sink.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: writing %s: %v\n", inputFile, outputFile, err)
		return false
	}
	return true
}
