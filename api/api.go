// Package api exposes the end-to-end translation pipeline as a single Run
// function, shared by the command line entry point and by tests.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"github.com/dprr/rocker/config"
	"github.com/dprr/rocker/instrument"
	"github.com/dprr/rocker/parser"
	"github.com/dprr/rocker/translator"
)

// Result indicates if the Run function was successful or how it failed.
type Result int

const (
	// RunSuccessful indicates that the Run function completed successfully.
	RunSuccessful Result = iota
	// RunFailedParsing indicates that the Run function failed while the
	// input program was being parsed.
	RunFailedParsing
	// RunFailedTranslating indicates that the Run function failed while the
	// translator was working.
	RunFailedTranslating
	// RunFailedWritingOutput indicates that the Run function failed writing
	// the generated Promela file to disk.
	RunFailedWritingOutput
)

var errColor = color.New(color.FgRed)

func reportError(err error) {
	errColor.Fprintln(os.Stderr, err)
}

// Run translates the litmus program at the given path into a Promela model
// and returns whether it was successful or failed.
func Run(path string, cfg config.Config) Result {
	prog, err := parser.ParseFile(path)
	if err != nil {
		reportError(err)
		return RunFailedParsing
	}

	instr, err := instrument.ForModel(cfg.Model)
	if err != nil {
		reportError(err)
		return RunFailedTranslating
	}

	doc, err := translator.TranslateProgram(prog, instr)
	if err != nil {
		reportError(err)
		return RunFailedTranslating
	}

	outPath := outputPath(path, cfg)
	if err := writeFile(outPath, doc.AsPML()); err != nil {
		reportError(fmt.Errorf("writing %s: %w", outPath, err))
		return RunFailedWritingOutput
	}
	return RunSuccessful
}

// outputPath derives the .pml output path for an input file. The output
// lands next to the input unless the configuration names a directory.
func outputPath(path string, cfg config.Config) string {
	name := cfg.OutName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, name+".pml")
}

func writeFile(path, content string) (err error) {
	f, createErr := os.Create(path)
	if createErr != nil {
		return createErr
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = fmt.Fprintln(f, content)
	return err
}
