package main

import (
	"fmt"
	"io"
	"os"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/syntax"
)

// readSource reads the full contents of opts.input, treating "-" as
// stdin, mirroring the teacher's own stdin/file duality in
// cmd/datalog/main.go's interactive-vs-file modes.
func readSource(opts *rootOptions) (string, error) {
	if opts.input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", opts.input, err)
	}
	return string(data), nil
}

// writeOutput writes text to opts.output, treating "-" as stdout.
func writeOutput(opts *rootOptions, text string) error {
	if opts.output == "-" {
		_, err := fmt.Println(text)
		return err
	}
	return os.WriteFile(opts.output, []byte(text+"\n"), 0o644)
}

// readRuleProgram parses opts.input as a rule.Program.
func readRuleProgram(opts *rootOptions) (*rule.Program, error) {
	src, err := readSource(opts)
	if err != nil {
		return nil, err
	}
	p, err := syntax.ParseRuleProgram(src)
	if err != nil {
		return nil, fmt.Errorf("parsing rule program: %w", err)
	}
	return p, nil
}

// readRAProgram parses opts.input as an ra.Program.
func readRAProgram(opts *rootOptions) (*ra.Program, error) {
	src, err := readSource(opts)
	if err != nil {
		return nil, err
	}
	p, err := syntax.ParseRAProgram(src)
	if err != nil {
		return nil, fmt.Errorf("parsing RA program: %w", err)
	}
	return p, nil
}

func writeRuleProgram(opts *rootOptions, p *rule.Program) error {
	return writeOutput(opts, syntax.EncodeRuleProgram(p).String())
}

func writeRAProgram(opts *rootOptions, p *ra.Program) error {
	return writeOutput(opts, syntax.EncodeRAProgram(p).String())
}
