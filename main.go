package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	out := flag.String("o", "", "output file (defaults to stdout)")
	checkOnly := flag.Bool("check", false, "validate the model without writing a scene")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: armature [-check] [-o scene.usda] source.lisp\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read source: %v", err)
	}

	app := NewApp()

	var result CompileResult
	if *checkOnly {
		result = app.Validate(string(source))
	} else {
		result = app.Compile(string(source))
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", formatDiag(w))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", formatDiag(e))
	}

	if *checkOnly {
		if len(result.Errors) > 0 {
			os.Exit(1)
		}
		return
	}

	if !result.Ok() {
		os.Exit(1)
	}

	if *out == "" {
		fmt.Print(result.Scene)
		return
	}
	if err := os.WriteFile(*out, []byte(result.Scene), 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
}

func formatDiag(d EvalErrorData) string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}
