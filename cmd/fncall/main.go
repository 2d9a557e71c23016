// Command fncall turns model output into verified function calls.
//
// Usage:
//
//	fncall run --functions defs.json --input prompts.json --output results.json
//	fncall check --functions defs.json [--diff] [--repair] [file|-]
//	fncall repl --functions defs.json
//	fncall tokenize [--vocab dir] text...
//
// Model access is configured through FNCALL_API_KEY, FNCALL_BASE_URL and
// FNCALL_MODEL. A .env file in the working directory is loaded first.
package main

import (
	"errors"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitRejected = 2
)

// errRejected is returned by commands that printed a rejected candidate.
var errRejected = errors.New("candidate rejected")

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	return exitCode(err, root.ErrOrStderr())
}
