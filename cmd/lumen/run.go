package main

import (
	"fmt"
	"os"

	"github.com/aolsen/lumen/pkg/lang"
)

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open file %q.\n", path)
		os.Exit(74)
	}

	session := lang.NewSession(os.Stdout)
	session.SetTrace(flagTraceExecution)
	reportAndExit(session.Run(string(source)))
}
