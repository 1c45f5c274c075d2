package main

import (
	"fmt"
	"os"
)

// exitCoder is implemented by *lang.CompileError and *lang.RuntimeError.
type exitCoder interface {
	ExitCode() int
}

// reportAndExit prints err to stderr, if any, and exits with its exit
// code (0 if err is nil). Errors that don't carry an exit code exit 70,
// lumen's generic runtime-error status.
func reportAndExit(err error) {
	if err == nil {
		os.Exit(0)
	}
	fmt.Fprint(os.Stderr, err.Error())
	if ec, ok := err.(exitCoder); ok {
		os.Exit(ec.ExitCode())
	}
	os.Exit(70)
}
