package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/aolsen/lumen/pkg/lang"
)

// runREPL reads one line at a time from stdin and interprets it against
// a single persistent session, so variables and functions defined on
// one line stay visible on the next. A blank line quits (spec.md §6);
// a compile or runtime error is printed but does not end the session.
func runREPL() {
	session := lang.NewSession(os.Stdout)
	session.SetTrace(flagTraceExecution)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			return
		}
		if err := session.Run(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
