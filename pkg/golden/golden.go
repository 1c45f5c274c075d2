// Package golden is a small TOML-fixture test harness for running whole
// lumen programs end to end and checking their stdout and exit
// behavior, the same shape of harness stackedboxes-romualdo's pkg/test
// uses for Storyworld test cases, simplified down to a single run per
// fixture (lumen has no multi-step REPL session to drive in a test).
package golden

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/aolsen/lumen/pkg/lang"
)

// Fixture mirrors one *.toml file under a golden test directory.
type Fixture struct {
	// Source is the lumen program to run.
	Source string

	// Output is the expected stdout, one element per expected line.
	Output []string

	// ExitCode is the expected exit code: 0 for success, 65 for a
	// compile error, 70 for a runtime error.
	ExitCode int

	// ErrorMessage, if non-empty, is a regexp the error text (compile
	// diagnostics or the runtime trace) must match.
	ErrorMessage string
}

// Load reads and parses a single fixture file.
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f Fixture
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// exitCoder is implemented by *lang.CompileError and *lang.RuntimeError.
type exitCoder interface {
	ExitCode() int
}

// Run executes a fixture's source against a fresh session and reports
// any mismatch against t.
func Run(t *testing.T, f *Fixture) {
	t.Helper()

	var out bytes.Buffer
	err := lang.Interpret(f.Source, &out)

	gotExit := 0
	var errText string
	if err != nil {
		errText = err.Error()
		if ec, ok := err.(exitCoder); ok {
			gotExit = ec.ExitCode()
		} else {
			t.Fatalf("unrecognized error type %T: %v", err, err)
		}
	}

	if gotExit != f.ExitCode {
		t.Errorf("exit code: got %d, want %d (error: %s)", gotExit, f.ExitCode, errText)
	}

	if f.ErrorMessage != "" {
		re := regexp.MustCompile(f.ErrorMessage)
		if !re.MatchString(errText) {
			t.Errorf("error text %q does not match pattern %q", errText, f.ErrorMessage)
		}
	}

	if err == nil || f.ExitCode == 0 {
		gotLines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		if out.Len() == 0 {
			gotLines = nil
		}
		if len(gotLines) != len(f.Output) {
			t.Fatalf("output: got %d lines %v, want %d lines %v", len(gotLines), gotLines, len(f.Output), f.Output)
		}
		for i := range gotLines {
			if gotLines[i] != f.Output[i] {
				t.Errorf("output line %d: got %q, want %q", i, gotLines[i], f.Output[i])
			}
		}
	}
}

// RunDir loads and runs every *.toml fixture in dir as a subtest named
// after the file.
func RunDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		t.Fatalf("globbing %s: %v", dir, err)
	}
	if len(entries) == 0 {
		t.Fatalf("no fixtures found in %s", dir)
	}
	for _, path := range entries {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), ".toml")
		t.Run(name, func(t *testing.T) {
			f, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			Run(t, f)
		})
	}
}
