// Command orizon-witness is a flag-based batch runner over the toplevel
// driver (internal/toplevel): it loads a fixed item stream — either one of
// internal/scenarios' named demos, or a file whose one-line header names a
// scenario, following the same "single manifest-header line, no general
// parsing" convention internal/toplevel uses for require version headers —
// and runs it to completion, exiting non-zero on any uncaught error. It is
// deliberately not an interactive REPL (spec.md §1's Non-goals rule out a
// REPL UI as a core deliverable); grounded on cmd/orizon-repl/main.go's
// flag/version/exit-code plumbing, with the interactive loop removed.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/orizon-lang/orizon-witness/internal/cli"
	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/scenarios"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/toplevel"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		listOnly    = flag.Bool("list", false, "list available scenarios and exit")
		load        = flag.String("load", "", "scenario name, or a file whose header names one")
		verbosity   = flag.Int("verbosity", 0, "diagnostic verbosity (semantics-free, per spec.md §6)")
		watch       = flag.Bool("watch", false, "re-run whenever -load's file changes on disk")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -load <scenario|file> [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Runs a fixed top-level item stream through the orizon-witness evaluator.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		cli.PrintVersion("orizon-witness", *jsonOutput)
		os.Exit(0)
	}

	if *listOnly {
		for _, name := range scenarios.Names {
			fmt.Println(name)
		}

		os.Exit(0)
	}

	if *load == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := cli.NewLogger(*verbosity > 0, *verbosity > 1)

	run := func() error {
		return runOnce(*load, logger)
	}

	if *watch {
		if _, err := os.Stat(*load); err != nil {
			cli.ExitWithError("-watch requires -load to name an existing file: %v", err)
		}

		if err := toplevel.Watch([]string{*load}, run); err != nil {
			cli.ExitWithError("watch failed: %v", err)
		}

		return
	}

	if err := run(); err != nil {
		cli.ExitWithError("%v", err)
	}
}

// resolveScenario turns -load's argument into a scenario name: if it names
// an existing file, its first line is sniffed for a `;; scenario: <name>`
// header (mirroring internal/toplevel's require-version header
// convention); otherwise the argument is taken as a scenario name
// directly.
func resolveScenario(load string) (string, error) {
	f, err := os.Open(load)
	if err != nil {
		return load, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", fmt.Errorf("%s: empty file", load)
	}

	const prefix = ";; scenario:"

	line := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("%s: first line must be %q", load, prefix+" <name>")
	}

	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
}

func runOnce(load string, logger *cli.Logger) error {
	name, err := resolveScenario(load)
	if err != nil {
		return err
	}

	items, err := scenarios.Build(name)
	if err != nil {
		return err
	}

	diag := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{MaxErrors: 100})
	driver := toplevel.NewDriver(signature.New(), diag)

	logger.Info("running scenario %q (%d items)", name, len(items))

	if err := driver.Run(items); err != nil {
		return err
	}

	for _, d := range diag.GetDiagnostics() {
		fmt.Fprintln(os.Stderr, d.Level, d.Code, d.Message)
	}

	if diag.HasErrors() {
		return fmt.Errorf("scenario %q completed with %d error diagnostic(s)", name, len(diag.GetErrors()))
	}

	fmt.Printf("scenario %q completed\n", name)

	return nil
}
