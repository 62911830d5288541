// Command tc108check validates a saved TC108 record file.
//
// Usage:
//
//	tc108check [-strict] [-json] [-v] result.json
//
// A path of "-" reads the record from stdin. The exit status is 0 for a
// valid record, 1 for a record with issues and 2 when the file cannot be
// read or parsed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/logger"
)

// Exit statuses.
const (
	exitValid      = 0
	exitInvalid    = 1
	exitUnreadable = 2
)

var errUsage = errors.New("usage: tc108check [-strict] [-json] [-v] result.json")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tc108check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "reject keys that are not part of the form")
	asJSON := fs.Bool("json", false, "print the validation result as JSON")
	verbose := fs.Bool("v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return exitUnreadable
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, errUsage)
		return exitUnreadable
	}

	log := logger.NewCLI(stderr, *verbose)
	path := fs.Arg(0)

	record, err := load(path, stdin, *strict)
	if err != nil {
		log.Error("Cannot load record", err, logger.Fields{"path": path})
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return exitUnreadable
	}
	form.Derive(&record)

	schema, err := form.NewSchema()
	if err != nil {
		log.Error("Cannot build form schema", err, nil)
		return exitUnreadable
	}
	result := schema.Validate(record)
	log.Debug("Record validated", logger.Fields{
		"path":        path,
		"valid":       result.Valid,
		"issue_count": len(result.Issues),
	})

	if err := report(stdout, path, result, *asJSON); err != nil {
		log.Error("Cannot write report", err, nil)
		return exitUnreadable
	}
	if !result.Valid {
		return exitInvalid
	}
	return exitValid
}

func load(path string, stdin io.Reader, strict bool) (form.Record, error) {
	var rd io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return form.Record{}, err
		}
		defer f.Close()
		rd = f
	}

	if strict {
		return form.DecodeStrict(rd)
	}
	return form.Decode(rd)
}

func report(w io.Writer, path string, result form.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Valid {
		_, err := fmt.Fprintf(w, "%s: valid\n", path)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %d issue(s)\n", path, len(result.Issues)); err != nil {
		return err
	}
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(w, "  %s\n", issue); err != nil {
			return err
		}
	}
	return nil
}
