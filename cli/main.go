package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meisterluk/dupclean/internals"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"
)

// version of this implementation, printed by --version
var version = "1.0.0"

// CLI response for errors
type errorResponse struct {
	ErrorMessage string `json:"error"`
	ExitCode     int    `json:"-"`
}

// Print writes the error to w, as JSON if requested, and returns the exit code
func (e *errorResponse) Print(w io.Writer, asJSON bool) int {
	if asJSON {
		fmt.Fprintf(w, "%s\n", e.JSON())
	} else {
		fmt.Fprintf(w, "%s\n", e.String())
	}
	return e.ExitCode
}

func (e *errorResponse) String() string {
	return appName + `: error: ` + e.ErrorMessage
}

func (e *errorResponse) JSON() string {
	jsonBytes, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, e.ErrorMessage)
	}
	return string(jsonBytes)
}

// environment contains everything a command interacts with
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	// w writes results
	w internals.Output
}

func newEnvironment(stdin io.Reader, stdout, stderr io.Writer, fs afero.Fs) *environment {
	return &environment{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		fs:     fs,
		w:      internals.NewPlainOutput(stdout),
	}
}

func newApp(env *environment) (*kingpin.Application, *cliDedupCommand) {
	app := kingpin.New(appName, "Determine duplicate files by content and delete redundant copies.")
	app.Version(version).Author("meisterluk")
	app.HelpFlag.Short('h')
	app.UsageTemplate(kingpin.CompactUsageTemplate)
	app.UsageWriter(env.stdout)
	app.ErrorWriter(env.stderr)

	return app, newCLIDedupCommand(app)
}

// cli parses args, runs the command and returns the exit code
func cli(args []string, env *environment) int {
	app, dedup := newApp(env)
	asJSON := jsonOutput(args)

	if _, err := app.Parse(args); err != nil {
		resp := &errorResponse{err.Error(), exitUsage}
		return resp.Print(env.stderr, asJSON)
	}

	settings, err := dedup.Validate()
	if err != nil {
		resp := &errorResponse{err.Error(), exitUsage}
		return resp.Print(env.stderr, asJSON)
	}

	exitCode, err := settings.Run(env)
	if err != nil {
		resp := &errorResponse{err.Error(), exitCode}
		return resp.Print(env.stderr, settings.JSONOutput)
	}
	return exitCode
}

func main() {
	env := newEnvironment(os.Stdin, os.Stdout, os.Stderr, afero.NewOsFs())
	exitcode := cli(os.Args[1:], env)
	os.Exit(exitcode)
}
