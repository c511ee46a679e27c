package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meisterluk/dupclean/internals"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/alecthomas/kingpin.v2"
)

// DedupCommand defines the CLI command parameters
type DedupCommand struct {
	Directory     string             `json:"directory"`
	HashAlgorithm internals.HashAlgo `json:"hash-algorithm"`
	Mode          internals.Mode     `json:"mode"`
	Verify        bool               `json:"verify"`
	Progress      bool               `json:"progress"`
	Debug         bool               `json:"debug"`
	ConfigOutput  bool               `json:"config"`
	JSONOutput    bool               `json:"json"`
}

// cliDedupCommand defines the CLI arguments as kingpin requires them
type cliDedupCommand struct {
	Directory     *string
	HashAlgorithm *string
	Mode          *string
	Verify        *bool
	Progress      *bool
	Debug         *bool
	ConfigOutput  *bool
	JSONOutput    *bool
}

func newCLIDedupCommand(app *kingpin.Application) *cliDedupCommand {
	c := new(cliDedupCommand)

	c.Directory = app.Arg("directory", "directory to scan for duplicate files").Required().String()
	c.HashAlgorithm = app.Flag("hash-algorithm", "hash algorithm to fingerprint file content").Default(string(internals.DefaultHashAlgorithm)).Short('a').Enum(internals.SupportedHashAlgorithms()...)
	c.Mode = app.Flag("mode", "interactive asks per group, keep-first deletes without asking, dry-run only reports").Default(string(internals.DefaultMode)).Enum(internals.SupportedModes()...)
	c.Verify = app.Flag("verify", "compare content byte by byte before deleting a duplicate").Bool()
	c.Progress = app.Flag("progress", "show hashing progress on stderr").Bool()
	c.Debug = app.Flag("debug", "log diagnostics on stderr").Bool()
	c.ConfigOutput = app.Flag("config", "only prints the configuration and terminates").Bool()
	c.JSONOutput = app.Flag("json", "return the dry-run report as JSON, not as plain text").Bool()

	return c
}

func (c *cliDedupCommand) Validate() (*DedupCommand, error) {
	// validity checks (check conditions not covered by kingpin)
	if *c.Directory == "" {
		return nil, fmt.Errorf("directory must not be empty")
	}

	algo, err := internals.HashAlgorithmFromString(*c.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	mode, err := internals.ModeFromString(*c.Mode)
	if err != nil {
		return nil, err
	}
	if *c.JSONOutput && mode != internals.ModeDryRun {
		return nil, fmt.Errorf("--json requires --mode %s", internals.ModeDryRun)
	}

	// migrate cliDedupCommand to DedupCommand
	cmd := new(DedupCommand)
	cmd.Directory = *c.Directory
	cmd.HashAlgorithm = algo
	cmd.Mode = mode
	cmd.Verify = *c.Verify
	cmd.Progress = *c.Progress
	cmd.Debug = *c.Debug
	cmd.ConfigOutput = *c.ConfigOutput
	cmd.JSONOutput = *c.JSONOutput

	return cmd, nil
}

// Run executes the scan-hash-group-confirm-delete pipeline with the given
// parameter set. Results go to env.w, operator prompts and deletion reports
// to stdout and stderr. It returns a tuple (exit code, error).
func (c *DedupCommand) Run(env *environment) (int, error) {
	if c.ConfigOutput {
		// config output is printed in JSON independent of c.JSONOutput
		b, err := json.Marshal(c)
		if err != nil {
			return exitSerialize, fmt.Errorf(configJSONErrMsg, err)
		}
		env.w.Println(string(b))
		return exitOK, nil
	}

	logger := newLogger(env.stderr, c.Debug)

	walker, err := internals.NewWalker(env.fs, c.Directory)
	if err != nil {
		return exitFatal, fmt.Errorf(`scanning directory: %w`, err)
	}
	walker.Log = logger

	index := internals.NewFingerprintIndex(env.fs, c.HashAlgorithm)
	index.Log = logger

	// (1) walk and hash; interrupting is only possible up to here
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	var bar *progressbar.ProgressBar
	if c.Progress {
		bar = newProgressBar(env.stderr)
		index.Progress = bar
	}
	err = index.Build(ctx, walker.Files())
	stop()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitFatal, fmt.Errorf(`scan interrupted`)
		}
		return exitFatal, fmt.Errorf(`scanning directory: %w`, err)
	}

	if skipped := len(index.Skipped()); skipped > 0 {
		logger.Warn().Int("skipped", skipped).Int("indexed", index.Len()).
			Msg("files which could not be read are excluded from duplicate detection")
	}
	logger.Debug().Int("indexed", index.Len()).Str("hash-algorithm", index.HashAlgorithm()).Msg("scan complete")

	// (2) JSON report instead of the textual dry run
	if c.JSONOutput {
		if err := internals.NewReport(c.Directory, index).WriteJSON(env.stdout); err != nil {
			return exitSerialize, fmt.Errorf(resultJSONErrMsg, err)
		}
		return exitOK, nil
	}

	// (3) reconcile
	op := internals.NewColorOperator(env.stdout, env.stderr)
	rec := internals.NewReconciler(env.fs, c.Mode, env.stdin, op)
	rec.Verify = c.Verify
	rec.HashAlgorithm = index.HashAlgorithm()
	rec.Log = logger

	summary, err := rec.Run(index.DuplicateGroups())
	logger.Debug().Interface("summary", summary).Msg("reconciliation finished")
	if err != nil {
		return exitFatal, err
	}

	if c.Mode == internals.ModeDryRun && summary.WouldDelete > 0 {
		env.w.Printfln("Dry run: %d files would be deleted, %s would be reclaimed.",
			summary.WouldDelete, internals.HumanReadableBytes(summary.ReclaimedBytes))
	}

	return exitOK, nil
}
