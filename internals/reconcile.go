package internals

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Mode determines how the Reconciler decides about a duplicate group
type Mode string

const (
	// ModeInteractive asks the operator for every group
	ModeInteractive Mode = `interactive`
	// ModeKeepFirst deletes all but the first member of every group without asking
	ModeKeepFirst Mode = `keep-first`
	// ModeDryRun only reports what would be deleted
	ModeDryRun Mode = `dry-run`
)

// DefaultMode is the mode used unless another one is requested explicitly
const DefaultMode = ModeInteractive

// SupportedModes returns the identifiers of all modes
func SupportedModes() []string {
	return []string{string(ModeInteractive), string(ModeKeepFirst), string(ModeDryRun)}
}

// ModeFromString returns the Mode with the given identifier
func ModeFromString(name string) (Mode, error) {
	name = strings.ToLower(name)
	for _, mode := range SupportedModes() {
		if name == mode {
			return Mode(mode), nil
		}
	}
	return DefaultMode, fmt.Errorf(`unknown mode %q`, name)
}

// ErrInputClosed is returned if the input stream ends while
// a confirmation is awaited
var ErrInputClosed = errors.New(`input stream closed while awaiting confirmation`)

const confirmationPrompt = `Do you want to delete these files? (y/n): `

// Summary collects the outcome of a reconciliation
type Summary struct {
	Groups         int    `json:"groups"`
	Confirmed      int    `json:"confirmed"`
	Declined       int    `json:"declined"`
	Deleted        int    `json:"deleted"`
	Failed         int    `json:"failed"`
	Mismatched     int    `json:"mismatched"`
	WouldDelete    int    `json:"would-delete"`
	ReclaimedBytes uint64 `json:"reclaimed-bytes"`
}

// Reconciler presents duplicate groups to the operator and deletes
// all but the first member of every confirmed group.
// A failing deletion is reported and never stops the reconciliation.
type Reconciler struct {
	fs   afero.Fs
	mode Mode
	in   *bufio.Reader
	op   Operator

	// Verify compares every candidate byte by byte with the kept file before deleting it
	Verify bool
	// HashAlgorithm names the algorithm the groups were built with
	HashAlgorithm string
	Log           zerolog.Logger
}

// NewReconciler returns a Reconciler deleting from fs, reading decisions
// from stdin (only in interactive mode) and reporting to op
func NewReconciler(fs afero.Fs, mode Mode, stdin io.Reader, op Operator) *Reconciler {
	return &Reconciler{
		fs:   fs,
		mode: mode,
		in:   bufio.NewReader(stdin),
		op:   op.withDefaults(),
		Log:  zerolog.Nop(),
	}
}

// Run processes the groups in the given order. Every group is reported
// before its decision and every deletion is reported as it happens.
// The only errors returned are failures to read a decision; in that case
// the summary covers the groups processed so far.
func (r *Reconciler) Run(groups []DuplicateGroup) (*Summary, error) {
	summary := new(Summary)

	if len(groups) == 0 {
		r.op.Out.Println("No duplicates found.")
		return summary, nil
	}

	r.op.Heading.Println("Found duplicate files:")
	for i, group := range groups {
		if len(group.Paths) < 2 {
			continue
		}
		summary.Groups++
		r.report(i, len(groups), group)

		if r.mode == ModeDryRun {
			for _, path := range group.Candidates() {
				r.op.Out.Printfln("Would delete: %s", path)
				summary.WouldDelete++
				summary.ReclaimedBytes += group.Size
			}
			continue
		}

		confirmed, err := r.decide()
		if err != nil {
			return summary, err
		}
		if !confirmed {
			r.op.Out.Println("Skipped deleting duplicates in this group.")
			summary.Declined++
			continue
		}

		summary.Confirmed++
		r.deleteCandidates(group, summary)
	}

	return summary, nil
}

// report writes all members of the group, the kept one first
func (r *Reconciler) report(index, total int, group DuplicateGroup) {
	r.op.Heading.Printfln("Group %d of %d: %d files with %s each (%s %s)",
		index+1, total, len(group.Paths), HumanReadableBytes(group.Size), r.hashName(), group.Hash)
	r.op.Out.Printfln("  %s (kept)", group.Keep())
	for _, path := range group.Candidates() {
		r.op.Out.Printfln("  %s", path)
	}
}

func (r *Reconciler) hashName() string {
	if r.HashAlgorithm != "" {
		return r.HashAlgorithm
	}
	return string(DefaultHashAlgorithm)
}

// decide returns whether the candidates of the current group shall be deleted
func (r *Reconciler) decide() (bool, error) {
	if r.mode == ModeKeepFirst {
		return true, nil
	}

	r.op.Heading.Print(confirmationPrompt)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf(`reading confirmation: %w`, err)
		}
		if line == "" {
			r.op.Out.Println("")
			return false, ErrInputClosed
		}
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	r.Log.Debug().Str("answer", answer).Msg("confirmation read")
	return answer == "y", nil
}

// deleteCandidates removes all but the first member of the group.
// Each failure is reported and the next member is processed regardless.
func (r *Reconciler) deleteCandidates(group DuplicateGroup, summary *Summary) {
	keep := group.Keep()
	for _, path := range group.Candidates() {
		if r.Verify {
			same, err := sameContent(r.fs, keep, path)
			if err != nil {
				r.op.Failure.Printfln("Failed to delete %s: %s", path, err)
				summary.Failed++
				continue
			}
			if !same {
				r.op.Failure.Printfln("Not deleting %s: content differs from %s", path, keep)
				summary.Mismatched++
				continue
			}
		}

		if err := r.fs.Remove(path); err != nil {
			r.Log.Debug().Err(err).Str("path", path).Msg("deletion failed")
			r.op.Failure.Printfln("Failed to delete %s: %s", path, err)
			summary.Failed++
			continue
		}

		r.op.Success.Printfln("Deleted: %s", path)
		summary.Deleted++
		summary.ReclaimedBytes += group.Size
	}
}
