package internals

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

type ReconcileTestSuite struct {
	suite.Suite
	fs     *faultyFs
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (s *ReconcileTestSuite) SetupTest() {
	s.fs = newFaultyFs(afero.NewMemMapFs())
	s.stdout.Reset()
	s.stderr.Reset()
	writeFiles(s.T(), s.fs, map[string]string{
		"/root/a.txt": "hello",
		"/root/b.txt": "hello",
		"/root/c.txt": "world",
	})
}

func (s *ReconcileTestSuite) run(mode Mode, stdin string) (*Summary, error) {
	groups := buildIndex(s.T(), s.fs, "/root").DuplicateGroups()
	return s.runGroups(mode, stdin, groups)
}

func (s *ReconcileTestSuite) runGroups(mode Mode, stdin string, groups []DuplicateGroup) (*Summary, error) {
	op := NewPlainOperator(&s.stdout, &s.stderr)
	return NewReconciler(s.fs, mode, strings.NewReader(stdin), op).Run(groups)
}

func (s *ReconcileTestSuite) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	s.Require().NoError(err)
	return ok
}

func (s *ReconcileTestSuite) TestConfirmDeletesAllButFirst() {
	summary, err := s.run(ModeInteractive, "y\n")
	s.Require().NoError(err)

	s.Equal("Found duplicate files:\n"+
		"Group 1 of 1: 2 files with 5.00 bytes each (sha-256 "+helloSHA256+")\n"+
		"  /root/a.txt (kept)\n"+
		"  /root/b.txt\n"+
		"Do you want to delete these files? (y/n): "+
		"Deleted: /root/b.txt\n", s.stdout.String())
	s.Empty(s.stderr.String())

	s.True(s.exists("/root/a.txt"))
	s.False(s.exists("/root/b.txt"))
	s.True(s.exists("/root/c.txt"))
	s.Equal(&Summary{Groups: 1, Confirmed: 1, Deleted: 1, ReclaimedBytes: 5}, summary)
}

func (s *ReconcileTestSuite) TestDeclineKeepsFiles() {
	summary, err := s.run(ModeInteractive, "n\n")
	s.Require().NoError(err)

	s.Contains(s.stdout.String(), "Skipped deleting duplicates in this group.\n")
	s.True(s.exists("/root/a.txt"))
	s.True(s.exists("/root/b.txt"))
	s.Equal(1, summary.Declined)
	s.Zero(summary.Deleted)
}

func (s *ReconcileTestSuite) TestAnswerIsTrimmedAndCaseInsensitive() {
	_, err := s.run(ModeInteractive, "  Y \n")
	s.Require().NoError(err)
	s.False(s.exists("/root/b.txt"))
}

func (s *ReconcileTestSuite) TestOnlyYIsAffirmative() {
	for _, answer := range []string{"yes\n", "\n", "yy\n", "no\n"} {
		_, err := s.run(ModeInteractive, answer)
		s.Require().NoError(err)
		s.True(s.exists("/root/b.txt"), "answer %q", answer)
	}
}

func (s *ReconcileTestSuite) TestAnswerWithoutNewlineAtEndOfInput() {
	_, err := s.run(ModeInteractive, "y")
	s.Require().NoError(err)
	s.False(s.exists("/root/b.txt"))
}

func (s *ReconcileTestSuite) TestClosedInputAborts() {
	summary, err := s.run(ModeInteractive, "")
	s.ErrorIs(err, ErrInputClosed)
	s.True(s.exists("/root/b.txt"))
	s.Zero(summary.Deleted)
	s.True(strings.HasSuffix(s.stdout.String(), confirmationPrompt+"\n"))
}

func (s *ReconcileTestSuite) TestInputClosingBeforeSecondGroup() {
	writeFiles(s.T(), s.fs, map[string]string{"/root/d.txt": "world"})

	summary, err := s.run(ModeInteractive, "y\n")
	s.ErrorIs(err, ErrInputClosed)
	s.False(s.exists("/root/b.txt"))
	s.True(s.exists("/root/d.txt"))
	s.Equal(2, summary.Groups)
	s.Equal(1, summary.Deleted)
}

func (s *ReconcileTestSuite) TestNoDuplicates() {
	summary, err := s.runGroups(ModeInteractive, "", nil)
	s.Require().NoError(err)
	s.Equal("No duplicates found.\n", s.stdout.String())
	s.Zero(summary.Groups)
}

func (s *ReconcileTestSuite) TestFailedDeletionDoesNotStopReconciliation() {
	writeFiles(s.T(), s.fs, map[string]string{
		"/root/b2.txt": "hello",
		"/root/d.txt":  "world",
	})
	s.fs.removeFails["/root/b.txt"] = true

	summary, err := s.run(ModeInteractive, "y\ny\n")
	s.Require().NoError(err)

	s.Contains(s.stderr.String(), "Failed to delete /root/b.txt: remove /root/b.txt: permission denied\n")
	s.NotContains(s.stdout.String(), "Deleted: /root/b.txt")
	s.Contains(s.stdout.String(), "Deleted: /root/b2.txt\n")
	s.Contains(s.stdout.String(), "Deleted: /root/d.txt\n")

	s.True(s.exists("/root/a.txt"))
	s.True(s.exists("/root/b.txt"))
	s.False(s.exists("/root/b2.txt"))
	s.True(s.exists("/root/c.txt"))
	s.False(s.exists("/root/d.txt"))
	s.Equal(1, summary.Failed)
	s.Equal(2, summary.Deleted)
}

func (s *ReconcileTestSuite) TestKeepFirstDeletesWithoutPrompt() {
	writeFiles(s.T(), s.fs, map[string]string{"/root/d.txt": "world"})

	summary, err := s.run(ModeKeepFirst, "")
	s.Require().NoError(err)

	s.NotContains(s.stdout.String(), confirmationPrompt)
	s.False(s.exists("/root/b.txt"))
	s.False(s.exists("/root/d.txt"))
	s.True(s.exists("/root/a.txt"))
	s.True(s.exists("/root/c.txt"))
	s.Equal(2, summary.Confirmed)
	s.EqualValues(10, summary.ReclaimedBytes)
}

func (s *ReconcileTestSuite) TestDryRunDeletesNothing() {
	summary, err := s.run(ModeDryRun, "")
	s.Require().NoError(err)

	s.Contains(s.stdout.String(), "Would delete: /root/b.txt\n")
	s.NotContains(s.stdout.String(), confirmationPrompt)
	s.True(s.exists("/root/b.txt"))
	s.Equal(1, summary.WouldDelete)
	s.EqualValues(5, summary.ReclaimedBytes)
	s.Zero(summary.Deleted)
}

func (s *ReconcileTestSuite) TestVerifyRefusesDifferingContent() {
	// a stale group whose second member changed after hashing
	groups := []DuplicateGroup{{Hash: helloSHA256, Size: 5, Paths: []string{"/root/a.txt", "/root/c.txt"}}}

	op := NewPlainOperator(&s.stdout, &s.stderr)
	rec := NewReconciler(s.fs, ModeKeepFirst, strings.NewReader(""), op)
	rec.Verify = true
	summary, err := rec.Run(groups)
	s.Require().NoError(err)

	s.Contains(s.stderr.String(), "Not deleting /root/c.txt: content differs from /root/a.txt\n")
	s.True(s.exists("/root/c.txt"))
	s.Equal(1, summary.Mismatched)
	s.Zero(summary.Deleted)
}

func (s *ReconcileTestSuite) TestVerifyDeletesIdenticalContent() {
	groups := buildIndex(s.T(), s.fs, "/root").DuplicateGroups()

	op := NewPlainOperator(&s.stdout, &s.stderr)
	rec := NewReconciler(s.fs, ModeInteractive, strings.NewReader("y\n"), op)
	rec.Verify = true
	rec.HashAlgorithm = "sha-256"
	summary, err := rec.Run(groups)
	s.Require().NoError(err)

	s.False(s.exists("/root/b.txt"))
	s.Equal(1, summary.Deleted)
}

func TestReconcileTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileTestSuite))
}

func TestModeFromString(t *testing.T) {
	mode, err := ModeFromString("Keep-First")
	require.NoError(t, err)
	assert.Equal(t, ModeKeepFirst, mode)

	mode, err = ModeFromString("yolo")
	assert.Error(t, err)
	assert.Equal(t, DefaultMode, mode)
}
