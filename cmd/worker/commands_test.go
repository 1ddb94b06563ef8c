package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct{ bucket string }

func (s *stubRunner) Run(_ context.Context, bucket string) (*domain.RunSummary, error) {
	s.bucket = bucket
	return &domain.RunSummary{RunID: "r1", Results: []domain.ProjectResult{{ProjectID: "P1", Status: domain.StatusSuccess}}}, nil
}

func TestRunCmd_MissingBucket(t *testing.T) {
	t.Setenv("GCS_BUCKET", "")

	root := newRootCmd()
	root.SetArgs([]string{"run"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	assert.ErrorIs(t, err, domain.ErrBucketNotConfigured)
}

func TestRunCmd_DuplicateProjectFlag(t *testing.T) {
	t.Setenv("GCS_BUCKET", "reports")

	root := newRootCmd()
	root.SetArgs([]string{"run", "--project", "a", "--project", "a"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestRunOnce_PrintsSummary(t *testing.T) {
	runner := &stubRunner{}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	require.NoError(t, runOnce(cmd, runner, "reports", zap.NewNop()))

	assert.Equal(t, "reports", runner.bucket)
	assert.Equal(t, "SCC report generation completed\n\nP1: SUCCESS\n", out.String())
}

func TestProjectsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [p1, p2]\nproject_folders: {p1: one}\n"), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"projects", "--catalog", path})
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Equal(t, "p1\tone\np2\t(unmapped)\n", out.String())
}
