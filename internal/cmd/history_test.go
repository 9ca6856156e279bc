package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/typerunner/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHistoryCommandEmptyDatabase verifies the empty-state message.
func TestHistoryCommandEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

// TestHistoryCommandListsRuns verifies recorded runs print newest first
// with their invocations.
func TestHistoryCommandListsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := history.Open(dbPath)
	require.NoError(t, err)

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordRun(context.Background(), &history.Run{
		ID:        "aaaaaaaa-0000-0000-0000-000000000000",
		StartedAt: base,
		Duration:  1200 * time.Millisecond,
		ExitCode:  0,
		Invocations: []history.Invocation{
			{Position: 0, Checker: "mypy", Command: "mypy --strict", ExitCode: 0},
		},
	}))
	require.NoError(t, store.RecordRun(context.Background(), &history.Run{
		ID:        "bbbbbbbb-0000-0000-0000-000000000000",
		StartedAt: base.Add(time.Hour),
		ExitCode:  2,
		DryRun:    true,
	}))
	require.NoError(t, store.Close())

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "bbbbbbbb")
	assert.Contains(t, out, "mypy")
	assert.Contains(t, out, "mypy --strict")
	assert.Contains(t, out, "exit 2")
	assert.Contains(t, out, "(dry-run)")
	// Newest first
	assert.Less(t, strings.Index(out, "bbbbbbbb"), strings.Index(out, "aaaaaaaa"))
}

// TestHistoryCommandLimit verifies --limit caps the listing.
func TestHistoryCommandLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := history.Open(dbPath)
	require.NoError(t, err)
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-one", "run-two", "run-three"} {
		require.NoError(t, store.RecordRun(context.Background(), &history.Run{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Close())

	out, _, err := execute(t, "history", "--db", dbPath, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "run-thre")
	assert.NotContains(t, out, "run-one")
}
