package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/audit"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/database"
)

// seedDB writes a small audit trail and points PARKING_CONFIG at it.
func seedDB(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "audit.db")
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{Path: dbPath, WALMode: true, BusyTimeout: 5})
	require.NoError(t, err)
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	repo := audit.NewSQLiteRepository(db.DB)
	require.NoError(t, repo.InsertLog(ctx, "lot/Entrance/Button", "Entry Granted", audit.KindAccessLog))
	require.NoError(t, repo.InsertLog(ctx, "lot/Gate/Command", "Command: OPEN", audit.KindActuatorCmd))
	require.NoError(t, repo.InsertLog(ctx, "lot/Gate/Feedback", "Gate: OPEN", audit.KindActuatorFeedback))
	require.NoError(t, repo.InsertLog(ctx, "lot/Entrance/Button", "Entry Denied (Full)", audit.KindAccessLog))
	require.NoError(t, db.Close())

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  path: \""+dbPath+"\"\n"), 0600))
	t.Setenv(config.EnvConfigPath, cfgPath)
}

func runCapture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var buf bytes.Buffer
	err := run(ctx, args, &buf)
	return buf.String(), err
}

func TestRun_ListsNewestFirst(t *testing.T) {
	seedDB(t)

	out, err := runCapture(t)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Entry Denied (Full)")
	assert.Contains(t, lines[3], "Entry Granted")
	assert.Equal(t, "-- 4 of 4 entries", lines[4])
}

func TestRun_FilterByKind(t *testing.T) {
	seedDB(t)

	out, err := runCapture(t, "--kind", "access_log")
	require.NoError(t, err)

	assert.Contains(t, out, "Entry Granted")
	assert.Contains(t, out, "Entry Denied (Full)")
	assert.NotContains(t, out, "Command: OPEN")
	assert.Contains(t, out, "-- 2 of 2 entries")
}

func TestRun_FilterByTopicAndPage(t *testing.T) {
	seedDB(t)

	out, err := runCapture(t, "--topic", "lot/Gate/Command")
	require.NoError(t, err)
	assert.Contains(t, out, "ACTUATOR_CMD")
	assert.Contains(t, out, "-- 1 of 1 entries")

	out, err = runCapture(t, "-n", "1", "--before", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Gate: OPEN")
	assert.Contains(t, out, "-- 1 of 4 entries")
}

func TestRun_StatsDisabled(t *testing.T) {
	seedDB(t)

	_, err := runCapture(t, "--stats")
	assert.ErrorContains(t, err, "disabled")
}

func TestRun_BadFlag(t *testing.T) {
	_, err := runCapture(t, "--limit", "lots")
	assert.Error(t, err)
}

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 5, 0, time.Local)

	line := formatEntry(audit.Entry{ID: 7, Timestamp: ts, Topic: "lot/Gate/Feedback", Message: "Gate: CLOSED"})
	assert.Equal(t, "     7  2026-03-01 12:00:05  -                  lot/Gate/Feedback  Gate: CLOSED", line)
}
