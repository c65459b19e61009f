package cmd

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/remylog/internal/model"
)

// runCLI executes the root command against a temp config and data file.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	logAt, logNotes = "", ""
	listToday, listWeek, listAll = false, false, false
	reportWeek, reportFormat = "", "md"
	exportFormat = "csv"
	serverURL, dataPath, timezone = "", "", ""
	isInteractive = func() bool { return false }

	base := []string{
		"--config", filepath.Join(dir, "config.json"),
		"--data", filepath.Join(dir, "log.json"),
		"--timezone", "UTC",
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestLogListReportExport(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "log", "Meal", "--at", "2025-01-01T08:00:00Z", "--notes", "kibble")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 🥣 Meal at 08:00")

	_, err = runCLI(t, dir, "log", "nap (start)", "--at", "2025-01-01T13:00:00Z")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "log", "Nap (end)", "--at", "2025-01-01T14:30:00Z")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Wednesday, January 1, 2025")
	assert.Contains(t, out, "Meals: 1")
	assert.Contains(t, out, "Nap Time: 1h 30m")
	assert.Contains(t, out, "(kibble)")

	out, err = runCLI(t, dir, "report", "--week", "2025-01-01", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-12-30,0,0,0,0")
	assert.Contains(t, out, "2025-01-01,1,0,90,0")
	assert.Contains(t, out, "2025-01-05,0,0,0,0")

	out, err = runCLI(t, dir, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "type: Meal")
	assert.Contains(t, out, "notes: kibble")

	out, err = runCLI(t, dir, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Meal,kibble")
	assert.Contains(t, lines[3], "Nap (end)")
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "log", "Wee", "--at", "2025-01-01T08:00:00Z")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	id := strings.SplitN(lines[1], ",", 2)[0]

	_, err = runCLI(t, dir, "delete", id)
	require.NoError(t, err)
	_, err = runCLI(t, dir, "delete", id)
	require.NoError(t, err, "deleting an absent id is a no-op")

	out, err = runCLI(t, dir, "export")
	require.NoError(t, err)
	assert.Equal(t, "id,date,time,type,notes", strings.TrimSpace(out))
}

func TestInputErrorsExitWithOne(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "log")
	require.ErrorIs(t, err, model.ErrNoActivity)
	assert.Equal(t, 1, exitCode(err))

	_, err = runCLI(t, dir, "delete", "abc")
	assert.Equal(t, 1, exitCode(err))

	_, err = runCLI(t, dir, "log", "Meal", "--at", "soon")
	assert.Equal(t, 1, exitCode(err))

	_, err = runCLI(t, dir, "report", "--format", "xml")
	assert.Equal(t, 1, exitCode(err))
}

func TestSinceHighlightsStale(t *testing.T) {
	dir := t.TempDir()
	at := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339)
	_, err := runCLI(t, dir, "log", "Wee", "--at", at)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "since")
	require.NoError(t, err)
	assert.Contains(t, out, "Wee")
	assert.Contains(t, out, "2h 0m ago")
	assert.Contains(t, out, "no data")
}

func TestParseAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	got, err := parseAt("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseAt("13:05", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 13, 5, 0, 0, time.UTC), got)

	got, err = parseAt("2024-12-31T23:30:00+01:00", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 12, 31, 22, 30, 0, 0, time.UTC)))

	_, err = parseAt("25:99", now)
	assert.Error(t, err)
}

func TestParseAtKeepsWallClockAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Clocks jump from 02:00 to 03:00 on 2025-03-30.
	spring := time.Date(2025, 3, 30, 20, 0, 0, 0, berlin)
	got, err := parseAt("13:05", spring)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Hour())
	assert.Equal(t, 5, got.Minute())
	assert.True(t, got.Equal(time.Date(2025, 3, 30, 11, 5, 0, 0, time.UTC)))

	// Clocks fall back from 03:00 to 02:00 on 2025-10-26.
	autumn := time.Date(2025, 10, 26, 20, 0, 0, 0, berlin)
	got, err = parseAt("08:30", autumn)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
	assert.True(t, got.Equal(time.Date(2025, 10, 26, 7, 30, 0, 0, time.UTC)))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, model.NapStart, normalizeType("nap (start)"))
	assert.Equal(t, model.Wee, normalizeType(" WEE "))
	assert.Equal(t, model.ActivityType("Zoomies"), normalizeType("Zoomies"))
}

func TestExitErrorUnwraps(t *testing.T) {
	err := storageErr(errors.New("disk full"))
	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t, "disk full", err.Error())
	assert.Equal(t, 1, exitCode(usageErr(err)), "outermost code wins")
}
