package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	dayOneLog = "whosthere-2024-03-01.log"
	dayTwoLog = "whosthere-2024-03-02.log"
)

var (
	dayOneLines = []string{
		"2024-03-01 12:00:00 192.168.1.20 = aa:bb:cc:dd:ee:01",
		"2024-03-01 12:00:00 192.168.1.21 = aa:bb:cc:dd:ee:02",
		"2024-03-01 12:05:00 192.168.1.20 = aa:bb:cc:dd:ee:01",
	}
	dayTwoLines = []string{
		"2024-03-02 08:00:00 192.168.1.20 = aa:bb:cc:dd:ee:01",
		"2024-03-02 08:00:00 192.168.1.22 = aa:bb:cc:dd:ee:03",
	}
)

func TestVersionCommand(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestParseFoldsLogsAndSavesState(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	stdout, stderr, err := executeCLI(t, home, "parse")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 5 new lines from 2 log files (0 already seen)")
	assert.Contains(t, stdout, "clients: 3, present now: 2")
	assert.Contains(t, stdout, "cursor: "+dayTwoLog+" line 2")
	assert.Contains(t, stderr, "ingest complete")

	state, err := os.ReadFile(filepath.Join(home, ".whosthere", "state.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(state), "current_file")
	assert.Contains(t, string(state), dayTwoLog)
}

func TestParseTwiceOnlyFoldsNewLines(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "parselogs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 0 new lines from 1 log files (2 already seen)")

	appendLines(t, filepath.Join(home, "logs", dayTwoLog), "2024-03-02 08:05:00 192.168.1.22 = aa:bb:cc:dd:ee:03")

	stdout, _, err = executeCLI(t, home, "parse")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 1 new lines from 1 log files (2 already seen)")
	assert.Contains(t, stdout, "sessions opened: 0, closed: 0")
}

func TestParseMalformedLineKeepsConsumedPrefix(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	writeLog(t, filepath.Join(home, "logs", dayTwoLog), dayTwoLines[0], "garbage", dayTwoLines[1])

	stdout, _, err := executeCLI(t, home, "parse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), dayTwoLog+":2: malformed scan line \"garbage\"")
	assert.Contains(t, stdout, "cursor: "+dayTwoLog+" line 1")

	writeLog(t, filepath.Join(home, "logs", dayTwoLog), dayTwoLines...)
	stdout, _, err = executeCLI(t, home, "parse")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 1 new lines from 1 log files (1 already seen)")
}

func TestParseDryRunDoesNotSave(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	stdout, _, err := executeCLI(t, home, "parse", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 5 new lines")
	assert.Contains(t, stdout, "dry run: state not saved")

	_, err = os.Stat(filepath.Join(home, ".whosthere", "state.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestParseRebuildStartsOver(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "parse", "--rebuild")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 5 new lines from 2 log files (0 already seen)")
}

func TestParseFlagsOverrideConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	other := filepath.Join(t.TempDir(), "scans")
	require.NoError(t, os.MkdirAll(other, 0o755))
	writeLog(t, filepath.Join(other, "probe-2024-03-05.log"), "2024-03-05 10:00:00 10.0.0.5 = 11:22:33:44:55:66")

	stdout, _, err := executeCLI(t, home, "parse", "--logdir", other, "--prefix", "probe", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folded 1 new lines from 1 log files")
	assert.Contains(t, stdout, "cursor: probe-2024-03-05.log line 1")
}

func TestLogLevelFlagSilencesInfo(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	_, stderr, err := executeCLI(t, home, "parse", "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestSessionsCurrentTable(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	for _, args := range [][]string{{"sessions"}, {"sessions", "current"}} {
		stdout, _, err := executeCLI(t, home, args...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Present now")
		assert.Contains(t, stdout, "aa:bb:cc:dd:ee:01")
		assert.Contains(t, stdout, "laptop")
		assert.Contains(t, stdout, "2024-03-01 12:00:00 +0000")
		assert.Contains(t, stdout, "present")
		assert.Contains(t, stdout, "aa:bb:cc:dd:ee:03")
		assert.NotContains(t, stdout, "aa:bb:cc:dd:ee:02")
	}
}

func TestSessionsHistoryJSONForOneClient(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "sessions", "history", "--client", "AA:BB:CC:DD:EE:02", "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "aa:bb:cc:dd:ee:02", rows[0]["client_id"])
	assert.Equal(t, "192.168.1.21", rows[0]["address"])
	assert.Equal(t, "2024-03-01 12:00:00", rows[0]["session_start"])
	assert.Equal(t, "2024-03-01 12:00:00", rows[0]["session_end"])
}

func TestSessionsHistoryKnownOnly(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "sessions", "history", "--known", "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "laptop", rows[0]["name"])
	assert.NotContains(t, rows[0], "session_end")
}

func TestSessionsLatestYAML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "sessions", "latest", "--format", "yaml")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", rows[0]["client_id"])
	assert.Equal(t, "aa:bb:cc:dd:ee:03", rows[2]["client_id"])
}

func TestSessionsBeforeAnyParseIsEmpty(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	stdout, _, err := executeCLI(t, home, "sessions", "current", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestSessionsRejectsUnknownFormat(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	_, _, err := executeCLI(t, home, "sessions", "latest", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format \"xml\"")
}

func TestStatusShowsCursor(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cursor:")
	assert.Contains(t, stdout, "none")

	_, _, err = executeCLI(t, home, "parse")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, dayTwoLog+" line 2")
	assert.Contains(t, stdout, "3 (2 open)")
	assert.Contains(t, stdout, filepath.Join(home, ".whosthere", "state.toml"))

	stdout, _, err = executeCLI(t, home, "status", "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"open_sessions\": 2")
	assert.Contains(t, stdout, "\"line\": 2")
}

func TestExportWritesSQLiteDatabase(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))
	_, _, err := executeCLI(t, home, "parse")
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	stdout, _, err := executeCLI(t, home, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "exported 3 sessions to "+dbPath)

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "exported 3 sessions")
}

func TestExportRequiresDBFlag(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	_, _, err := executeCLI(t, home, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"db\" not set")
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "status", "--config", filepath.Join(home, "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestInvalidTimezoneIsReported(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeScanFixture(home))

	config := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(config, []byte("[display]\ntimezone = \"Nowhere/Special\"\n"), 0o600))

	_, _, err := executeCLI(t, home, "status", "--config", config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load display timezone")
}

func TestUnknownCommand(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"watch\"")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeScanFixture lays out two days of scan logs, a name mapping and a
// config file pointing at them under home.
func writeScanFixture(home string) error {
	configDir := filepath.Join(home, ".whosthere")
	logDir := filepath.Join(home, "logs")
	for _, dir := range []string{configDir, logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	config := fmt.Sprintf(`[logs]
dir = '%s'
prefix = "whosthere"

[display]
timezone = "UTC"
`, logDir)
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600); err != nil {
		return err
	}

	names := "# known devices\naa:bb:cc:dd:ee:01=laptop\n"
	if err := os.WriteFile(filepath.Join(configDir, "macs.txt"), []byte(names), 0o600); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(logDir, dayOneLog), []byte(joinLines(dayOneLines...)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(logDir, dayTwoLog), []byte(joinLines(dayTwoLines...)), 0o644)
}

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(joinLines(lines...)), 0o644))
}

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString(joinLines(lines...))
	require.NoError(t, err)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
