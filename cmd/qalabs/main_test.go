package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/letsconfuse/manualQaLabs/pkg/config"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
)

// execute runs the CLI with a config path that does not exist so
// every test starts from the defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	base := []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--env-file", "",
	}
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qalabs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRoot_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"serve", "list", "probe", "walkthrough", "progress", "catalog", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestRoot_InvalidStoreDriver(t *testing.T) {
	_, err := execute(t, "--store", "redis", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRoot_BadConfigFile(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")
	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{"--config", path, "--env-file", "", "list"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestRoot_ExplicitEnvFileMustExist(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"list",
	})
	require.Error(t, cmd.Execute())
}

func TestRoot_EnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "lab.env")
	require.NoError(t, os.WriteFile(envPath, []byte("QALABS_STORE_DRIVER=bogus\n"), 0644))

	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", envPath,
		"list",
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestConfig_MasksToken(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "lab.env")
	require.NoError(t, os.WriteFile(envPath,
		[]byte("QALABS_SERVER_TOKEN=labs-token-123456\nQALABS_LOG_DIR="+filepath.Join(dir, "logs")+"\n"), 0644))

	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", envPath,
		"config",
	})
	require.NoError(t, cmd.Execute())

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "labs*********3456", cfg.Server.Token)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.Log.Dir)
	assert.NotContains(t, out.String(), "labs-token-123456")
}

func TestConfig_Defaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.DefaultConfig().Server.Addr, cfg.Server.Addr)
	assert.Empty(t, cfg.Server.Token)
	assert.NotContains(t, out, "token:")
}

func TestList_Table(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "age-gate"))
	assert.Contains(t, lines[1], "0/7 (0%)")
	assert.True(t, strings.HasPrefix(lines[8], "subscription-nexus"))
}

func TestList_JSONByType(t *testing.T) {
	out, err := execute(t, "list", "--type", "Security", "--format", "json")
	require.NoError(t, err)

	var got []report.ScenarioSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "search-box", string(got[0].ScenarioID))
}

func TestList_UnknownFormat(t *testing.T) {
	_, err := execute(t, "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestProbe_Local(t *testing.T) {
	out, err := execute(t, "probe", "age-gate", "submit", "age=18")
	require.NoError(t, err)
	assert.Contains(t, out, "(min-boundary)")
	assert.Contains(t, out, "solved: min-boundary")
	assert.Contains(t, out, "progress: 1/7 (14%)")
}

func TestProbe_JSON(t *testing.T) {
	out, err := execute(t, "probe", "coupon-code", "apply", "code=MEGA1000", "--json")
	require.NoError(t, err)

	var got runner.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "coupon-code", string(got.ScenarioID))
	assert.Equal(t, "apply", got.Action)
	assert.NotEmpty(t, got.Events)
}

func TestProbe_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing action", []string{"probe", "age-gate"}, "requires at least 2 arg"},
		{"bad input", []string{"probe", "age-gate", "submit", "age"}, "want key=value"},
		{"empty key", []string{"probe", "age-gate", "submit", "=18"}, "want key=value"},
		{"unknown scenario", []string{"probe", "nope", "submit"}, "scenario not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProbe_RemoteUnreachable(t *testing.T) {
	_, err := execute(t, "probe", "age-gate", "submit", "age=18",
		"--remote", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestParseAction(t *testing.T) {
	a, err := parseAction("book", []string{"start=2026-03-01", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "book", a.Name)
	assert.Equal(t, map[string]string{
		"start": "2026-03-01",
		"note":  "a=b",
		"empty": "",
	}, a.Input)
}

func TestProgress_PersistsAcrossCommands(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--store", "file", "--store-path", dir}

	_, err := execute(t, append(store, "probe", "age-gate", "submit", "age=18")...)
	require.NoError(t, err)

	out, err := execute(t, append(store, "progress", "show", "age-gate", "--format", "json")...)
	require.NoError(t, err)
	var c report.Checklist
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, 1, c.Solved)
	assert.Equal(t, "min-boundary", c.Items[0].ID)
	assert.Equal(t, report.HiddenTitle, c.Items[1].Title)

	out, err = execute(t, append(store, "progress", "reset", "age-gate")...)
	require.NoError(t, err)
	assert.Equal(t, "reset age-gate\n", out)

	out, err = execute(t, append(store, "progress", "show", "age-gate", "--format", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, 0, c.Solved)
}

func TestProgress_ShowFormats(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"progress", "show", "age-gate"}, "| # | Edge Case | Status |"},
		{[]string{"progress", "show", "age-gate", "--format", "html"}, "Scenario Report:"},
		{[]string{"progress", "show"}, "# QA Labs - Master Summary"},
		{[]string{"progress", "show", "--format", "html"}, "QA Labs - Master Summary"},
		{[]string{"progress", "show", "--format", "json"}, `"total_rules": 57`},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[2:], " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestProgress_ShowErrors(t *testing.T) {
	_, err := execute(t, "progress", "show", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown report format")

	_, err = execute(t, "progress", "show", "nope")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestProgress_ResetArgs(t *testing.T) {
	_, err := execute(t, "progress", "reset")
	assert.ErrorContains(t, err, "--all")

	_, err = execute(t, "progress", "reset", "age-gate", "--all")
	assert.ErrorContains(t, err, "--all")

	out, err := execute(t, "progress", "reset", "--all")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 8)
}

func TestProgress_Summary(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	out, err := execute(t, "progress", "summary", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "0/57 edge cases found (0%)")

	matches, err := filepath.Glob(filepath.Join(outDir, "master_summary_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.FileExists(t, filepath.Join(outDir, "latest_summary.md"))
}

func TestProgress_History(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "history_path: "+filepath.Join(dir, "history.jsonl")+"\n")

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCmd(&out, &out)
		cmd.SetArgs(append([]string{"--config", cfg, "--env-file", ""}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	run("probe", "age-gate", "submit", "age=17")
	run("probe", "age-gate", "submit", "age=0")

	out := run("progress", "history")
	assert.Contains(t, out, "below-min")
	assert.Contains(t, out, "zero")

	out = run("progress", "history", "--limit", "1")
	assert.NotContains(t, out, "below-min")
	assert.Contains(t, out, "zero")
}

func TestProgress_HistoryWithoutPath(t *testing.T) {
	_, err := execute(t, "progress", "history")
	assert.ErrorContains(t, err, "no history file")
}

func TestWalkthrough_Builtin(t *testing.T) {
	out, err := execute(t, "walkthrough")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "age-gate"))
	for _, line := range lines {
		assert.Contains(t, line, "passed")
	}
}

func TestWalkthrough_NamedWithReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "out", "age-gate.md")
	out, err := execute(t, "walkthrough", "--name", "age-gate", "--reset", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "age-gate")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Walkthrough: age-gate")
	assert.Contains(t, string(data), "**Status:** PASSED")
}

func TestWalkthrough_FailingScript(t *testing.T) {
	dir := t.TempDir()
	script := `name: wrong
scenario: age-gate
steps:
  - action: submit
    input: {age: "18"}
    expect: ["fires:below-min"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(script), 0644))

	out, err := execute(t, "walkthrough", dir)
	require.ErrorIs(t, err, errWalkthroughFailed)
	assert.Contains(t, out, "wrong")
	assert.Contains(t, out, "0/1 steps passed")
	assert.Contains(t, out, "step 1 (submit)")
}

func TestWalkthrough_JSON(t *testing.T) {
	out, err := execute(t, "walkthrough", "--name", "coupon-code", "--json")
	require.NoError(t, err)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "coupon-code", results[0]["script"])
}

func TestWalkthrough_LoadErrors(t *testing.T) {
	_, err := execute(t, "walkthrough", "--name", "age-gate", "some.yaml")
	assert.ErrorContains(t, err, "--name")

	_, err = execute(t, "walkthrough", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "walkthrough", "--name", "nope")
	assert.Error(t, err)
}

func TestCatalog_ExportValidate(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "catalog."+format)
			_, err := execute(t, "catalog", "export", "--format", format, "--out", path)
			require.NoError(t, err)

			out, err := execute(t, "catalog", "validate", path)
			require.NoError(t, err)
			assert.Contains(t, out, ": ok")
		})
	}
}

func TestCatalog_ExportStdout(t *testing.T) {
	out, err := execute(t, "catalog", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "id: age-gate")
	assert.Contains(t, out, "id: subscription-nexus")
}

func TestCatalog_ValidateReportsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\nname: bad\nscenarios:\n  - id: nope\n"), 0644))

	out, err := execute(t, "catalog", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem(s)")
	assert.NotEmpty(t, out)
}

func TestCatalog_OverlayAppliesToList(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	_, err := execute(t, "catalog", "export", "--out", catalog)
	require.NoError(t, err)

	data, err := os.ReadFile(catalog)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("title: The Age Gate"), []byte("title: Age Check"), 1)
	require.NoError(t, os.WriteFile(catalog, data, 0644))

	cfg := writeConfig(t, "catalog_path: "+catalog+"\n")
	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{"--config", cfg, "--env-file", "", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Age Check")
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := writeConfig(t, "log:\n  format: json\n  path: "+
		filepath.Join(t.TempDir(), "lab.log")+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{"--config", cfg, "--env-file", "", "serve", "--addr", "127.0.0.1:0"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_BadAddr(t *testing.T) {
	cfg := writeConfig(t, "log:\n  format: json\n  path: "+
		filepath.Join(t.TempDir(), "lab.log")+"\n")
	var out bytes.Buffer
	cmd := newRootCmd(&out, &out)
	cmd.SetArgs([]string{"--config", cfg, "--env-file", "", "serve", "--addr", "256.0.0.1:99999"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
