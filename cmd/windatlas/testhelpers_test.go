// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/windatlas/windatlas/internal/config"
)

// testDataDir holds the small projects and geo tables shared with the
// dataset package tests.
const testDataDir = "../../internal/dataset/testdata"

// copyTestData copies the shared tables into a fresh directory so a test can
// add a config file next to them. Extra files are written as name → content.
func copyTestData(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"projects.csv", "geo.csv"} {
		data, err := os.ReadFile(filepath.Join(testDataDir, name))
		require.NoError(t, err)
		writeTestFile(t, dir, name, string(data))
	}
	for name, content := range extra {
		writeTestFile(t, dir, name, content)
	}
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// isolateConfig points the global config at an empty directory and clears
// the environment overrides. It returns the global config directory.
func isolateConfig(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(config.EnvAddr, "")
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvData, "")
	return filepath.Join(xdg, "windatlas")
}

// chdir moves into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// resetCommands returns every flag of every command to its default and
// hands every command ctx. Cobra keeps a subcommand's context across runs.
func resetCommands(ctx context.Context) {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		resetFlagSet(c.Flags())
		resetFlagSet(c.PersistentFlags())
		c.SetContext(ctx)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	resetConfigFlags()
}

// runCLI executes rootCmd with args and returns what it wrote.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIContext(context.Background(), t, args...)
}

func runCLIContext(ctx context.Context, t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetCommands(ctx)
	color.NoColor = true

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// requireExitCode asserts err carries the given exit code.
func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	require.Equal(t, code, ece.code, ece.msg)
}
