package main

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windatlas/windatlas/internal/testable"
)

func withMockFS(t *testing.T, m *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = m
	t.Cleanup(func() { cmdFS = orig })
}

func TestQuery_WritesThroughFileSystem(t *testing.T) {
	isolateConfig(t)
	mock := &testable.MockFileSystem{}
	withMockFS(t, mock)

	_, _, err := runCLI(t, "query", "-d", testDataDir, "-f", "xlsx", "-o", "view.xlsx", "--chart", "ranking.png")
	require.NoError(t, err)

	require.Contains(t, mock.Files, "view.xlsx")
	assert.Equal(t, "PK", string(mock.Files["view.xlsx"][:2]))
	require.Contains(t, mock.Files, "ranking.png")
	assert.Equal(t, "\x89PNG", string(mock.Files["ranking.png"][:4]))
}

func TestQuery_CreateError(t *testing.T) {
	isolateConfig(t)
	withMockFS(t, &testable.MockFileSystem{
		CreateFn: func(string) (io.WriteCloser, error) {
			return nil, errors.New("disk full")
		},
	})

	_, _, err := runCLI(t, "query", "-d", testDataDir, "-f", "json", "-o", "view.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing json output")
	assert.Contains(t, err.Error(), "disk full")
}
