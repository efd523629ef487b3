package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDump(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestImportDryRun(t *testing.T) {
	path := writeDump(t, "005930,Samsung,KOSPI,x,\"61,000\"\n000660,SK hynix,KOSPI,x,95000\n")

	rootCmd.SetArgs([]string{"import", "--file", path, "--encoding", "utf-8", "--dry-run"})
	rootCmd.SetOut(&bytes.Buffer{})
	require.NoError(t, rootCmd.Execute())
}

func TestImportRejectsUnknownEncoding(t *testing.T) {
	path := writeDump(t, "005930,Samsung,KOSPI,x,61000\n")

	rootCmd.SetArgs([]string{"import", "--file", path, "--encoding", "latin1", "--dry-run"})
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestImportRejectsBadRows(t *testing.T) {
	path := writeDump(t, "005930,Samsung,KOSPI,x,not-a-price\n")

	rootCmd.SetArgs([]string{"import", "--file", path, "--encoding", "utf-8", "--dry-run"})
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
