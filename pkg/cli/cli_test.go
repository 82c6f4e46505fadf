package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes a fresh root command against the given vault file and
// returns its combined stdout.
func runCLI(t *testing.T, dbPath string, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("DOCVAULT_DB_PATH", "")
	t.Setenv("DOCVAULT_LOGIN", "")
	t.Setenv("DOCVAULT_OUTPUT", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLICheckoutCheckinFlow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vault.sqlite")

	_, err := runCLI(t, dbPath, "", "workspace", "create", "acme", "--default-permission", "WRITE")
	require.NoError(t, err)
	_, err = runCLI(t, dbPath, "", "workspace", "add-user", "acme", "alice")
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "first draft",
		"--login", "alice", "artifact", "create", "acme/DOC-001", "--name", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "version A")

	out, err = runCLI(t, dbPath, "", "--login", "alice", "checkout", "acme/DOC-001")
	require.NoError(t, err)
	assert.Equal(t, "first draft", out)

	out, err = runCLI(t, dbPath, "second draft", "--login", "alice", "checkin", "acme/DOC-001")
	require.NoError(t, err)
	assert.Contains(t, out, "version B")

	out, err = runCLI(t, dbPath, "", "--login", "alice", "artifact", "read", "acme/DOC-001")
	require.NoError(t, err)
	assert.Equal(t, "second draft", out)

	out, err = runCLI(t, dbPath, "", "--login", "alice", "artifact", "history", "acme/DOC-001")
	require.NoError(t, err)
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
}

func TestCLIRequiresLogin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vault.sqlite")

	_, err := runCLI(t, dbPath, "", "checkout", "acme/DOC-001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--login")
}

func TestCLIRejectsBadRef(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vault.sqlite")

	_, err := runCLI(t, dbPath, "", "--login", "alice", "checkout", "no-slash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace/number")
}

func TestCLIRejectsBadOutputFormat(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vault.sqlite")

	_, err := runCLI(t, dbPath, "", "--output", "xml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestCLIVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vault.sqlite")

	out, err := runCLI(t, dbPath, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docvault")
}
