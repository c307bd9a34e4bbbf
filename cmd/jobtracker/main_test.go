package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobtracker/internal/httpapi"
	"jobtracker/internal/store"
)

type cli struct {
	t       *testing.T
	dataDir string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	keyring.MockInit()

	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	srv := httptest.NewServer(httpapi.NewHandler(httpapi.Deps{DB: db.Pool}))
	t.Cleanup(srv.Close)

	t.Setenv("JOBTRACKER_API_URL", srv.URL)
	t.Setenv("JOBTRACKER_LOG_LEVEL", "error")
	return cli{t: t, dataDir: t.TempDir()}
}

func (c cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--data-dir", c.dataDir}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCLI_AddListEditDelete(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No jobs found")
	assert.Contains(t, out, "Start by adding your first job application")

	out, _, err = c.run("", "add", "--company", "Acme", "--position", "Engineer", "--location", "Remote")
	require.NoError(t, err)
	assert.Contains(t, out, "Job application created successfully")
	assert.Contains(t, out, "#1 Acme - Engineer (APPLIED)")

	_, _, err = c.run("", "add", "--company", "Globex", "--position", "SRE", "--location", "Berlin", "--status", "REJECTED")
	require.NoError(t, err)

	out, _, err = c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Globex")

	out, _, err = c.run("", "edit", "1", "--status", "INTERVIEWING")
	require.NoError(t, err)
	assert.Contains(t, out, "Job application updated successfully")
	assert.Contains(t, out, "(INTERVIEWING)")

	out, _, err = c.run("", "list", "--status", "INTERVIEWING")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.NotContains(t, out, "Globex")

	out, _, err = c.run("n\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete Job Application")
	assert.Contains(t, out, "Cancelled")

	out, _, err = c.run("", "delete", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Job deleted successfully")

	out, _, err = c.run("", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Acme")
	assert.Contains(t, out, "Globex")
}

func TestCLI_AddValidation(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("", "add", "--company", "Acme", "--position", "Engineer", "--location", "Remote", "--date", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Application date must be YYYY-MM-DD")

	_, _, err = c.run("", "add", "--company", "Acme")
	assert.Error(t, err)
}

func TestCLI_EditMissingJob(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "edit", "42", "--status", "ACCEPTED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job #42 not found")

	_, _, err = c.run("", "delete", "abc")
	assert.Error(t, err)
}

func TestCLI_ListUnknownStatus(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "list", "--status", "applied")
	assert.Error(t, err)
}

func TestCLI_Token(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("s3cret\n", "token", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "Token stored for jobtracker:api:127.0.0.1")

	out, _, err = c.run("", "token", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "Token removed")

	_, _, err = c.run("\n", "token", "set")
	assert.Error(t, err)
}
