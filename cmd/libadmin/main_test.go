package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/libadmin/internal/config"
	"github.com/sufield/libadmin/internal/domain"
	"github.com/sufield/libadmin/internal/session"
	"github.com/sufield/libadmin/internal/testhelpers"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// setupEnv points the CLI at a fake backend and a temporary session file.
func setupEnv(t *testing.T) (*testhelpers.Backend, string) {
	t.Helper()
	for _, k := range []string{
		"LIBADMIN_CONFIG", "LIBADMIN_LISTEN_ADDR", "LIBADMIN_SECURE_COOKIES", "LIBADMIN_BACKEND_TIMEOUT",
		"SPIRE_AGENT_SOCKET", "LIBADMIN_EXPECTED_SERVER_ID", "LIBADMIN_EXPECTED_TRUST_DOMAIN",
		"LIBADMIN_USERNAME", "LIBADMIN_PASSWORD", "LIBADMIN_AMQP_URL", "LIBADMIN_DEBUG",
	} {
		t.Setenv(k, "")
	}

	backend := testhelpers.NewBackend(t)
	state := filepath.Join(t.TempDir(), "session.yaml")
	t.Setenv("LIBADMIN_BACKEND_URL", backend.URL())
	t.Setenv("LIBADMIN_STATE", state)
	return backend, state
}

func signIn(t *testing.T) {
	t.Helper()
	res := execute("", "login", "admin", "password")
	require.NoError(t, res.err)
}

func TestExecute_Help(t *testing.T) {
	res := execute("", "help")
	require.NoError(t, res.err)
	for _, name := range []string{"serve", "login", "dashboard", "users", "authors", "books", "loans", "validate", "version"} {
		assert.Contains(t, res.stdout, "    "+name)
	}

	res = execute("", "help", "loans")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "libadmin loans <list|return <id>|delete <id>> [--yes]")

	res = execute("", "--help")
	assert.NoError(t, res.err)
}

func TestExecute_Errors(t *testing.T) {
	res := execute("")
	assert.EqualError(t, res.err, "no command specified")

	res = execute("", "frobnicate")
	assert.EqualError(t, res.err, "unknown command: frobnicate")
	assert.Contains(t, res.stderr, "COMMANDS:")

	res = execute("", "users", "--bogus")
	assert.Error(t, res.err)

	res = execute("", "users", "-h")
	assert.NoError(t, res.err, "help flag is not an error")
	assert.Contains(t, res.stderr, "List or remove users")
}

func TestVersion(t *testing.T) {
	res := execute("", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "libadmin dev (commit: none, built: unknown)\n", res.stdout)

	res = execute("", "version", "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "14 days")
	assert.Contains(t, res.stdout, config.DefaultBackendURL)
}

func TestLogin(t *testing.T) {
	_, state := setupEnv(t)

	res := execute("", "login", "admin", "wrong")
	assert.ErrorIs(t, res.err, session.ErrInvalidCredentials)
	assert.Contains(t, res.stderr, "Invalid username or password")
	_, err := os.Stat(state)
	assert.True(t, os.IsNotExist(err), "rejected sign-in persists nothing")

	res = execute("", "whoami")
	assert.ErrorIs(t, res.err, domain.ErrUnauthenticated)

	res = execute("", "login", "admin", "password")
	require.NoError(t, res.err)
	assert.Equal(t, "Signed in as admin\n", res.stdout)

	res = execute("", "whoami")
	require.NoError(t, res.err)
	assert.Equal(t, "admin\n", res.stdout)

	res = execute("", "logout")
	require.NoError(t, res.err)
	assert.Equal(t, "Signed out\n", res.stdout)

	res = execute("", "whoami")
	assert.ErrorIs(t, res.err, domain.ErrUnauthenticated)
}

func TestLogin_PromptsForPassword(t *testing.T) {
	setupEnv(t)

	res := execute("password\n", "login", "admin")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Password: ")
	assert.Contains(t, res.stdout, "Signed in as admin")
}

func TestLogin_ConfiguredCredentials(t *testing.T) {
	setupEnv(t)
	t.Setenv("LIBADMIN_USERNAME", "librarian")
	t.Setenv("LIBADMIN_PASSWORD", "s3cret")

	assert.Error(t, execute("", "login", "admin", "password").err)
	assert.NoError(t, execute("", "login", "librarian", "s3cret").err)
}

func TestCatalogCommands_RequireSession(t *testing.T) {
	backend, _ := setupEnv(t)

	for _, args := range [][]string{
		{"users", "list"},
		{"books", "delete", "1", "--yes"},
		{"loans", "return", "1", "--yes"},
		{"dashboard"},
	} {
		res := execute("", args...)
		assert.ErrorIs(t, res.err, domain.ErrUnauthenticated, args)
	}
	assert.Empty(t, backend.Calls())
}

func TestList(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)

	res := execute("", "users", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No users found\n", res.stdout)

	backend.AddUser(domain.User{Name: "Ada Lovelace", Email: "ada@example.org", MembershipDate: "2024-01-02"})
	res = execute("", "users", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Ada Lovelace")
	assert.Contains(t, res.stdout, "Jan 2, 2024")
	assert.Contains(t, res.stdout, "Member Since")
}

func TestList_Loans(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)

	u := backend.AddUser(domain.User{Name: "Ada"})
	b := backend.AddBook(domain.Book{Title: "Dune"})
	backend.AddLoan(domain.Loan{UserID: u.ID, BookID: b.ID, LoanDate: "2024-02-01", Status: domain.LoanOverdue})

	res := execute("", "loans", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Dune")
	assert.Contains(t, res.stdout, "Ada")
	assert.Contains(t, res.stdout, "Overdue")
}

func TestList_BackendFailure(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)
	backend.Fail(http.MethodGet, "/books", http.StatusInternalServerError, "db down")

	res := execute("", "books", "list")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "db down")
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted bool
	}{
		{"declined", "n\n", []string{"users", "delete", "1"}, false},
		{"no input", "", []string{"users", "delete", "1"}, false},
		{"accepted", "yes\n", []string{"users", "delete", "1"}, true},
		{"flag after id", "", []string{"users", "delete", "1", "--yes"}, true},
		{"flag before id", "", []string{"users", "--yes", "delete", "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, _ := setupEnv(t)
			signIn(t)
			backend.AddUser(domain.User{Name: "Ada"})

			res := execute(tt.stdin, tt.args...)
			require.NoError(t, res.err)

			calls := backend.CallsTo(http.MethodDelete, "/users/1")
			if tt.deleted {
				assert.Len(t, calls, 1)
				assert.Contains(t, res.stdout, "Deleted user 1")
				return
			}
			assert.Empty(t, backend.Mutations())
			assert.Contains(t, res.stdout, "Are you sure you want to delete this user?")
			assert.Contains(t, res.stdout, "Cancelled")
		})
	}
}

func TestReturnLoan(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)
	b := backend.AddBook(domain.Book{Title: "Dune", Stock: 0})
	l := backend.AddLoan(domain.Loan{BookID: b.ID, Status: domain.LoanActive})

	res := execute("y\n", "loans", "return", l.ID)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Are you sure you want to return this book?")
	assert.Contains(t, res.stdout, "Returned loan record "+l.ID)
	assert.Len(t, backend.CallsTo(http.MethodPatch, "/loans/"+l.ID+"/return"), 1)

	stored, _ := backend.Book(b.ID)
	assert.Equal(t, 1, stored.Stock)
}

func TestEntityCommand_BadSubcommand(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)

	for _, args := range [][]string{
		{"users"},
		{"users", "return", "1"},
		{"books", "delete"},
		{"authors", "list", "extra"},
	} {
		res := execute("", args...)
		assert.Error(t, res.err, args)
	}
	assert.Empty(t, backend.Calls())
}

func TestDashboard(t *testing.T) {
	backend, _ := setupEnv(t)
	signIn(t)
	u := backend.AddUser(domain.User{Name: "Ada"})
	backend.AddBook(domain.Book{Title: "Dune", Publisher: "Chilton"})
	backend.AddLoan(domain.Loan{UserID: u.ID, BookID: "9", Status: domain.LoanOverdue})

	res := execute("", "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Overdue Loans")
	assert.Contains(t, res.stdout, "Loan by User #"+u.ID+" - Book ID: 9")
	assert.Contains(t, res.stdout, "Dune - Publisher: Chilton")
}

func TestValidate(t *testing.T) {
	setupEnv(t)
	t.Setenv("LIBADMIN_BACKEND_URL", "")
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
console:
  listen_addr: ":3000"
backend:
  base_url: "https://catalog.example.org/api"
auth:
  username: librarian
  password: s3cret
`), 0o600))

	res := execute("", "validate", good)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "is valid")
	assert.Contains(t, res.stdout, "https://catalog.example.org/api")
	assert.NotContains(t, res.stdout, "default password")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
backend:
  base_url: "ftp://catalog"
`), 0o600))

	res = execute("", "validate", bad)
	assert.ErrorIs(t, res.err, config.ErrInvalidConfig)
	assert.Contains(t, res.stdout, "is invalid")

	res = execute("", "validate")
	assert.EqualError(t, res.err, "config file path required")
}

func TestServe_DebugFlagEnablesDebugLogging(t *testing.T) {
	setupEnv(t)

	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(prev) })

	// Already canceled: serve starts, then shuts straight down.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := runContext(ctx, []string{"serve", "--listen", "127.0.0.1:0", "--debug"}, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "[DEBUG] serve: listen 127.0.0.1:0")
	assert.Contains(t, out, "Shutting down gracefully...")
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "")
	state := fs.String("state", "", "")

	pos, err := parseArgs(fs, []string{"delete", "--state", "/tmp/s", "7", "--yes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"delete", "7"}, pos)
	assert.True(t, *yes)
	assert.Equal(t, "/tmp/s", *state)
}

func TestTableWriter(t *testing.T) {
	table := NewTableWriter([]string{"ID", "Title"})
	table.AddRow([]string{"1", "Dune"})
	table.AddRow([]string{"22", "Ça"})

	var buf bytes.Buffer
	table.Print(&buf)

	want := "" +
		"┌────┬───────┐\n" +
		"│ ID │ Title │\n" +
		"├────┼───────┤\n" +
		"│ 1  │ Dune  │\n" +
		"│ 22 │ Ça    │\n" +
		"└────┴───────┘\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, table.Len())
}
