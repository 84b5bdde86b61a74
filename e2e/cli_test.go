package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/accountsvc/internal/api"
	"github.com/mcoot/accountsvc/internal/factory"
	"github.com/mcoot/accountsvc/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "accountctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/accountctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	// Create routers
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
	})

	webRouter, err := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
	})
	require.NoError(t, err)

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type accountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Account      accountResponse `json:"account"`
	SessionToken string          `json:"session_token"`
}

type accountListResponse struct {
	Accounts []accountResponse `json:"accounts"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// firstJSONValue decodes the first JSON value from CLI output, ignoring any
// trailing message lines
func firstJSONValue(t *testing.T, output string, v any) {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(output))
	require.NoError(t, dec.Decode(v), "output: %s", output)
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register
	output, err := cli.run("register", "--user", "alice", "--pass", "s3cret", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)

	var acct accountResponse
	firstJSONValue(t, output, &acct)
	assert.Equal(t, "alice", acct.Username)
	assert.Equal(t, "alice@example.com", acct.Email)

	// Login (token is saved to the token file)
	output, err = cli.run("login", "--user", "alice", "--pass", "s3cret")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "alice", authResp.Account.Username)
	assert.NotEmpty(t, authResp.SessionToken)

	// Me uses the saved token
	output, err = cli.run("me")
	require.NoError(t, err, "output: %s", output)

	var me accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, acct.ID, me.ID)
}

func TestCLI_LoginFailure(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("register", "--user", "alice", "--pass", "s3cret", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("login", "--user", "alice", "--pass", "wrong")
	require.Error(t, err)
	assert.Contains(t, output, "AUTHENTICATION_FAILED")
}

func TestCLI_ProfileUpdate(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("register", "--user", "alice", "--pass", "s3cret", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("login", "--user", "alice", "--pass", "s3cret")
	require.NoError(t, err, "output: %s", output)

	// Change email only; password stays the same
	output, err = cli.run("profile", "--email", "alice@new.example.com")
	require.NoError(t, err, "output: %s", output)

	var acct accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &acct))
	assert.Equal(t, "alice@new.example.com", acct.Email)

	// Old password still works
	output, err = cli.run("login", "--user", "alice", "--pass", "s3cret")
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_AccountAdmin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("register", "--user", "alice", "--pass", "s3cret", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("register", "--user", "bob", "--pass", "hunter2", "--email", "bob@example.com")
	require.NoError(t, err, "output: %s", output)

	var bob accountResponse
	firstJSONValue(t, output, &bob)

	output, err = cli.run("login", "--user", "alice", "--pass", "s3cret")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	token := authResp.SessionToken

	// List shows both accounts
	output, err = cli.runWithToken(token, "account", "list")
	require.NoError(t, err, "output: %s", output)

	var list accountListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Accounts, 2)
	assert.Equal(t, "alice", list.Accounts[0].Username)
	assert.Equal(t, "bob", list.Accounts[1].Username)

	// Update bob's email
	output, err = cli.runWithToken(token, "account", "update-email", itoa(bob.ID), "--email", "bob@new.example.com")
	require.NoError(t, err, "output: %s", output)

	var updated accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &updated))
	assert.Equal(t, "bob@new.example.com", updated.Email)

	// Delete bob
	output, err = cli.runWithToken(token, "account", "delete", itoa(bob.ID))
	require.NoError(t, err, "output: %s", output)

	// Bob is gone
	output, err = cli.runWithToken(token, "account", "get", itoa(bob.ID))
	require.Error(t, err)
	assert.Contains(t, output, "ACCOUNT_NOT_FOUND")
}

func TestCLI_Logout(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("register", "--user", "alice", "--pass", "s3cret", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("login", "--user", "alice", "--pass", "s3cret")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("logout")
	require.NoError(t, err, "output: %s", output)

	// The saved token is cleared, so me fails
	output, err = cli.run("me")
	require.Error(t, err)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
