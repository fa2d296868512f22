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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pointsrummy/internal/api"
	"github.com/mcoot/pointsrummy/internal/api/response"
	"github.com/mcoot/pointsrummy/internal/factory"
	"github.com/mcoot/pointsrummy/internal/web"
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
	binaryPath := filepath.Join(t.TempDir(), "rummy-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rummy")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "RUMMY_TOKEN=")
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = app.SeedService.SeedIfEmpty(ctx)
	require.NoError(t, err)
	go app.RoundController.Run(ctx)

	// Create routers
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
		HubManager:       app.HubManager,
	})

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
		addr: serverURL,
		shutdown: func() {
			cancel()
			app.HubManager.Close()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = server.Shutdown(shutdownCtx)
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

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, `"ok"`)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--name", "Alice", "--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
	auth := decode[response.AuthResponse](t, output)
	assert.Equal(t, 1000, auth.User.Coins)

	// Token is read back from the token file
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, auth.User.ID, decode[response.User](t, output).ID)

	// An explicit token works without the file
	output, err = cli.runWithToken(auth.SessionToken, "player", "dashboard")
	require.NoError(t, err, "output: %s", output)
	dash := decode[response.Dashboard](t, output)
	assert.Equal(t, "Beginner", dash.Tier)
	require.Len(t, dash.Recent, 1)
	assert.Equal(t, "signup_bonus", dash.Recent[0].Kind)

	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)

	_, err = cli.runWithToken(auth.SessionToken, "player", "me")
	assert.Error(t, err)
}

func TestCLI_FullRoundFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--name", "Bob", "--email", "bob@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("game", "start")
	require.NoError(t, err, "output: %s", output)
	round := decode[response.Round](t, output)
	assert.Equal(t, "playing", round.State)
	assert.Equal(t, "player", round.Turn)
	assert.Len(t, round.Hand, 13)

	output, err = cli.run("game", "draw")
	require.NoError(t, err, "output: %s", output)
	round = decode[response.Round](t, output)
	require.Len(t, round.Hand, 14)

	output, err = cli.run("game", "discard", round.Hand[len(round.Hand)-1].ID)
	require.NoError(t, err, "output: %s", output)
	round = decode[response.Round](t, output)
	assert.Equal(t, "won", round.State)
	assert.Equal(t, 90, round.Winnings)

	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	me := decode[response.User](t, output)
	assert.Equal(t, 1040, me.Coins)
	assert.Equal(t, 1, me.GamesWon)
}

func TestCLI_AdminFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--name", "Cara", "--email", "cara@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
	player := decode[response.AuthResponse](t, output)

	output, err = cli.run("player", "login", "--email", "admin@demo.com", "--pass", "admin123")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("admin", "take", player.User.ID, "100000")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, 0, decode[response.User](t, output).Coins)

	// With no coins the player cannot pay the entry fee
	output, err = cli.runWithToken(player.SessionToken, "game", "start")
	require.Error(t, err)
	assert.Contains(t, output, "INSUFFICIENT_COINS")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	t.Run("not logged in", func(t *testing.T) {
		output, err := cli.run("player", "me")
		require.Error(t, err)
		assert.Contains(t, output, "UNAUTHORIZED")
	})

	t.Run("wrong password", func(t *testing.T) {
		output, err := cli.run("player", "login", "--email", "player@demo.com", "--pass", "nope")
		require.Error(t, err)
		assert.Contains(t, output, "INVALID_CREDENTIALS")
	})

	t.Run("no round", func(t *testing.T) {
		output, err := cli.run("player", "login", "--email", "player@demo.com", "--pass", "player123")
		require.NoError(t, err, "output: %s", output)

		output, err = cli.run("game", "draw")
		require.Error(t, err)
		assert.True(t, strings.Contains(output, "ROUND_NOT_FOUND"), output)
	})
}
