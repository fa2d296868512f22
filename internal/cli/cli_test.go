package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pointsrummy/internal/api"
	"github.com/mcoot/pointsrummy/internal/api/response"
	"github.com/mcoot/pointsrummy/internal/cli"
	"github.com/mcoot/pointsrummy/internal/factory"
	"github.com/mcoot/pointsrummy/internal/testutil"
	"github.com/mcoot/pointsrummy/internal/web"
)

// cliHarness runs root commands in-process against a test server
type cliHarness struct {
	t         *testing.T
	serverURL string
	tokenFile string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("RUMMY_TOKEN", "")

	app := factory.NewTestApp()
	_, err := app.SeedService.SeedIfEmpty(t.Context())
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(api.RouterConfig{
		Logger:           testutil.NopLogger(),
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
	}))
	mux.Handle("/", web.NewRouter(web.RouterConfig{
		Logger:           testutil.NopLogger(),
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
		HubManager:       app.HubManager,
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &cliHarness{
		t:         t,
		serverURL: srv.URL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (h *cliHarness) runFormat(format string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--server", h.serverURL,
		"--token-file", h.tokenFile,
		"--output", format,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// run executes a command with JSON output
func (h *cliHarness) run(args ...string) (string, error) {
	return h.runFormat("json", args...)
}

func runJSON[T any](h *cliHarness, args ...string) T {
	h.t.Helper()
	output, err := h.run(args...)
	require.NoError(h.t, err, "output: %s", output)

	var v T
	require.NoError(h.t, json.Unmarshal([]byte(output), &v), output)
	return v
}

func TestCLI_Health(t *testing.T) {
	h := newCLIHarness(t)

	result := runJSON[cli.HealthResult](h, "health")
	assert.Equal(t, "ok", result.Status)
}

func TestCLI_RegisterSavesToken(t *testing.T) {
	h := newCLIHarness(t)

	auth := runJSON[response.AuthResponse](h, "player", "register", "--name", "Alice", "--email", "alice@example.com", "--pass", "secret123")
	assert.Equal(t, "Alice", auth.User.Name)
	assert.Equal(t, 1000, auth.User.Coins)

	saved, err := os.ReadFile(h.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, auth.SessionToken, string(saved))

	me := runJSON[response.User](h, "player", "me")
	assert.Equal(t, auth.User.ID, me.ID)
}

func TestCLI_RegisterValidationError(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("player", "register", "--name", "Bob", "--email", "not-an-email", "--pass", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
	assert.Contains(t, err.Error(), "email")
}

func TestCLI_LoginWrongPassword(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("player", "login", "--email", "player@demo.com", "--pass", "wrong")
	require.Error(t, err)

	var apiErr *cli.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestCLI_LogoutRemovesToken(t *testing.T) {
	h := newCLIHarness(t)
	runJSON[response.AuthResponse](h, "player", "login", "--email", "player@demo.com", "--pass", "player123")

	_, err := h.run("player", "logout")
	require.NoError(t, err)

	_, err = os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(err))

	_, err = h.run("player", "me")
	assert.Error(t, err)
}

func TestCLI_PlayWinningRound(t *testing.T) {
	h := newCLIHarness(t)
	runJSON[response.AuthResponse](h, "player", "register", "--name", "Cara", "--email", "cara@example.com", "--pass", "secret123")

	round := runJSON[response.Round](h, "game", "start")
	assert.Equal(t, "playing", round.State)
	assert.Len(t, round.Hand, 13)

	round = runJSON[response.Round](h, "game", "draw")
	require.Len(t, round.Hand, 14)

	round = runJSON[response.Round](h, "game", "discard", round.Hand[0].ID)
	assert.Equal(t, "won", round.State)
	assert.Equal(t, 90, round.Winnings)

	shown := runJSON[response.Round](h, "game", "show")
	assert.Equal(t, round.ID, shown.ID)

	ledger := runJSON[response.LedgerResponse](h, "player", "ledger", "--limit", "1")
	require.Len(t, ledger.Entries, 1)
	assert.Equal(t, "winnings", ledger.Entries[0].Kind)
	assert.Equal(t, 1040, ledger.Entries[0].BalanceAfter)

	dash := runJSON[response.Dashboard](h, "player", "dashboard")
	assert.Equal(t, 1040, dash.Coins)
	assert.Equal(t, 1, dash.GamesWon)
	assert.Equal(t, 100, dash.WinRate)
}

func TestCLI_EndTurnAndAbandon(t *testing.T) {
	h := newCLIHarness(t)
	runJSON[response.AuthResponse](h, "player", "register", "--name", "Dan", "--email", "dan@example.com", "--pass", "secret123")

	runJSON[response.Round](h, "game", "start")

	round := runJSON[response.Round](h, "game", "end-turn")
	assert.Equal(t, "opponent", round.Turn)

	_, err := h.run("game", "draw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_YOUR_TURN")

	output, err := h.run("game", "abandon")
	require.NoError(t, err)
	assert.Contains(t, output, "Round abandoned")

	_, err = h.run("game", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROUND_NOT_FOUND")
}

func TestCLI_TextOutput(t *testing.T) {
	h := newCLIHarness(t)
	runJSON[response.AuthResponse](h, "player", "login", "--email", "player@demo.com", "--pass", "player123")

	output, err := h.runFormat("text", "player", "me")
	require.NoError(t, err)
	assert.Contains(t, output, "Demo Player <player@demo.com>")
	assert.Contains(t, output, "Coins: 1000")
	assert.Contains(t, output, "win rate 53%")

	output, err = h.runFormat("text", "game", "start")
	require.NoError(t, err)
	assert.Contains(t, output, "Turn 1: yours, 30s left")
	assert.Contains(t, output, "Hand (13):")
}

func TestCLI_AdminCommands(t *testing.T) {
	h := newCLIHarness(t)
	player := runJSON[response.AuthResponse](h, "player", "register", "--name", "Eve", "--email", "eve@example.com", "--pass", "secret123")

	// Players cannot use the admin panel
	_, err := h.run("admin", "overview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORBIDDEN")

	runJSON[response.AuthResponse](h, "player", "login", "--email", "admin@demo.com", "--pass", "admin123")

	overview := runJSON[response.AdminOverview](h, "admin", "overview")
	assert.Equal(t, 2, overview.TotalPlayers)

	list := runJSON[response.PlayerList](h, "admin", "players")
	require.Len(t, list.Players, 2)

	user := runJSON[response.User](h, "admin", "give", player.User.ID, "250")
	assert.Equal(t, 1250, user.Coins)

	user = runJSON[response.User](h, "admin", "take", player.User.ID, "5000")
	assert.Equal(t, 0, user.Coins)
}

func TestCLI_AdminRejectsBadAmount(t *testing.T) {
	h := newCLIHarness(t)

	for _, amount := range []string{"0", "lots"} {
		_, err := h.run("admin", "give", "someone", amount)
		require.Error(t, err, amount)
		assert.Contains(t, err.Error(), "positive number")
	}
}

func TestCLI_EventsRequiresLogin(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("game", "events")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "logged in"), err.Error())
}
