package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/pointsrummy/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// HealthResult is the health endpoint response
type HealthResult struct {
	Status string `json:"status"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printAuthResponse(v)
	case response.Dashboard:
		o.printDashboard(v)
	case response.LedgerResponse:
		o.printLedger(v.Entries)
	case response.Round:
		o.printRound(v)
	case response.AdminOverview:
		o.printAdminOverview(v)
	case response.PlayerList:
		o.printPlayerList(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printUser(u response.User) {
	o.printf("Player: %s <%s> (%s)\n", u.Name, u.Email, u.ID)
	if u.Role != "player" {
		o.printf("Role: %s\n", u.Role)
	}
	o.printf("Coins: %d\n", u.Coins)
	o.printf("Games: %d won / %d played (win rate %s)\n", u.GamesWon, u.GamesPlayed, winRate(u.WinRate))
}

func (o *Output) printAuthResponse(a response.AuthResponse) {
	o.printUser(a.User)
	o.printf("Token: %s\n", a.SessionToken)
	o.printf("Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printDashboard(d response.Dashboard) {
	o.printf("%s\n", d.User.Name)
	o.printf("Coins:          %d\n", d.Coins)
	o.printf("Games won:      %d of %d\n", d.GamesWon, d.GamesPlayed)
	o.printf("Win rate:       %d%%\n", d.WinRate)
	o.printf("Total earnings: %d\n", d.TotalEarnings)
	o.printf("Level:          %d (%s), %d more wins to level %d\n", d.Level, d.Tier, d.WinsToNextLevel, d.Level+1)
	if len(d.Recent) > 0 {
		o.printf("\nRecent activity:\n")
		o.printLedger(d.Recent)
	}
}

func (o *Output) printLedger(entries []response.LedgerEntry) {
	if len(entries) == 0 {
		o.printf("No ledger entries\n")
		return
	}
	for _, e := range entries {
		o.printf("  %s  %-14s %+6d  -> %d\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			strings.ReplaceAll(e.Kind, "_", " "),
			e.Amount,
			e.BalanceAfter,
		)
	}
}

func (o *Output) printRound(r response.Round) {
	o.printf("Round: %s\n", r.ID)
	switch r.State {
	case "won":
		o.printf("Result: won %d coins\n", r.Winnings)
	case "lost":
		o.printf("Result: lost, the opponent declared first\n")
	case "abandoned":
		o.printf("Result: abandoned\n")
	default:
		if r.Turn == "player" {
			o.printf("Turn %d: yours, %ds left\n", r.TurnNumber, r.SecondsLeft)
		} else {
			o.printf("Turn %d: opponent is thinking\n", r.TurnNumber)
		}
	}

	o.printf("Opponent: %d cards\n", r.OpponentHandSize)
	o.printf("Draw pile: %d cards\n", r.DrawPileSize)
	if r.TopDiscard != nil {
		o.printf("Discard: %s\n", r.TopDiscard.ID)
	} else {
		o.printf("Discard: empty\n")
	}

	ids := make([]string, len(r.Hand))
	for i, c := range r.Hand {
		ids[i] = c.ID
	}
	o.printf("Hand (%d): %s\n", len(r.Hand), strings.Join(ids, " "))
}

func (o *Output) printAdminOverview(a response.AdminOverview) {
	o.printf("Players:              %d\n", a.TotalPlayers)
	o.printf("Coins in circulation: %d\n", a.CoinsInCirculation)
	o.printf("Active rounds:        %d\n", a.ActiveRounds)
}

func (o *Output) printPlayerList(l response.PlayerList) {
	if len(l.Players) == 0 {
		o.printf("No players\n")
		return
	}
	for _, p := range l.Players {
		o.printf("%s  %-20s %-28s %7d coins  %d/%d  %s\n",
			p.ID, p.Name, p.Email, p.Coins, p.GamesWon, p.GamesPlayed, winRate(p.WinRate))
	}
}

func winRate(rate *int) string {
	if rate == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", *rate)
}
