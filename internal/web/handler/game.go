package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/pointsrummy/internal/api/apierr"
	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/round"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/sse"
	"github.com/mcoot/pointsrummy/internal/web/templates/components"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

// GameHandler handles the game table
type GameHandler struct {
	rounds     *round.Controller
	clock      clock.Clock
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(rounds *round.Controller, clock clock.Clock, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		rounds:     rounds,
		clock:      clock,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "web-game")),
	}
}

// View renders the game page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	board, err := h.board(r)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load the game table")
		return
	}

	render(w, r, http.StatusOK, pages.Game(pages.GameData{
		PageData: pageData(r, "Game"),
		Board:    board,
	}))
}

// Board renders just the board fragment for htmx refreshes
func (h *GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.board(r)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, components.Board(board))
}

// Start pays the entry fee and deals a new round
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if _, err := h.rounds.Start(r.Context(), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/game")
}

// Draw takes the top card of the draw pile
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if _, err := h.rounds.Draw(r.Context(), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/game")
}

// Discard throws away the chosen card
func (h *GameHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		redirect(w, r, "/game")
		return
	}

	user := middleware.GetUser(r.Context())
	round, err := h.rounds.Discard(r.Context(), user.ID, r.FormValue("card_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if round.State == model.RoundStateWon {
		middleware.SetFlash(w, "success", "Hand complete! You won the round.")
	}
	redirect(w, r, "/game")
}

// EndTurn passes the turn to the opponent
func (h *GameHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if _, err := h.rounds.EndTurn(r.Context(), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/game")
}

// Abandon leaves the table; the entry fee is forfeit
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := h.rounds.Abandon(r.Context(), user.ID); err != nil && !errors.Is(err, model.ErrRoundNotFound) {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/dashboard")
}

// Events streams the user's round events over SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	sse.ServeSSE(w, r, h.hubManager, user.ID)
}

func (h *GameHandler) board(r *http.Request) (components.BoardData, error) {
	user := middleware.GetUser(r.Context())
	cfg := h.rounds.Config()
	board := components.BoardData{
		EntryFee:  cfg.EntryFee,
		Winnings:  cfg.Winnings(),
		CanAfford: user.Coins >= cfg.EntryFee,
	}

	current, err := h.rounds.Get(r.Context(), user.ID)
	switch {
	case errors.Is(err, model.ErrRoundNotFound):
		return board, nil
	case err != nil:
		return board, err
	}

	board.Round = current
	board.SecondsLeft = current.SecondsLeft(h.clock.Now())
	return board, nil
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		h.logger.Error("game action failed", slog.String("error", err.Error()))
	}
	middleware.SetFlash(w, "error", apierr.Message(err))
	redirect(w, r, "/game")
}
