package handler

import (
	"net/http"

	"github.com/mcoot/pointsrummy/internal/api/middleware"
	"github.com/mcoot/pointsrummy/internal/api/request"
	"github.com/mcoot/pointsrummy/internal/api/response"
	"github.com/mcoot/pointsrummy/internal/dependencies/clock"
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/round"
)

// RoundHandler handles the player's current round
type RoundHandler struct {
	roundController *round.Controller
	clock           clock.Clock
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(roundController *round.Controller, clock clock.Clock) *RoundHandler {
	return &RoundHandler{
		roundController: roundController,
		clock:           clock,
	}
}

// Start handles POST /api/v1/rounds
func (h *RoundHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	rnd, err := h.roundController.Start(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.write(w, http.StatusCreated, rnd)
}

// Get handles GET /api/v1/rounds/current
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	rnd, err := h.roundController.Get(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.write(w, http.StatusOK, rnd)
}

// Draw handles POST /api/v1/rounds/current/draw
func (h *RoundHandler) Draw(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	rnd, err := h.roundController.Draw(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.write(w, http.StatusOK, rnd)
}

// Discard handles POST /api/v1/rounds/current/discard
func (h *RoundHandler) Discard(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.DiscardRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	rnd, err := h.roundController.Discard(r.Context(), user.ID, req.CardID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.write(w, http.StatusOK, rnd)
}

// EndTurn handles POST /api/v1/rounds/current/end-turn
func (h *RoundHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	rnd, err := h.roundController.EndTurn(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.write(w, http.StatusOK, rnd)
}

// Abandon handles DELETE /api/v1/rounds/current
func (h *RoundHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	if err := h.roundController.Abandon(r.Context(), user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *RoundHandler) write(w http.ResponseWriter, status int, rnd *model.Round) {
	response.JSON(w, status, response.RoundFromModel(rnd, h.clock.Now()))
}
