// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/votesecure/ballotbox/auth"
	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/core"
	"github.com/votesecure/ballotbox/db"
	"github.com/votesecure/ballotbox/middleware"
	"github.com/votesecure/ballotbox/models"
)

type VoterHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	ballots *core.BallotStore
}

func NewVoterHandler(conn *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: conn, cfg: cfg, ballots: core.NewBallotStore(conn)}
}

// Register handles POST /voters
// Registers a voter identity and returns the voter ID and bearer token.
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Name) < 2 || len(req.Name) > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 2-100 characters")
		return
	}

	token, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	// The voter-ID space is small; retry a few times on collision and
	// let the UNIQUE constraint arbitrate.
	const maxAttempts = 5
	var voterID string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		voterID, err = auth.GenerateVoterID()
		if err != nil {
			slog.Error("failed to generate voter ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
			return
		}

		_, err = h.db.Exec(`
			INSERT INTO voter (id, voter_id, name, voter_token, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), voterID, req.Name, token, time.Now())

		if err == nil {
			break
		}
		if db.IsUniqueViolation(err) && attempt < maxAttempts-1 {
			continue
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterID:    voterID,
		VoterToken: token,
	})
}

// GetMe handles GET /voters/me
// Returns the calling voter's profile.
func (h *VoterHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	voter, ok := resolveVoter(w, r, h.db)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voter)
}

// GetMyElections handles GET /voters/me/elections
// Returns the elections the calling voter has cast ballots in, from the
// authoritative ballot log.
func (h *VoterHandler) GetMyElections(w http.ResponseWriter, r *http.Request) {
	voter, ok := resolveVoter(w, r, h.db)
	if !ok {
		return
	}

	electionIDs, err := h.ballots.VotedElections(voter.ID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string][]string{
		"voted_elections": electionIDs,
	})
}
