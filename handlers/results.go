// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/votesecure/ballotbox/auth"
	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/core"
	"github.com/votesecure/ballotbox/middleware"
	"github.com/votesecure/ballotbox/models"
)

type ResultsHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	tally   *core.TallyReader
	ballots *core.BallotStore
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{
		db:      conn,
		cfg:     cfg,
		tally:   core.NewTallyReader(conn),
		ballots: core.NewBallotStore(conn),
	}
}

// GetResults handles GET /elections/{id}/results
// Results are withheld until the election completes; an admin key
// unlocks them early. Counts always come from a ballot-log recount.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	results, err := h.tally.ResultsFor(electionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if results.Status != models.StatusCompleted {
		isAdmin := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminAPIKey) == nil
		if !isAdmin {
			middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election is completed")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetBallotCount handles GET /elections/{id}/ballot-count
// The turnout number is public even while voting is open.
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	// Existence check keeps 404 semantics consistent with the rest of
	// the election surface.
	if _, err := core.NewElectionRegistry(h.db).GetElection(electionID); err != nil {
		writeCoreError(w, err)
		return
	}

	count, err := h.ballots.CountByElection(electionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotCountResponse{BallotCount: count})
}
