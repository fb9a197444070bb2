// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/votesecure/ballotbox/auth"
	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/core"
	"github.com/votesecure/ballotbox/middleware"
	"github.com/votesecure/ballotbox/models"
)

type VotingHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	engine *core.VotingEngine
}

func NewVotingHandler(conn *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: conn, cfg: cfg, engine: core.NewVotingEngine(conn)}
}

// CastVote handles POST /elections/{id}/ballots
// The single write path for ballots. Every rejection carries one
// specific reason; a duplicate is terminal and never retried.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	voter, ok := resolveVoter(w, r, h.db)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Audit columns only; never part of any integrity decision.
	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, h.cfg.IPHashSalt)
	userAgent := r.UserAgent()

	ballot, err := h.engine.CastVote(electionID, voter, req.CandidateID, &ipHash, &userAgent)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateVote) {
			slog.Info("duplicate vote rejected",
				"election_id", electionID, "voter_id", voter.VoterID)
		}
		writeCoreError(w, err)
		return
	}

	slog.Info("vote cast",
		"election_id", electionID,
		"ballot_id", ballot.ID,
		"candidate_id", ballot.CandidateID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballot.ID,
		CastAt:   ballot.CastAt,
	})
}

// GetMyBallot handles GET /elections/{id}/my-ballot
// Returns the calling voter's ballot in this election, if any.
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	voter, ok := resolveVoter(w, r, h.db)
	if !ok {
		return
	}

	ballot, err := h.engine.Ballots().GetForVoter(electionID, voter.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "No ballot cast in this election")
			return
		}
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// ListActive handles GET /elections/active
// Returns active elections; with a voter token, elections the caller
// has already voted in are filtered out (the voting dashboard view).
func (h *VotingHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	elections, err := h.engine.Registry().ListByStatus(models.StatusActive)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if token := r.Header.Get("X-Voter-Token"); token != "" {
		voter, ok := resolveVoter(w, r, h.db)
		if !ok {
			return
		}

		voted, err := h.engine.Ballots().VotedElections(voter.ID)
		if err != nil {
			writeCoreError(w, err)
			return
		}
		votedSet := make(map[string]bool, len(voted))
		for _, id := range voted {
			votedSet[id] = true
		}

		filtered := elections[:0]
		for _, e := range elections {
			if !votedSet[e.ID] {
				filtered = append(filtered, e)
			}
		}
		elections = filtered
	}

	middleware.JSONResponse(w, http.StatusOK, map[string][]models.Election{
		"elections": elections,
	})
}
