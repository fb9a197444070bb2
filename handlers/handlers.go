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

// writeCoreError maps a core business-rule failure to a distinguishable
// HTTP response. Anything unrecognized is an infrastructure failure and
// stays generic: storage detail never reaches the client.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, core.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, core.ErrElectionNotActive):
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not active")
	case errors.Is(err, core.ErrNotEligible):
		middleware.ErrorResponse(w, http.StatusForbidden, "You are not eligible to vote in this election")
	case errors.Is(err, core.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
	case errors.Is(err, core.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate does not belong to this election")
	case errors.Is(err, core.ErrCandidateHasBallots):
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate has recorded ballots and cannot be removed")
	case errors.Is(err, core.ErrElectionHasBallots):
		middleware.ErrorResponse(w, http.StatusConflict, "Election has recorded ballots and cannot be deleted")
	case errors.Is(err, core.ErrIntegrityConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Conflicting write, please refresh")
	default:
		slog.Error("internal error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// userMessage strips nothing today; validation and not-found sentinels
// already carry user-safe text.
func userMessage(err error) string {
	return err.Error()
}

// requireAdmin validates the X-Admin-Key header. Returns false after
// writing the response when the key is missing or wrong.
func requireAdmin(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) bool {
	key := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(key, cfg.AdminAPIKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// resolveVoter looks up the voter identified by the X-Voter-Token
// header. Returns false after writing the response when the token is
// missing or does not resolve.
func resolveVoter(w http.ResponseWriter, r *http.Request, conn *sql.DB) (models.Voter, bool) {
	var voter models.Voter

	token := r.Header.Get("X-Voter-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return voter, false
	}

	err := conn.QueryRow(`
		SELECT id, voter_id, name, voter_token, created_at
		FROM voter
		WHERE voter_token = $1
	`, token).Scan(&voter.ID, &voter.VoterID, &voter.Name, &voter.Token, &voter.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return voter, false
	}
	if err != nil {
		slog.Error("failed to resolve voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return voter, false
	}
	return voter, true
}
