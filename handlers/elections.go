// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/core"
	"github.com/votesecure/ballotbox/middleware"
	"github.com/votesecure/ballotbox/models"
)

type ElectionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	registry *core.ElectionRegistry
	ledger   *core.CandidateLedger
}

func NewElectionHandler(conn *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{
		db:       conn,
		cfg:      cfg,
		registry: core.NewElectionRegistry(conn),
		ledger:   core.NewCandidateLedger(conn),
	}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	createdBy := r.Header.Get("X-Admin-Name")
	if createdBy == "" {
		createdBy = "admin"
	}

	created, err := h.registry.CreateElection(req, createdBy)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("election created",
		"election_id", created.Election.ID,
		"title", created.Election.Title,
		"status", created.Election.Status,
		"candidates", len(created.Candidates),
	)

	middleware.JSONResponse(w, http.StatusCreated, created)
}

// ListElections handles GET /elections
// Public; optional ?status= filter.
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	var (
		elections []models.Election
		err       error
	)

	if status := r.URL.Query().Get("status"); status != "" {
		elections, err = h.registry.ListByStatus(status)
	} else {
		elections, err = h.registry.ListElections()
	}
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string][]models.Election{
		"elections": elections,
	})
}

// GetElection handles GET /elections/{id}
// Public; returns the election with its ordered candidate list.
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	election, err := h.registry.GetElection(electionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	candidates, err := h.ledger.ListForElection(electionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   election,
		Candidates: candidates,
	})
}

// SetStatus handles POST /elections/{id}/status
func (h *ElectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.registry.SetStatus(electionID, req.Status); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("election status updated", "election_id", electionID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status": req.Status,
	})
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	if err := h.registry.DeleteElection(electionID); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	w.WriteHeader(http.StatusNoContent)
}

// AddVoter handles POST /elections/{id}/voters
func (h *ElectionHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.AddEligibleVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	addedBy := r.Header.Get("X-Admin-Name")
	if addedBy == "" {
		addedBy = "admin"
	}

	added, err := h.registry.AddEligibleVoter(electionID, req.VoterID, addedBy)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK // already on the roster; no-op
	}

	middleware.JSONResponse(w, status, models.AddEligibleVoterResponse{Added: added})
}

// RemoveVoter handles DELETE /elections/{id}/voters/{voterID}
func (h *ElectionHandler) RemoveVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	voterID := r.PathValue("voterID")
	if electionID == "" || voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id and voter id are required")
		return
	}

	removed, err := h.registry.RemoveEligibleVoter(electionID, voterID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RemoveEligibleVoterResponse{Removed: removed})
}

// ListVoters handles GET /elections/{id}/voters
func (h *ElectionHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	roster, err := h.registry.ListEligibleVoters(electionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string][]models.EligibleVoter{
		"eligible_voters": roster,
	})
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidate, err := h.registry.AddCandidate(electionID, req.Name, req.Description)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidate.ID)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// RemoveCandidate handles DELETE /elections/{id}/candidates/{candidateID}
func (h *ElectionHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	electionID := r.PathValue("id")
	candidateID := r.PathValue("candidateID")
	if electionID == "" || candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id and candidate id are required")
		return
	}

	if err := h.registry.RemoveCandidate(electionID, candidateID); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("candidate removed", "election_id", electionID, "candidate_id", candidateID)

	w.WriteHeader(http.StatusNoContent)
}
