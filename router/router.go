// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/handlers"
	"github.com/votesecure/ballotbox/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("POST /elections/{id}/status", middleware.WithLogging(electionHandler.SetStatus))
	mux.HandleFunc("DELETE /elections/{id}", middleware.WithLogging(electionHandler.DeleteElection))
	mux.HandleFunc("POST /elections/{id}/voters", middleware.WithLogging(electionHandler.AddVoter))
	mux.HandleFunc("DELETE /elections/{id}/voters/{voterID}", middleware.WithLogging(electionHandler.RemoveVoter))
	mux.HandleFunc("GET /elections/{id}/voters", middleware.WithLogging(electionHandler.ListVoters))
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(electionHandler.AddCandidate))
	mux.HandleFunc("DELETE /elections/{id}/candidates/{candidateID}", middleware.WithLogging(electionHandler.RemoveCandidate))

	// Election browsing (public)
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/active", middleware.WithLogging(votingHandler.ListActive))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))

	// Voting operations (voter token; ballot casting is rate limited)
	mux.HandleFunc("POST /elections/{id}/ballots",
		middleware.WithLogging(middleware.WithRateLimit(votingHandler.CastVote, 5, 10)))
	mux.HandleFunc("GET /elections/{id}/my-ballot", middleware.WithLogging(votingHandler.GetMyBallot))

	// Results retrieval (withheld until completed)
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /elections/{id}/ballot-count", middleware.WithLogging(resultsHandler.GetBallotCount))

	// Voter identity
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("GET /voters/me", middleware.WithLogging(voterHandler.GetMe))
	mux.HandleFunc("GET /voters/me/elections", middleware.WithLogging(voterHandler.GetMyElections))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
