// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the four election statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Request types

type CandidateSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateElectionRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Candidates     []CandidateSpec `json:"candidates"`
	EligibleVoters []string        `json:"eligible_voters"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AddEligibleVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type AddCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RegisterVoterRequest struct {
	Name string `json:"name"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type RegisterVoterResponse struct {
	VoterID    string `json:"voter_id"`
	VoterToken string `json:"voter_token"`
}

type CastVoteResponse struct {
	BallotID string    `json:"ballot_id"`
	CastAt   time.Time `json:"cast_at"`
}

type AddEligibleVoterResponse struct {
	Added bool `json:"added"`
}

type RemoveEligibleVoterResponse struct {
	Removed bool `json:"removed"`
}

type BallotCountResponse struct {
	BallotCount int `json:"ballot_count"`
}

// Domain types

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type Candidate struct {
	ID          string `json:"id"`
	ElectionID  string `json:"election_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
	Position    int    `json:"position"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

type Voter struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	Name      string    `json:"name"`
	Token     string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

type EligibleVoter struct {
	ElectionID string    `json:"election_id"`
	VoterID    string    `json:"voter_id"`
	AddedAt    time.Time `json:"added_at"`
	AddedBy    string    `json:"added_by"`
}

type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterID     string    `json:"-"` // Internal voter identity; never expose in JSON
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// Tally types

type CandidateResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	VoteCount int    `json:"vote_count"`
}

type ElectionResults struct {
	ElectionID         string            `json:"election_id"`
	Status             string            `json:"status"`
	Candidates         []CandidateResult `json:"candidates"`
	TotalVotes         int               `json:"total_votes"`
	EligibleVoterCount int               `json:"eligible_voter_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
