// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/votesecure/ballotbox/models"
)

// VotingEngine orchestrates the cast-vote operation: gated advisory
// checks against the registry, ledger, and ballot store, then one atomic
// commit guarded by the ballot table's uniqueness constraint.
type VotingEngine struct {
	db       *sql.DB
	registry *ElectionRegistry
	ledger   *CandidateLedger
	ballots  *BallotStore
}

func NewVotingEngine(conn *sql.DB) *VotingEngine {
	return &VotingEngine{
		db:       conn,
		registry: NewElectionRegistry(conn),
		ledger:   NewCandidateLedger(conn),
		ballots:  NewBallotStore(conn),
	}
}

// Registry exposes the engine's election registry.
func (e *VotingEngine) Registry() *ElectionRegistry { return e.registry }

// Ledger exposes the engine's candidate ledger.
func (e *VotingEngine) Ledger() *CandidateLedger { return e.ledger }

// Ballots exposes the engine's ballot store.
func (e *VotingEngine) Ballots() *BallotStore { return e.ballots }

// CastVote runs the gated sequence and commits the ballot.
//
// The pre-commit checks are advisory: two concurrent casts for the same
// (election, voter) can both pass them. The ballot insert inside the
// transaction is the arbiter; exactly one commit succeeds and the loser
// gets ErrDuplicateVote. Never retried: a duplicate vote must not
// succeed on a second attempt.
func (e *VotingEngine) CastVote(electionID string, voter models.Voter, candidateID string, ipHash, userAgent *string) (models.Ballot, error) {
	var ballot models.Ballot

	if candidateID == "" {
		return ballot, fmt.Errorf("%w: candidate ID is required", ErrValidation)
	}

	// 1. Resolve election.
	election, err := e.registry.GetElection(electionID)
	if err != nil {
		return ballot, err
	}

	// 2. Status gate, plus a defensive date-window re-check. An admin
	// can leave status active after the window closes; the window wins.
	if election.Status != models.StatusActive {
		return ballot, fmt.Errorf("%w: status is %s", ErrElectionNotActive, election.Status)
	}
	now := time.Now()
	if now.Before(election.StartDate) || now.After(election.EndDate) {
		return ballot, fmt.Errorf("%w: outside voting window", ErrElectionNotActive)
	}

	// 3. Eligibility.
	eligible, err := e.registry.IsVoterEligible(electionID, voter.VoterID)
	if err != nil {
		return ballot, err
	}
	if !eligible {
		return ballot, fmt.Errorf("%w: voter %s", ErrNotEligible, voter.VoterID)
	}

	// 4. Duplicate check: fast path against the denormalized voted-set,
	// then authoritative against the ballot log in case the cache lags.
	var cached bool
	err = e.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM voter_election
			WHERE voter_id = $1 AND election_id = $2
		)
	`, voter.ID, electionID).Scan(&cached)
	if err != nil {
		return ballot, fmt.Errorf("failed to check voted-set: %w", err)
	}
	if cached {
		return ballot, ErrDuplicateVote
	}
	voted, err := e.ballots.HasVoted(electionID, voter.ID)
	if err != nil {
		return ballot, err
	}
	if voted {
		return ballot, ErrDuplicateVote
	}

	// 5. Candidate must belong to this election.
	candidate, err := e.ledger.Get(candidateID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ballot, fmt.Errorf("%w: candidate %s", ErrInvalidCandidate, candidateID)
		}
		return ballot, err
	}
	if candidate.ElectionID != electionID {
		return ballot, fmt.Errorf("%w: candidate %s", ErrInvalidCandidate, candidateID)
	}

	// 6. Commit. Ballot insert, counter increment, and voted-set append
	// succeed together or not at all.
	ballot = models.Ballot{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		VoterID:     voter.ID,
		CandidateID: candidateID,
		CastAt:      now,
		IPHash:      ipHash,
		UserAgent:   userAgent,
	}

	tx, err := e.db.Begin()
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := e.ballots.Insert(tx, ballot); err != nil {
		if errors.Is(err, ErrIntegrityConflict) {
			// Lost the race against a concurrent identical request.
			return models.Ballot{}, fmt.Errorf("%w (%v)", ErrDuplicateVote, err)
		}
		return models.Ballot{}, err
	}

	if err := e.ledger.IncrementVote(tx, candidateID); err != nil {
		return models.Ballot{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO voter_election (voter_id, election_id, voted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (voter_id, election_id) DO NOTHING
	`, voter.ID, electionID, now)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to update voted-set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return ballot, nil
}
