// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"database/sql"
	"fmt"

	"github.com/votesecure/ballotbox/db"
	"github.com/votesecure/ballotbox/models"
)

// BallotStore is the append-only log of cast ballots and the single
// source of truth for who voted in what, for whom, when. Ballots are
// never updated or deleted.
type BallotStore struct {
	db *sql.DB
}

func NewBallotStore(conn *sql.DB) *BallotStore {
	return &BallotStore{db: conn}
}

// Insert appends a ballot inside the caller's transaction. The table's
// UNIQUE (election_id, voter_id) constraint is the arbiter for
// concurrent casts: the loser of the race gets ErrIntegrityConflict
// here, which the engine surfaces as a terminal duplicate-vote
// rejection.
func (s *BallotStore) Insert(tx *sql.Tx, b models.Ballot) error {
	_, err := tx.Exec(`
		INSERT INTO ballot (id, election_id, voter_id, candidate_id, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.ElectionID, b.VoterID, b.CandidateID, b.CastAt, b.IPHash, b.UserAgent)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: ballot for election %s", ErrIntegrityConflict, b.ElectionID)
		}
		return fmt.Errorf("failed to insert ballot: %w", err)
	}
	return nil
}

// HasVoted reports whether the voter (internal identity) has a recorded
// ballot in the election. Authoritative, unlike the voter_election
// fast-path cache.
func (s *BallotStore) HasVoted(electionID, voterID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM ballot
			WHERE election_id = $1 AND voter_id = $2
		)
	`, electionID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for ballot: %w", err)
	}
	return exists, nil
}

// GetForVoter fetches the voter's ballot in an election.
func (s *BallotStore) GetForVoter(electionID, voterID string) (models.Ballot, error) {
	var b models.Ballot
	err := s.db.QueryRow(`
		SELECT id, election_id, voter_id, candidate_id, cast_at, ip_hash, user_agent
		FROM ballot
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(&b.ID, &b.ElectionID, &b.VoterID,
		&b.CandidateID, &b.CastAt, &b.IPHash, &b.UserAgent)

	if err == sql.ErrNoRows {
		return b, fmt.Errorf("%w: ballot", ErrNotFound)
	}
	if err != nil {
		return b, fmt.Errorf("failed to query ballot: %w", err)
	}
	return b, nil
}

// CountByCandidate counts stored ballots for one candidate.
func (s *BallotStore) CountByCandidate(electionID, candidateID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM ballot
		WHERE election_id = $1 AND candidate_id = $2
	`, electionID, candidateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// CountByElection counts all stored ballots in an election.
func (s *BallotStore) CountByElection(electionID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// VotedElections lists the election IDs the voter has ballots in,
// oldest first.
func (s *BallotStore) VotedElections(voterID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT election_id FROM ballot
		WHERE voter_id = $1
		ORDER BY cast_at
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voted elections: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan election ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
