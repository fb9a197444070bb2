// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"database/sql"
	"fmt"

	"github.com/votesecure/ballotbox/models"
)

// CandidateLedger owns candidate records and their denormalized vote
// counters. The counters cache the ballot log; the TallyReader recounts
// from ballots when producing official results.
type CandidateLedger struct {
	db *sql.DB
}

func NewCandidateLedger(conn *sql.DB) *CandidateLedger {
	return &CandidateLedger{db: conn}
}

// ListForElection returns the election's candidates in insertion order.
func (l *CandidateLedger) ListForElection(electionID string) ([]models.Candidate, error) {
	rows, err := l.db.Query(`
		SELECT id, election_id, name, description, vote_count, position
		FROM candidate
		WHERE election_id = $1
		ORDER BY position
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Description,
			&c.VoteCount, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// Get fetches one candidate by ID.
func (l *CandidateLedger) Get(candidateID string) (models.Candidate, error) {
	var c models.Candidate
	err := l.db.QueryRow(`
		SELECT id, election_id, name, description, vote_count, position
		FROM candidate
		WHERE id = $1
	`, candidateID).Scan(&c.ID, &c.ElectionID, &c.Name, &c.Description,
		&c.VoteCount, &c.Position)

	if err == sql.ErrNoRows {
		return c, fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// IncrementVote bumps the candidate's counter inside the caller's
// transaction. Must run in the same transaction as the ballot insert so
// the counter is applied exactly once per accepted ballot.
func (l *CandidateLedger) IncrementVote(tx *sql.Tx, candidateID string) error {
	res, err := tx.Exec(`
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		return fmt.Errorf("failed to increment vote counter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
	}
	return nil
}
