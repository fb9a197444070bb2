// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/votesecure/ballotbox/db"
	"github.com/votesecure/ballotbox/models"
)

// ElectionRegistry owns election records: status, time window, candidate
// list, and the eligibility roster.
type ElectionRegistry struct {
	db *sql.DB
}

func NewElectionRegistry(conn *sql.DB) *ElectionRegistry {
	return &ElectionRegistry{db: conn}
}

// ClassifyStatus suggests an initial status from the date window. Used
// only at creation time; afterwards status changes exclusively through
// SetStatus.
func ClassifyStatus(now, start, end time.Time) string {
	switch {
	case now.After(end):
		return models.StatusCompleted
	case !now.Before(start):
		return models.StatusActive
	default:
		return models.StatusUpcoming
	}
}

// CreateElection validates the request, resolves every roster entry
// against the voter registry, and creates the election together with its
// candidates and roster in one transaction. The election and its
// candidates can never exist half-linked.
func (reg *ElectionRegistry) CreateElection(req models.CreateElectionRequest, createdBy string) (models.ElectionWithCandidates, error) {
	var out models.ElectionWithCandidates

	if strings.TrimSpace(req.Title) == "" {
		return out, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return out, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if createdBy == "" {
		return out, fmt.Errorf("%w: creator is required", ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return out, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if !req.EndDate.After(req.StartDate) {
		return out, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	if len(req.Candidates) == 0 {
		return out, fmt.Errorf("%w: at least one candidate is required", ErrValidation)
	}
	for _, c := range req.Candidates {
		if strings.TrimSpace(c.Name) == "" {
			return out, fmt.Errorf("%w: candidate name is required", ErrValidation)
		}
	}

	// Every roster entry must resolve to a registered voter.
	roster := make([]string, 0, len(req.EligibleVoters))
	seen := make(map[string]bool)
	for _, raw := range req.EligibleVoters {
		voterID := strings.TrimSpace(raw)
		if voterID == "" {
			return out, fmt.Errorf("%w: empty voter ID in roster", ErrValidation)
		}
		if seen[voterID] {
			continue
		}
		seen[voterID] = true

		var exists bool
		err := reg.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM voter WHERE voter_id = $1)
		`, voterID).Scan(&exists)
		if err != nil {
			return out, fmt.Errorf("failed to resolve voter: %w", err)
		}
		if !exists {
			return out, fmt.Errorf("%w: unknown voter ID %s", ErrValidation, voterID)
		}
		roster = append(roster, voterID)
	}

	now := time.Now()
	election := models.Election{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      ClassifyStatus(now, req.StartDate, req.EndDate),
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}

	tx, err := reg.db.Begin()
	if err != nil {
		return out, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, election.ID, election.Title, election.Description, election.StartDate,
		election.EndDate, election.Status, election.CreatedBy, election.CreatedAt)
	if err != nil {
		return out, fmt.Errorf("failed to insert election: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(req.Candidates))
	for i, spec := range req.Candidates {
		cand := models.Candidate{
			ID:          uuid.NewString(),
			ElectionID:  election.ID,
			Name:        strings.TrimSpace(spec.Name),
			Description: spec.Description,
			Position:    i,
		}
		_, err = tx.Exec(`
			INSERT INTO candidate (id, election_id, name, description, vote_count, position)
			VALUES ($1, $2, $3, $4, 0, $5)
		`, cand.ID, cand.ElectionID, cand.Name, cand.Description, cand.Position)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return out, fmt.Errorf("%w: duplicate candidate name %q", ErrValidation, cand.Name)
			}
			return out, fmt.Errorf("failed to insert candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}

	for _, voterID := range roster {
		_, err = tx.Exec(`
			INSERT INTO eligible_voter (election_id, voter_id, added_at, added_by)
			VALUES ($1, $2, $3, $4)
		`, election.ID, voterID, now, createdBy)
		if err != nil {
			return out, fmt.Errorf("failed to insert roster entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return out, fmt.Errorf("failed to commit election: %w", err)
	}

	out.Election = election
	out.Candidates = candidates
	return out, nil
}

// GetElection fetches one election by ID.
func (reg *ElectionRegistry) GetElection(electionID string) (models.Election, error) {
	var e models.Election
	err := reg.db.QueryRow(`
		SELECT id, title, description, start_date, end_date, status, created_by, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate,
		&e.EndDate, &e.Status, &e.CreatedBy, &e.CreatedAt)

	if err == sql.ErrNoRows {
		return e, fmt.Errorf("%w: election %s", ErrNotFound, electionID)
	}
	if err != nil {
		return e, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// ListElections returns all elections, newest first.
func (reg *ElectionRegistry) ListElections() ([]models.Election, error) {
	return reg.listElections(`
		SELECT id, title, description, start_date, end_date, status, created_by, created_at
		FROM election
		ORDER BY created_at DESC
	`)
}

// ListByStatus returns elections with the given status, newest first.
func (reg *ElectionRegistry) ListByStatus(status string) ([]models.Election, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return reg.listElections(`
		SELECT id, title, description, start_date, end_date, status, created_by, created_at
		FROM election
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
}

func (reg *ElectionRegistry) listElections(query string, args ...interface{}) ([]models.Election, error) {
	rows, err := reg.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate,
			&e.EndDate, &e.Status, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// SetStatus applies an explicit admin status transition. No date
// validation: the override is intentionally permissive, and the voting
// engine re-checks the window on every cast anyway.
func (reg *ElectionRegistry) SetStatus(electionID, newStatus string) error {
	if !models.ValidStatus(newStatus) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	res, err := reg.db.Exec(`
		UPDATE election SET status = $1 WHERE id = $2
	`, newStatus, electionID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: election %s", ErrNotFound, electionID)
	}
	return nil
}

// DeleteElection removes an election and, via cascade, its candidates
// and roster. Blocked while any ballot references the election: the
// ballot log is an immutable audit trail.
func (reg *ElectionRegistry) DeleteElection(electionID string) error {
	if _, err := reg.GetElection(electionID); err != nil {
		return err
	}

	var ballots int
	err := reg.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, electionID).Scan(&ballots)
	if err != nil {
		return fmt.Errorf("failed to count ballots: %w", err)
	}
	if ballots > 0 {
		return fmt.Errorf("%w: %d ballots recorded", ErrElectionHasBallots, ballots)
	}

	_, err = reg.db.Exec(`DELETE FROM election WHERE id = $1`, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	return nil
}

// AddEligibleVoter appends a roster entry. The voter ID must resolve to
// a registered voter. Returns false without error when the voter is
// already on the roster.
func (reg *ElectionRegistry) AddEligibleVoter(electionID, voterID, addedBy string) (bool, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return false, fmt.Errorf("%w: voter ID is required", ErrValidation)
	}
	if _, err := reg.GetElection(electionID); err != nil {
		return false, err
	}

	var exists bool
	err := reg.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE voter_id = $1)
	`, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to resolve voter: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: voter %s is not registered", ErrNotFound, voterID)
	}

	_, err = reg.db.Exec(`
		INSERT INTO eligible_voter (election_id, voter_id, added_at, added_by)
		VALUES ($1, $2, $3, $4)
	`, electionID, voterID, time.Now(), addedBy)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add roster entry: %w", err)
	}
	return true, nil
}

// RemoveEligibleVoter drops a roster entry. Returns false without error
// when the voter was not on the roster. Ballots already cast are not
// affected; eligibility gates future casts only.
func (reg *ElectionRegistry) RemoveEligibleVoter(electionID, voterID string) (bool, error) {
	if _, err := reg.GetElection(electionID); err != nil {
		return false, err
	}

	res, err := reg.db.Exec(`
		DELETE FROM eligible_voter WHERE election_id = $1 AND voter_id = $2
	`, electionID, strings.TrimSpace(voterID))
	if err != nil {
		return false, fmt.Errorf("failed to remove roster entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// IsVoterEligible reports whether voterID is on the election's roster.
// Exact string match after trimming whitespace.
func (reg *ElectionRegistry) IsVoterEligible(electionID, voterID string) (bool, error) {
	var exists bool
	err := reg.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM eligible_voter
			WHERE election_id = $1 AND voter_id = $2
		)
	`, electionID, strings.TrimSpace(voterID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check eligibility: %w", err)
	}
	return exists, nil
}

// ListEligibleVoters returns the roster in insertion order.
func (reg *ElectionRegistry) ListEligibleVoters(electionID string) ([]models.EligibleVoter, error) {
	if _, err := reg.GetElection(electionID); err != nil {
		return nil, err
	}

	rows, err := reg.db.Query(`
		SELECT election_id, voter_id, added_at, added_by
		FROM eligible_voter
		WHERE election_id = $1
		ORDER BY added_at, voter_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	roster := []models.EligibleVoter{}
	for rows.Next() {
		var ev models.EligibleVoter
		if err := rows.Scan(&ev.ElectionID, &ev.VoterID, &ev.AddedAt, &ev.AddedBy); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster = append(roster, ev)
	}
	return roster, rows.Err()
}

// EligibleVoterCount returns the roster size.
func (reg *ElectionRegistry) EligibleVoterCount(electionID string) (int, error) {
	var count int
	err := reg.db.QueryRow(`
		SELECT COUNT(*) FROM eligible_voter WHERE election_id = $1
	`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count roster: %w", err)
	}
	return count, nil
}

// AddCandidate appends a candidate to the election's ordered set.
func (reg *ElectionRegistry) AddCandidate(electionID, name, description string) (models.Candidate, error) {
	var cand models.Candidate

	name = strings.TrimSpace(name)
	if name == "" {
		return cand, fmt.Errorf("%w: candidate name is required", ErrValidation)
	}
	if _, err := reg.GetElection(electionID); err != nil {
		return cand, err
	}

	var maxPos sql.NullInt64
	err := reg.db.QueryRow(`
		SELECT MAX(position) FROM candidate WHERE election_id = $1
	`, electionID).Scan(&maxPos)
	if err != nil {
		return cand, fmt.Errorf("failed to query candidate positions: %w", err)
	}

	cand = models.Candidate{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		Name:        name,
		Description: description,
		Position:    int(maxPos.Int64) + 1,
	}

	_, err = reg.db.Exec(`
		INSERT INTO candidate (id, election_id, name, description, vote_count, position)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, cand.ID, cand.ElectionID, cand.Name, cand.Description, cand.Position)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Candidate{}, fmt.Errorf("%w: duplicate candidate name %q", ErrValidation, name)
		}
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return cand, nil
}

// RemoveCandidate drops a candidate from the election. Rejected once any
// ballot references the candidate; the vote log never loses entries.
func (reg *ElectionRegistry) RemoveCandidate(electionID, candidateID string) error {
	var owner string
	err := reg.db.QueryRow(`
		SELECT election_id FROM candidate WHERE id = $1
	`, candidateID).Scan(&owner)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
	}
	if err != nil {
		return fmt.Errorf("failed to query candidate: %w", err)
	}
	if owner != electionID {
		return fmt.Errorf("%w: candidate %s", ErrInvalidCandidate, candidateID)
	}

	var ballots int
	err = reg.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE candidate_id = $1
	`, candidateID).Scan(&ballots)
	if err != nil {
		return fmt.Errorf("failed to count ballots: %w", err)
	}
	if ballots > 0 {
		return fmt.Errorf("%w: %d ballots recorded", ErrCandidateHasBallots, ballots)
	}

	_, err = reg.db.Exec(`DELETE FROM candidate WHERE id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}
