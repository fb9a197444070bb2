// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/votesecure/ballotbox/models"
)

// TallyReader derives result views by recounting the ballot log. The
// denormalized candidate counters are never trusted for official
// results; when a recount disagrees with a cached counter, the cache is
// repaired opportunistically.
type TallyReader struct {
	db       *sql.DB
	registry *ElectionRegistry
}

func NewTallyReader(conn *sql.DB) *TallyReader {
	return &TallyReader{db: conn, registry: NewElectionRegistry(conn)}
}

// ResultsFor tallies one election from the ballot store: per-candidate
// counts, total votes, and roster size. Whether results should be shown
// to a given caller before the election completes is the caller's
// policy, not this reader's.
func (t *TallyReader) ResultsFor(electionID string) (models.ElectionResults, error) {
	var out models.ElectionResults

	election, err := t.registry.GetElection(electionID)
	if err != nil {
		return out, err
	}
	out.ElectionID = election.ID
	out.Status = election.Status

	// Recount from ballots; vote_count rides along only to detect drift.
	rows, err := t.db.Query(`
		SELECT c.id, c.name, c.vote_count,
		       (SELECT COUNT(*) FROM ballot b WHERE b.candidate_id = c.id) AS counted
		FROM candidate c
		WHERE c.election_id = $1
		ORDER BY c.position
	`, electionID)
	if err != nil {
		return out, fmt.Errorf("failed to tally candidates: %w", err)
	}
	defer rows.Close()

	type drift struct {
		candidateID string
		counted     int
	}
	var drifted []drift

	out.Candidates = []models.CandidateResult{}
	for rows.Next() {
		var (
			res    models.CandidateResult
			cached int
		)
		if err := rows.Scan(&res.ID, &res.Name, &cached, &res.VoteCount); err != nil {
			return out, fmt.Errorf("failed to scan tally row: %w", err)
		}
		if cached != res.VoteCount {
			drifted = append(drifted, drift{candidateID: res.ID, counted: res.VoteCount})
		}
		out.TotalVotes += res.VoteCount
		out.Candidates = append(out.Candidates, res)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to read tally rows: %w", err)
	}

	out.EligibleVoterCount, err = t.registry.EligibleVoterCount(electionID)
	if err != nil {
		return out, err
	}

	// Heal drifted counters best-effort; the recount above is already
	// correct either way.
	for _, d := range drifted {
		slog.Warn("vote counter drift detected",
			"election_id", electionID,
			"candidate_id", d.candidateID,
			"counted", d.counted,
		)
		if _, err := t.db.Exec(`
			UPDATE candidate SET vote_count = $1 WHERE id = $2
		`, d.counted, d.candidateID); err != nil {
			slog.Error("failed to repair vote counter",
				"candidate_id", d.candidateID, "error", err)
		}
	}

	return out, nil
}
