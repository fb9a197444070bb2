// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The SQL below sticks to the dialect both PostgreSQL and SQLite accept:
// CURRENT_TIMESTAMP defaults, TEXT keys, table-level UNIQUE constraints.
const schema = `
-- Voters (identity registry)
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    voter_token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voter_voter_id ON voter(voter_id);
CREATE INDEX IF NOT EXISTS idx_voter_token ON voter(voter_token);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'active', 'completed', 'cancelled')),
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Candidates (position preserves insertion order for display)
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    vote_count INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    UNIQUE (election_id, name)
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Eligibility roster
CREATE TABLE IF NOT EXISTS eligible_voter (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    added_by TEXT NOT NULL,
    PRIMARY KEY (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_eligible_voter_election_id ON eligible_voter(election_id);

-- Ballots: the authoritative vote log. No ON DELETE CASCADE here;
-- ballots are an immutable audit trail and block election deletion.
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id),
    voter_id TEXT NOT NULL REFERENCES voter(id),
    candidate_id TEXT NOT NULL REFERENCES candidate(id),
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT,
    UNIQUE (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_election_id ON ballot(election_id);
CREATE INDEX IF NOT EXISTS idx_ballot_candidate_id ON ballot(candidate_id);

-- Denormalized voted-elections set (fast-path duplicate check;
-- the ballot table is authoritative)
CREATE TABLE IF NOT EXISTS voter_election (
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (voter_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_voter_election_election ON voter_election(election_id);
`
