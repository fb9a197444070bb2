// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the SQL schema and driver selection.

The server runs against PostgreSQL (github.com/lib/pq) in production and
SQLite (modernc.org/sqlite) for local development and tests. The schema is
written in the dialect subset both accept, and every query in the
repository keeps its $N placeholders in ascending textual order so the
same statement text works under both drivers.

The schema anchors the vote-integrity invariants in the storage layer
itself:

  - UNIQUE (election_id, voter_id) on ballot: at most one ballot per
    voter per election, enforced atomically at insert time.
  - UNIQUE (election_id, name) on candidate: no duplicate candidate
    names within an election.
  - UNIQUE voter_id on voter: roster keys are globally unique.

IsUniqueViolation normalizes the two drivers' constraint errors so
callers can translate a lost race into a typed business error.
*/
package db
