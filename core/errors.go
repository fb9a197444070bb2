// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import "errors"

// Business-rule failures. Every rejection a voter or admin can cause maps
// to exactly one of these, so the web layer can render a precise message
// without leaking storage detail.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an election, candidate, or voter ID that does
	// not resolve.
	ErrNotFound = errors.New("not found")

	// ErrElectionNotActive marks a vote against an election that is not
	// accepting ballots, either by status or by date window.
	ErrElectionNotActive = errors.New("election is not active")

	// ErrNotEligible marks a voter absent from the election's roster.
	ErrNotEligible = errors.New("voter is not eligible for this election")

	// ErrDuplicateVote marks a second ballot attempt by the same voter
	// in the same election. Terminal: retries must never succeed.
	ErrDuplicateVote = errors.New("voter has already voted in this election")

	// ErrInvalidCandidate marks a candidate that does not belong to the
	// target election.
	ErrInvalidCandidate = errors.New("candidate does not belong to this election")

	// ErrIntegrityConflict marks a storage-level uniqueness violation
	// observed at commit time even though the advisory pre-checks
	// passed; the race was lost.
	ErrIntegrityConflict = errors.New("integrity conflict at commit")

	// ErrCandidateHasBallots blocks removing a candidate that ballots
	// already reference.
	ErrCandidateHasBallots = errors.New("candidate has ballots and cannot be removed")

	// ErrElectionHasBallots blocks deleting an election that ballots
	// already reference.
	ErrElectionHasBallots = errors.New("election has ballots and cannot be deleted")
)
