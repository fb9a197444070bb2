// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and HTTP request/response types
shared across the server.

# Domain Types

  - Election: a time-boxed contest with a candidate list and an
    eligibility roster. Status is one of upcoming, active, completed,
    cancelled.
  - Candidate: belongs to exactly one election; carries a denormalized
    vote_count that caches the ballot log.
  - Voter: a registered identity with a unique voter ID (the roster
    matching key) and a bearer token.
  - EligibleVoter: one roster entry {voterId, addedAt, addedBy}.
  - Ballot: the immutable record of one voter's choice in one election.
    The (election, voter) pair is unique.

# JSON Hygiene

Voter tokens, internal voter identities, IP hashes, and user agents are
tagged `json:"-"` so they can never leak through a response payload.
*/
package models
