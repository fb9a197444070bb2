// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package core implements the vote-integrity core of the portal: the
invariants and concurrency-safe operations that guarantee a voter casts
at most one ballot per election, only while on the roster, only while the
election is active, and that tallies reflect exactly the accepted
ballots.

# Components

  - ElectionRegistry: election records, status transitions, the
    eligibility roster, and the candidate set.
  - CandidateLedger: ordered candidate listings and the denormalized
    per-candidate vote counter.
  - BallotStore: the append-only ballot log; sole owner of the
    one-vote-per-voter-per-election constraint.
  - VotingEngine: the cast-vote state machine; advisory gate checks
    followed by one atomic commit.
  - TallyReader: result views recomputed from the ballot log.

# Concurrency Contract

Pre-commit checks are advisory and may race. Correctness rests on the
ballot table's UNIQUE (election_id, voter_id) constraint: of two
concurrent casts for the same (election, voter), exactly one insert
succeeds inside its transaction and the loser surfaces
ErrDuplicateVote. The counter increment and the voter's voted-set append
ride in the same transaction, so a counter can never record a ballot
that was not stored. The TallyReader recounts from ballots regardless,
healing any drift the cache picks up.

# Error Taxonomy

All rejections are typed sentinels (see errors.go) checked with
errors.Is. Storage connectivity failures are not translated; they
propagate wrapped for the caller to treat as infrastructure errors.
*/
package core
