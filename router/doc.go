// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table using Go 1.22+ method and
path patterns.

# Route Groups

  - Admin (X-Admin-Key): election create/status/delete, roster edits,
    candidate edits, roster listing
  - Public: election browsing, results (sealed until completed),
    ballot counts, health
  - Voter (X-Voter-Token): registration, profile, ballot casting,
    my-ballot, active-election dashboard

Ballot casting additionally sits behind a per-IP rate limiter.
*/
package router
