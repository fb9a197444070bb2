// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface over the voting core.

# Organization

  - elections.go: admin lifecycle operations (create, status, delete,
    roster edits, candidate edits), guarded by the X-Admin-Key header
  - voters.go: voter identity registration and profile
  - voting.go: ballot casting and the voter dashboard
  - results.go: tallies and turnout
  - handlers.go: shared helpers (core error mapping, admin check, voter
    resolution)

# Error Mapping

Core business-rule errors map 1:1 to HTTP statuses so every rejection is
distinguishable to the client: validation 400, unknown IDs 404,
inactive election / duplicate vote / blocked deletions 409, ineligible
voter and withheld results 403. Infrastructure failures stay generic
500s with no storage detail in the body.
*/
package handlers
