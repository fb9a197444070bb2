// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox is an online voting portal backend: administrators create
elections with candidates and an eligible-voter roster, registered
voters cast at most one ballot per election, and results are tallied
from the authoritative ballot log.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	DATABASE_URL=postgres://... ADMIN_API_KEY=... IP_HASH_SALT=... go run main.go

Or with flags:

	go run main.go -p 4172 -t sqlite -d ballotbox.db --admin-key ... --ip-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite path
  - ADMIN_API_KEY (--admin-key): bearer key for admin operations
  - IP_HASH_SALT (--ip-salt): secret for ballot IP hashing

Optional settings:

  - PORT (-p): Server port (default: 4172)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - core: the vote-integrity components (election registry, candidate
    ledger, ballot store, voting engine, tally reader)
  - handlers: HTTP request handlers (elections, voting, results, voters)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Domain and request/response types
  - auth: Token generation and validation
  - db: Schema creation and driver selection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
