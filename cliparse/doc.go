// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Precedence

CLI flags win over environment variables; defaults apply last.

# Settings

Required:

  - DATABASE_URL (-d): connection string (Postgres URL or SQLite path)
  - ADMIN_API_KEY (--admin-key): bearer key for admin operations
  - IP_HASH_SALT (--ip-salt): secret for ballot IP hashing

Optional:

  - PORT (-p): server port (default: 4172)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

Secrets should come from the environment in production; the flags exist
for local development.
*/
package cliparse
