// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the small set of credential primitives the portal
needs: voter bearer tokens, roster voter IDs, admin key validation, and
salted IP hashing for the ballot audit columns.

Credential storage, OAuth, and token refresh live outside this server;
the only identity fact the voting core consumes is "this request carries
a token that resolves to a registered voter".

# Voter Tokens

192-bit random values, URL-safe base64 without padding. Presented in the
X-Voter-Token header.

# Voter IDs

Human-readable roster keys of the form VOT######. Global uniqueness is
the voter table's UNIQUE constraint, not the generator's job; the
registration handler retries on collision.

# Admin Key

A single static API key compared in constant time (hmac.Equal) to avoid
timing side channels.
*/
package auth
