// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Components

  - WithLogging: request start/completion logging via slog
  - WithRateLimit: per-IP token bucket (golang.org/x/time/rate), applied
    to the ballot endpoint
  - CORS: cross-origin headers and preflight handling
  - JSONResponse / ErrorResponse: JSON writers; errors always carry a
    specific, user-safe message
  - ParseJSONBody: request body decoding
  - GetClientIP: X-Forwarded-For / X-Real-IP / RemoteAddr resolution
*/
package middleware
