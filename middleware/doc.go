// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

WithLogging wraps handlers with structured slog request/completion logging.
Every request gets a uuid request id so the start and completion lines can
be correlated:

	mux.HandleFunc("POST /results", middleware.WithLogging(h.CreateResult))

# JSON Helpers

  - JSONResponse: write a JSON body with a status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a request body

# CORS

CORS wraps the whole mux for browser clients and answers OPTIONS preflight
requests. The allowed headers include X-Actor and X-Admin-Key, which carry
the acting-user identity for the write path.

# Client IP

GetClientIP resolves the caller address through X-Forwarded-For, X-Real-IP
and RemoteAddr, in that order. Used for the request log only.
*/
package middleware
