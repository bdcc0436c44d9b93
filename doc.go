// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the recordbook API server.

Recordbook is a sport results backend for a national federation: athletes,
organizations, competitions and results, with automatic detection and
lifecycle management of records. Every saved result is checked against the
configured record levels and categories, and record candidates surface
immediately for officials to approve.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=recordbook.db ADMIN_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3318 -t postgres -d "postgres://..." -admin-salt "..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - RECORD_SAME_VALUE (-record-same-value): Tie-break policy for records
*/
package main
