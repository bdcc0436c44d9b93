// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RecordSameValue: Tie-break policy for record checking (default: false)

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	-record-same-value Create records for tied result values
	-admin-salt        Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	RECORD_SAME_VALUE → -record-same-value
	ADMIN_KEY_SALT    → -admin-salt

CLI flags take precedence over environment variables.

# The Tie-Break Policy

RecordSameValue feeds the records package at evaluation time. With the
default strict policy a later result that only equals the standing value is
not a new record (same-day ties still co-exist). With the policy enabled,
equal values by different athletes or teams all register; only a repeat by
the same athlete or team is suppressed.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - DATABASE_TYPE, when set, must be sqlite or postgres
*/
package cliparse
