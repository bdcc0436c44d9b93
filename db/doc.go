// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Portability

The same DDL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

  - ids are TEXT primary keys generated in the application
  - flags are INTEGER 0/1 (database/sql converts them to Go bools)
  - dates are ISO-8601 TEXT, which compares correctly in both engines

There are no ON DELETE clauses; deleting an entity cleans up its dependents
explicitly inside a transaction in the owning handler.

# Tables

Reference data (operator managed, no HTTP write surface):

  - sport, category, category_check, category_check_partial_limit
  - competition_level, competition_type, competition_result_type
  - area, organization, organization_area
  - record_level, record_level_level, record_level_type

Operational data:

  - athlete, event, competition
  - result, result_team_member, result_partial
  - record: record entries maintained by the records package

# Relationships

	competition 1──* result 1──* result_partial
	result *──* athlete (via result_team_member, team results)
	record *──1 result, record *──0..1 result_partial
	record_level *──* competition_level, *──* competition_type
	organization *──* area
*/
package db
