// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is portable between PostgreSQL and SQLite: TEXT ids generated in
// the application, INTEGER 0/1 flags, ISO-8601 TEXT dates. Referential
// cleanup happens explicitly in the handlers, not with ON DELETE clauses,
// so the behavior stays auditable and identical on both engines.
const schema = `
-- Reference data

CREATE TABLE IF NOT EXISTS sport (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    abbreviation TEXT NOT NULL,
    ordering INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    sport_id TEXT REFERENCES sport(id),
    min_age INTEGER,
    max_age INTEGER,
    age_exact INTEGER NOT NULL DEFAULT 0,
    gender TEXT NOT NULL DEFAULT '',
    team INTEGER NOT NULL DEFAULT 0,
    team_size INTEGER,
    ordering INTEGER NOT NULL DEFAULT 0,
    historical INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_category_sport ON category(sport_id);

CREATE TABLE IF NOT EXISTS competition_level (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL UNIQUE,
    area_competition INTEGER NOT NULL DEFAULT 0,
    require_approval INTEGER NOT NULL DEFAULT 0,
    historical INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS competition_type (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    sport_id TEXT REFERENCES sport(id),
    max_result NUMERIC,
    min_result NUMERIC
);

CREATE TABLE IF NOT EXISTS competition_result_type (
    id TEXT PRIMARY KEY,
    competition_type_id TEXT NOT NULL REFERENCES competition_type(id),
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    max_result NUMERIC,
    min_result NUMERIC,
    records INTEGER NOT NULL DEFAULT 1
);

-- Per (competition type, category) record-checking overrides. Rows sharing
-- (type_id, record_group) are the interchangeable category set for records.
CREATE TABLE IF NOT EXISTS category_check (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES category(id),
    type_id TEXT NOT NULL REFERENCES competition_type(id),
    max_result NUMERIC,
    min_result NUMERIC,
    disallow INTEGER NOT NULL DEFAULT 0,
    check_record INTEGER NOT NULL DEFAULT 1,
    check_record_partial INTEGER NOT NULL DEFAULT 1,
    record_group INTEGER,
    UNIQUE (type_id, category_id)
);

CREATE INDEX IF NOT EXISTS idx_category_check_group ON category_check(type_id, record_group);

CREATE TABLE IF NOT EXISTS category_check_partial_limit (
    check_id TEXT NOT NULL REFERENCES category_check(id),
    result_type_id TEXT NOT NULL REFERENCES competition_result_type(id),
    PRIMARY KEY (check_id, result_type_id)
);

-- Organizations and people

CREATE TABLE IF NOT EXISTS area (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    abbreviation TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS organization (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    abbreviation TEXT NOT NULL,
    external INTEGER NOT NULL DEFAULT 0,
    historical INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS organization_area (
    organization_id TEXT NOT NULL REFERENCES organization(id),
    area_id TEXT NOT NULL REFERENCES area(id),
    PRIMARY KEY (organization_id, area_id)
);

CREATE TABLE IF NOT EXISTS athlete (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    license_id TEXT UNIQUE,
    date_of_birth TEXT,
    gender TEXT NOT NULL DEFAULT '',
    organization_id TEXT REFERENCES organization(id)
);

CREATE INDEX IF NOT EXISTS idx_athlete_organization ON athlete(organization_id);

-- Competitions

CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date_start TEXT NOT NULL,
    date_end TEXT NOT NULL,
    organization_id TEXT REFERENCES organization(id),
    approved INTEGER NOT NULL DEFAULT 0,
    locked INTEGER NOT NULL DEFAULT 0,
    public INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS competition (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    date_start TEXT NOT NULL,
    date_end TEXT NOT NULL,
    event_id TEXT REFERENCES event(id),
    organization_id TEXT REFERENCES organization(id),
    type_id TEXT NOT NULL REFERENCES competition_type(id),
    level_id TEXT NOT NULL REFERENCES competition_level(id),
    approved INTEGER NOT NULL DEFAULT 0,
    locked INTEGER NOT NULL DEFAULT 0,
    public INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_competition_event ON competition(event_id);
CREATE INDEX IF NOT EXISTS idx_competition_type ON competition(type_id);

-- Results

CREATE TABLE IF NOT EXISTS result (
    id TEXT PRIMARY KEY,
    competition_id TEXT NOT NULL REFERENCES competition(id),
    athlete_id TEXT REFERENCES athlete(id),
    organization_id TEXT REFERENCES organization(id),
    category_id TEXT NOT NULL REFERENCES category(id),
    result NUMERIC,
    decimals INTEGER NOT NULL DEFAULT 0,
    position INTEGER,
    approved INTEGER NOT NULL DEFAULT 0,
    team INTEGER NOT NULL DEFAULT 0,
    info TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_result_competition ON result(competition_id);
CREATE INDEX IF NOT EXISTS idx_result_athlete ON result(athlete_id);

CREATE TABLE IF NOT EXISTS result_team_member (
    result_id TEXT NOT NULL REFERENCES result(id),
    athlete_id TEXT NOT NULL REFERENCES athlete(id),
    PRIMARY KEY (result_id, athlete_id)
);

CREATE TABLE IF NOT EXISTS result_partial (
    id TEXT PRIMARY KEY,
    result_id TEXT NOT NULL REFERENCES result(id),
    type_id TEXT NOT NULL REFERENCES competition_result_type(id),
    ordering INTEGER NOT NULL,
    value NUMERIC,
    decimals INTEGER NOT NULL DEFAULT 0,
    UNIQUE (result_id, type_id, ordering)
);

CREATE INDEX IF NOT EXISTS idx_result_partial_result ON result_partial(result_id);

-- Records

CREATE TABLE IF NOT EXISTS record_level (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    area_id TEXT REFERENCES area(id),
    base INTEGER NOT NULL DEFAULT 1,
    partial INTEGER NOT NULL DEFAULT 0,
    personal INTEGER NOT NULL DEFAULT 1,
    team INTEGER NOT NULL DEFAULT 0,
    decimals INTEGER NOT NULL DEFAULT 0,
    ordering INTEGER NOT NULL DEFAULT 0,
    historical INTEGER NOT NULL DEFAULT 0,
    UNIQUE (name, abbreviation)
);

CREATE TABLE IF NOT EXISTS record_level_level (
    record_level_id TEXT NOT NULL REFERENCES record_level(id),
    level_id TEXT NOT NULL REFERENCES competition_level(id),
    PRIMARY KEY (record_level_id, level_id)
);

CREATE TABLE IF NOT EXISTS record_level_type (
    record_level_id TEXT NOT NULL REFERENCES record_level(id),
    type_id TEXT NOT NULL REFERENCES competition_type(id),
    PRIMARY KEY (record_level_id, type_id)
);

CREATE TABLE IF NOT EXISTS record (
    id TEXT PRIMARY KEY,
    result_id TEXT NOT NULL REFERENCES result(id),
    partial_result_id TEXT REFERENCES result_partial(id),
    level_id TEXT NOT NULL REFERENCES record_level(id),
    type_id TEXT NOT NULL REFERENCES competition_type(id),
    category_id TEXT NOT NULL REFERENCES category(id),
    approved INTEGER NOT NULL DEFAULT 0,
    date_start TEXT NOT NULL,
    date_end TEXT,
    info TEXT NOT NULL DEFAULT '',
    historical INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_record_result ON record(result_id);
CREATE INDEX IF NOT EXISTS idx_record_partial ON record(partial_result_id);
CREATE INDEX IF NOT EXISTS idx_record_group ON record(level_id, type_id, category_id, date_end);
`
