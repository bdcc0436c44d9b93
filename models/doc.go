// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateResultRequest: competition, athlete or team members, value
  - UpdateResultRequest: value, decimals, position, info
  - UpsertPartialRequest: type, order, value (key: result+type+order)
  - CreateCompetitionRequest, CreateEventRequest, CreateAthleteRequest

# Domain Types

Internal data structures, one per table:

  - Sport, Category, CategoryCheck: discipline and eligibility classes
  - CompetitionLevel, CompetitionType, CompetitionResultType: competition
    classification
  - Area, Organization, Athlete, Event, Competition
  - Result, ResultPartial: totals and per-round sub-results
  - RecordLevel, Record: record definitions and record entries

# Conventions

Dates are ISO-8601 date strings (YYYY-MM-DD). Nullable columns map to
pointer fields or empty strings for foreign keys. A Result with Team set
carries TeamMembers instead of AthleteID.

# Constants

Gender codes:

	GenderMan     = "M"
	GenderWoman   = "W"
	GenderOther   = "O"
	GenderUnknown = "U"
*/
package models
