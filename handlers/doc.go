// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the recordbook API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ResultHandler: Result lifecycle and partial values
  - RecordHandler: Record listing, approval and removal
  - CompetitionHandler: Competition lifecycle (create, lock, approve)
  - EventHandler: Event grouping of competitions
  - AthleteHandler: Athlete registration and lookup

Handlers are created via constructor functions that accept *sql.DB and Config:

	resultHandler := handlers.NewResultHandler(db, cfg)

# Identity

Reads are public. Writes identify the actor through the X-Actor header;
X-Admin-Key carries an HMAC key that upgrades the actor to admin. Permission
decisions live in the policy package, handlers only gather the resource
state (locked competition, approved result) and ask.

# Result Flow

	POST /results                 → CreateResult
	PUT /results/{id}             → UpdateResult (until locked or approved)
	POST /results/{id}/partials   → UpsertPartial (keyed by type and order)
	POST /results/{id}/approve    → ApproveResult (admin)

Every save of a result or partial value re-runs record detection, so
GET /records?approved=false immediately shows the new candidates.

# Record Flow

Records are never created through the API; they appear as candidates when
results are saved and are settled by officials:

	GET /records                  → ListRecords (filterable)
	POST /records/{id}/approve    → ApproveRecord (admin, runs the cascade)
	DELETE /records/{id}          → DeleteRecord (admin)

Approving a record closes lower-valued approved records in the same group
and deletes lower-valued candidates.
*/
package handlers
