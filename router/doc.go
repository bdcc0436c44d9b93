// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the recordbook API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Results (writes require X-Actor, admin bypasses locks):

	POST   /results                            - Submit result
	GET    /results/{id}                       - Result with partial values
	PUT    /results/{id}                       - Update result
	DELETE /results/{id}                       - Delete result and its records
	POST   /results/{id}/approve               - Approve result (admin)
	POST   /results/{id}/partials              - Add or update a partial value
	DELETE /results/{id}/partials/{partialID}  - Remove a partial value

Records (read is public, lifecycle is admin):

	GET    /records              - List records, filterable
	GET    /records/{id}         - Single record
	POST   /records/{id}/approve - Approve candidate, supersede older records
	DELETE /records/{id}         - Delete record

Competitions:

	POST   /competitions               - Create competition
	GET    /competitions/{id}          - Competition info
	POST   /competitions/{id}/lock     - Freeze results (admin)
	POST   /competitions/{id}/approve  - Approve competition (admin)
	DELETE /competitions/{id}          - Delete competition and its results

Events and athletes:

	POST   /events        - Create event
	GET    /events/{id}   - Event info
	DELETE /events/{id}   - Delete event, detach competitions (admin)
	POST   /athletes      - Register athlete (admin)
	GET    /athletes/{id} - Athlete info

# Handler Initialization

The router creates handler instances with dependency injection:

	resultHandler := handlers.NewResultHandler(db, cfg)
	recordHandler := handlers.NewRecordHandler(db, cfg)
	competitionHandler := handlers.NewCompetitionHandler(db, cfg)
	eventHandler := handlers.NewEventHandler(db, cfg)
	athleteHandler := handlers.NewAthleteHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
