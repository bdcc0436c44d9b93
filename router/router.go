// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/petrikoski/recordbook/cliparse"
	"github.com/petrikoski/recordbook/handlers"
	"github.com/petrikoski/recordbook/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	resultHandler := handlers.NewResultHandler(db, cfg)
	recordHandler := handlers.NewRecordHandler(db, cfg)
	competitionHandler := handlers.NewCompetitionHandler(db, cfg)
	eventHandler := handlers.NewEventHandler(db, cfg)
	athleteHandler := handlers.NewAthleteHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Results and partial values
	mux.HandleFunc("POST /results", middleware.WithLogging(resultHandler.CreateResult))
	mux.HandleFunc("GET /results/{id}", middleware.WithLogging(resultHandler.GetResult))
	mux.HandleFunc("PUT /results/{id}", middleware.WithLogging(resultHandler.UpdateResult))
	mux.HandleFunc("DELETE /results/{id}", middleware.WithLogging(resultHandler.DeleteResult))
	mux.HandleFunc("POST /results/{id}/approve", middleware.WithLogging(resultHandler.ApproveResult))
	mux.HandleFunc("POST /results/{id}/partials", middleware.WithLogging(resultHandler.UpsertPartial))
	mux.HandleFunc("DELETE /results/{id}/partials/{partialID}", middleware.WithLogging(resultHandler.DeletePartial))

	// Records (read is public, lifecycle is admin)
	mux.HandleFunc("GET /records", middleware.WithLogging(recordHandler.ListRecords))
	mux.HandleFunc("GET /records/{id}", middleware.WithLogging(recordHandler.GetRecord))
	mux.HandleFunc("POST /records/{id}/approve", middleware.WithLogging(recordHandler.ApproveRecord))
	mux.HandleFunc("DELETE /records/{id}", middleware.WithLogging(recordHandler.DeleteRecord))

	// Competitions
	mux.HandleFunc("POST /competitions", middleware.WithLogging(competitionHandler.CreateCompetition))
	mux.HandleFunc("GET /competitions/{id}", middleware.WithLogging(competitionHandler.GetCompetition))
	mux.HandleFunc("POST /competitions/{id}/lock", middleware.WithLogging(competitionHandler.LockCompetition))
	mux.HandleFunc("POST /competitions/{id}/approve", middleware.WithLogging(competitionHandler.ApproveCompetition))
	mux.HandleFunc("DELETE /competitions/{id}", middleware.WithLogging(competitionHandler.DeleteCompetition))

	// Events
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events/{id}", middleware.WithLogging(eventHandler.GetEvent))
	mux.HandleFunc("DELETE /events/{id}", middleware.WithLogging(eventHandler.DeleteEvent))

	// Athletes
	mux.HandleFunc("POST /athletes", middleware.WithLogging(athleteHandler.CreateAthlete))
	mux.HandleFunc("GET /athletes/{id}", middleware.WithLogging(athleteHandler.GetAthlete))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("recordbook API v1"))
	})

	return mux
}
