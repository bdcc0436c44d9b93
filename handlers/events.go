// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/petrikoski/recordbook/cliparse"
	"github.com/petrikoski/recordbook/middleware"
	"github.com/petrikoski/recordbook/models"
	"github.com/petrikoski/recordbook/policy"
)

type EventHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewEventHandler(db *sql.DB, cfg cliparse.Config) *EventHandler {
	return &EventHandler{db: db, cfg: cfg}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanCreate(actor, policy.KindEvent) {
		denied(w, actor)
		return
	}

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DateStart == "" || req.DateEnd == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date_start and date_end are required")
		return
	}
	if req.DateEnd < req.DateStart {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date_end is before date_start")
		return
	}

	eventID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO event (id, name, date_start, date_end, organization_id, approved, locked, public)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6)
	`, eventID, req.Name, req.DateStart, req.DateEnd, nullable(req.OrganizationID), boolInt(req.Public))
	if err != nil {
		slog.Error("failed to insert event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	slog.Info("event created", "event_id", eventID, "actor", actor.Name)

	event, err := h.readEvent(eventID)
	if err != nil {
		slog.Error("failed to read event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	event, err := h.readEvent(eventID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}. Competitions under the event are
// detached, not deleted.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !actor.Admin {
		denied(w, actor)
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE competition SET event_id = NULL WHERE event_id = $1`, eventID); err != nil {
		slog.Error("failed to detach competitions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	res, err := tx.Exec(`DELETE FROM event WHERE id = $1`, eventID)
	if err != nil {
		slog.Error("failed to delete event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	slog.Info("event deleted", "event_id", eventID, "actor", actor.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) readEvent(eventID string) (models.Event, error) {
	var e models.Event
	var orgID sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, date_start, date_end, organization_id, approved, locked, public
		FROM event
		WHERE id = $1
	`, eventID).Scan(
		&e.ID, &e.Name, &e.DateStart, &e.DateEnd, &orgID, &e.Approved, &e.Locked, &e.Public,
	)
	if err != nil {
		return e, err
	}
	e.OrganizationID = orgID.String
	return e, nil
}
