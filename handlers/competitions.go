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

type CompetitionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCompetitionHandler(db *sql.DB, cfg cliparse.Config) *CompetitionHandler {
	return &CompetitionHandler{db: db, cfg: cfg}
}

// CreateCompetition handles POST /competitions
func (h *CompetitionHandler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanCreate(actor, policy.KindCompetition) {
		denied(w, actor)
		return
	}

	var req models.CreateCompetitionRequest
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
	if req.TypeID == "" || req.LevelID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type_id and level_id are required")
		return
	}

	if !h.exists(w, "competition_type", req.TypeID) {
		return
	}
	if !h.exists(w, "competition_level", req.LevelID) {
		return
	}
	if req.EventID != "" && !h.exists(w, "event", req.EventID) {
		return
	}

	competitionID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO competition (id, name, location, date_start, date_end, event_id, organization_id, type_id, level_id, approved, locked, public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10)
	`, competitionID, req.Name, req.Location, req.DateStart, req.DateEnd,
		nullable(req.EventID), nullable(req.OrganizationID), req.TypeID, req.LevelID,
		boolInt(req.Public))
	if err != nil {
		slog.Error("failed to insert competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create competition")
		return
	}

	slog.Info("competition created", "competition_id", competitionID, "actor", actor.Name)

	competition, err := h.readCompetition(competitionID)
	if err != nil {
		slog.Error("failed to read competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, competition)
}

// GetCompetition handles GET /competitions/{id}
func (h *CompetitionHandler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	competitionID := r.PathValue("id")
	if competitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "competition id is required")
		return
	}

	competition, err := h.readCompetition(competitionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Competition not found")
		return
	}
	if err != nil {
		slog.Error("failed to query competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, competition)
}

// LockCompetition handles POST /competitions/{id}/lock. A locked
// competition freezes its results for everyone but admins.
func (h *CompetitionHandler) LockCompetition(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "locked", "competition locked")
}

// ApproveCompetition handles POST /competitions/{id}/approve
func (h *CompetitionHandler) ApproveCompetition(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "approved", "competition approved")
}

func (h *CompetitionHandler) setFlag(w http.ResponseWriter, r *http.Request, column, event string) {
	competitionID := r.PathValue("id")
	if competitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "competition id is required")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !actor.Admin {
		denied(w, actor)
		return
	}

	res, err := h.db.Exec(`UPDATE competition SET `+column+` = 1 WHERE id = $1`, competitionID)
	if err != nil {
		slog.Error("failed to update competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update competition")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Competition not found")
		return
	}

	slog.Info(event, "competition_id", competitionID, "actor", actor.Name)

	competition, err := h.readCompetition(competitionID)
	if err != nil {
		slog.Error("failed to read competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, competition)
}

// DeleteCompetition handles DELETE /competitions/{id}. Results, their
// partial values and any records derived from them go in one transaction.
func (h *CompetitionHandler) DeleteCompetition(w http.ResponseWriter, r *http.Request) {
	competitionID := r.PathValue("id")
	if competitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "competition id is required")
		return
	}

	var locked, approved bool
	err := h.db.QueryRow(`SELECT locked, approved FROM competition WHERE id = $1`, competitionID).
		Scan(&locked, &approved)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Competition not found")
		return
	}
	if err != nil {
		slog.Error("failed to query competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindCompetition, Locked: locked, Approved: approved}) {
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

	steps := []string{
		`DELETE FROM record WHERE result_id IN (SELECT id FROM result WHERE competition_id = $1)`,
		`DELETE FROM result_partial WHERE result_id IN (SELECT id FROM result WHERE competition_id = $1)`,
		`DELETE FROM result_team_member WHERE result_id IN (SELECT id FROM result WHERE competition_id = $1)`,
		`DELETE FROM result WHERE competition_id = $1`,
		`DELETE FROM competition WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(q, competitionID); err != nil {
			slog.Error("failed to delete competition", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete competition")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete competition")
		return
	}

	slog.Info("competition deleted", "competition_id", competitionID, "actor", actor.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitionHandler) exists(w http.ResponseWriter, table, id string) bool {
	var found bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		slog.Error("failed to query "+table, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusBadRequest, table+" not found")
		return false
	}
	return true
}

func (h *CompetitionHandler) readCompetition(competitionID string) (models.Competition, error) {
	var c models.Competition
	var eventID, orgID sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, location, date_start, date_end, event_id, organization_id,
		       type_id, level_id, approved, locked, public
		FROM competition
		WHERE id = $1
	`, competitionID).Scan(
		&c.ID, &c.Name, &c.Location, &c.DateStart, &c.DateEnd, &eventID, &orgID,
		&c.TypeID, &c.LevelID, &c.Approved, &c.Locked, &c.Public,
	)
	if err != nil {
		return c, err
	}
	c.EventID = eventID.String
	c.OrganizationID = orgID.String
	return c, nil
}
