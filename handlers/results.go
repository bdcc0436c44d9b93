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
	"github.com/petrikoski/recordbook/records"
)

type ResultHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultHandler(db *sql.DB, cfg cliparse.Config) *ResultHandler {
	return &ResultHandler{db: db, cfg: cfg}
}

// denied writes the right rejection for a failed permission check.
func denied(w http.ResponseWriter, actor policy.Actor) {
	if actor.Name == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Actor header is required")
		return
	}
	middleware.ErrorResponse(w, http.StatusForbidden, "Not allowed")
}

// CreateResult handles POST /results
func (h *ResultHandler) CreateResult(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanCreate(actor, policy.KindResult) {
		denied(w, actor)
		return
	}

	var req models.CreateResultRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CompetitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "competition_id is required")
		return
	}
	if req.OrganizationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "organization_id is required")
		return
	}
	if req.CategoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category_id is required")
		return
	}

	var locked bool
	var typeID string
	err := h.db.QueryRow(`SELECT locked, type_id FROM competition WHERE id = $1`, req.CompetitionID).
		Scan(&locked, &typeID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "competition not found")
		return
	}
	if err != nil {
		slog.Error("failed to query competition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if locked && !actor.Admin {
		middleware.ErrorResponse(w, http.StatusConflict, "Competition is locked")
		return
	}

	var categoryTeam bool
	err = h.db.QueryRow(`SELECT team FROM category WHERE id = $1`, req.CategoryID).Scan(&categoryTeam)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Team != categoryTeam {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team flag does not match the category")
		return
	}
	if req.Team {
		if len(req.TeamMembers) == 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "team_members is required for a team result")
			return
		}
		if req.AthleteID != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "athlete_id is not allowed for a team result")
			return
		}
	} else {
		if req.AthleteID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "athlete_id is required")
			return
		}
		if len(req.TeamMembers) > 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "team_members is only allowed for a team result")
			return
		}
	}

	for _, athleteID := range req.TeamMembers {
		if !h.athleteExists(w, athleteID) {
			return
		}
	}
	if req.AthleteID != "" && !h.athleteExists(w, req.AthleteID) {
		return
	}

	if msg := h.validateValue(typeID, req.CategoryID, req.Result); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	resultID := uuid.NewString()
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO result (id, competition_id, athlete_id, organization_id, category_id, result, decimals, position, approved, team, info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)
	`, resultID, req.CompetitionID, nullable(req.AthleteID), req.OrganizationID,
		req.CategoryID, req.Result, req.Decimals, req.Position, boolInt(req.Team), req.Info)
	if err != nil {
		slog.Error("failed to insert result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
		return
	}

	for _, athleteID := range req.TeamMembers {
		_, err = tx.Exec(`
			INSERT INTO result_team_member (result_id, athlete_id)
			VALUES ($1, $2)
		`, resultID, athleteID)
		if err != nil {
			slog.Error("failed to insert team member", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create result")
		return
	}

	if err := records.CheckResult(h.db, h.cfg, resultID); err != nil {
		slog.Error("record check failed", "error", err, "result_id", resultID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check records")
		return
	}

	slog.Info("result created", "result_id", resultID, "competition_id", req.CompetitionID, "actor", actor.Name)

	result, err := h.readResult(resultID)
	if err != nil {
		slog.Error("failed to read result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, result)
}

// GetResult handles GET /results/{id}
func (h *ResultHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	resultID := r.PathValue("id")
	if resultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result id is required")
		return
	}

	result, err := h.readResult(resultID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		slog.Error("failed to query result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	partials, err := h.readPartials(resultID)
	if err != nil {
		slog.Error("failed to query partials", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultWithPartials{
		Result:   result,
		Partials: partials,
	})
}

// UpdateResult handles PUT /results/{id}
func (h *ResultHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	resultID := r.PathValue("id")
	if resultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result id is required")
		return
	}

	meta, err := h.resultMeta(resultID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		slog.Error("failed to query result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindResult, Locked: meta.Locked, Approved: meta.Approved}) {
		denied(w, actor)
		return
	}

	var req models.UpdateResultRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := h.validateValue(meta.TypeID, meta.CategoryID, req.Result); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	_, err = h.db.Exec(`
		UPDATE result
		SET result = $1, decimals = $2, position = $3, info = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`, req.Result, req.Decimals, req.Position, req.Info, resultID)
	if err != nil {
		slog.Error("failed to update result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update result")
		return
	}

	if err := records.CheckResult(h.db, h.cfg, resultID); err != nil {
		slog.Error("record check failed", "error", err, "result_id", resultID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check records")
		return
	}

	slog.Info("result updated", "result_id", resultID, "actor", actor.Name)

	result, err := h.readResult(resultID)
	if err != nil {
		slog.Error("failed to read result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// DeleteResult handles DELETE /results/{id}. Records and partial values tied
// to the result go with it in one transaction.
func (h *ResultHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	resultID := r.PathValue("id")
	if resultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result id is required")
		return
	}

	meta, err := h.resultMeta(resultID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		slog.Error("failed to query result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindResult, Locked: meta.Locked, Approved: meta.Approved}) {
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
		`DELETE FROM record WHERE result_id = $1`,
		`DELETE FROM result_partial WHERE result_id = $1`,
		`DELETE FROM result_team_member WHERE result_id = $1`,
		`DELETE FROM result WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(q, resultID); err != nil {
			slog.Error("failed to delete result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete result")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete result")
		return
	}

	slog.Info("result deleted", "result_id", resultID, "actor", actor.Name)
	w.WriteHeader(http.StatusNoContent)
}

// ApproveResult handles POST /results/{id}/approve
func (h *ResultHandler) ApproveResult(w http.ResponseWriter, r *http.Request) {
	resultID := r.PathValue("id")
	if resultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result id is required")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !actor.Admin {
		denied(w, actor)
		return
	}

	res, err := h.db.Exec(`UPDATE result SET approved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, resultID)
	if err != nil {
		slog.Error("failed to approve result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to approve result")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Result not found")
		return
	}

	slog.Info("result approved", "result_id", resultID, "actor", actor.Name)

	result, err := h.readResult(resultID)
	if err != nil {
		slog.Error("failed to read result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

type resultMeta struct {
	Approved   bool
	Locked     bool
	TypeID     string
	CategoryID string
}

func (h *ResultHandler) resultMeta(resultID string) (resultMeta, error) {
	var m resultMeta
	err := h.db.QueryRow(`
		SELECT r.approved, c.locked, c.type_id, r.category_id
		FROM result r
		JOIN competition c ON c.id = r.competition_id
		WHERE r.id = $1
	`, resultID).Scan(&m.Approved, &m.Locked, &m.TypeID, &m.CategoryID)
	return m, err
}

func (h *ResultHandler) athleteExists(w http.ResponseWriter, athleteID string) bool {
	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM athlete WHERE id = $1)`, athleteID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query athlete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "athlete not found: "+athleteID)
		return false
	}
	return true
}

// validateValue checks a result value against the competition type limits
// and any per-category override. Returns an error message, empty when valid.
func (h *ResultHandler) validateValue(typeID, categoryID string, value *float64) string {
	var disallow bool
	var minResult, maxResult sql.NullFloat64
	err := h.db.QueryRow(`
		SELECT cc.disallow,
		       COALESCE(cc.min_result, ct.min_result),
		       COALESCE(cc.max_result, ct.max_result)
		FROM competition_type ct
		LEFT JOIN category_check cc ON cc.type_id = ct.id AND cc.category_id = $1
		WHERE ct.id = $2
	`, categoryID, typeID).Scan(&disallow, &minResult, &maxResult)
	if err == sql.ErrNoRows {
		return "competition type not found"
	}
	if err != nil {
		slog.Error("failed to query result limits", "error", err)
		return "failed to validate result"
	}

	if disallow {
		return "results are not allowed in this category"
	}
	if value == nil {
		return ""
	}
	if minResult.Valid && *value < minResult.Float64 {
		return "result is below the minimum for this competition type"
	}
	if maxResult.Valid && *value > maxResult.Float64 {
		return "result is above the maximum for this competition type"
	}
	return ""
}

func (h *ResultHandler) readResult(resultID string) (models.Result, error) {
	var result models.Result
	var athleteID, orgID sql.NullString
	err := h.db.QueryRow(`
		SELECT id, competition_id, athlete_id, organization_id, category_id,
		       result, decimals, position, approved, team, info
		FROM result
		WHERE id = $1
	`, resultID).Scan(
		&result.ID, &result.CompetitionID, &athleteID, &orgID, &result.CategoryID,
		&result.Result, &result.Decimals, &result.Position, &result.Approved,
		&result.Team, &result.Info,
	)
	if err != nil {
		return result, err
	}
	result.AthleteID = athleteID.String
	result.OrganizationID = orgID.String

	if result.Team {
		rows, err := h.db.Query(`
			SELECT athlete_id FROM result_team_member WHERE result_id = $1 ORDER BY athlete_id
		`, resultID)
		if err != nil {
			return result, err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return result, err
			}
			result.TeamMembers = append(result.TeamMembers, id)
		}
		if err := rows.Err(); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (h *ResultHandler) readPartials(resultID string) ([]models.ResultPartial, error) {
	rows, err := h.db.Query(`
		SELECT id, result_id, type_id, ordering, value, decimals
		FROM result_partial
		WHERE result_id = $1
		ORDER BY type_id, ordering
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partials := []models.ResultPartial{}
	for rows.Next() {
		var p models.ResultPartial
		if err := rows.Scan(&p.ID, &p.ResultID, &p.TypeID, &p.Order, &p.Value, &p.Decimals); err != nil {
			return nil, err
		}
		partials = append(partials, p)
	}
	return partials, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
