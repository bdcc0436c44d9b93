// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/petrikoski/recordbook/middleware"
	"github.com/petrikoski/recordbook/models"
	"github.com/petrikoski/recordbook/policy"
	"github.com/petrikoski/recordbook/records"
)

// UpsertPartial handles POST /results/{id}/partials. The (result, type,
// order) triple is the identity: an existing row is updated in place, so
// resubmitting a scorecard never duplicates values.
func (h *ResultHandler) UpsertPartial(w http.ResponseWriter, r *http.Request) {
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
	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindPartial, Locked: meta.Locked, Approved: meta.Approved}) {
		denied(w, actor)
		return
	}

	var req models.UpsertPartialRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TypeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type_id is required")
		return
	}
	if req.Order < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "order must be positive")
		return
	}

	var parentTypeID string
	var minResult, maxResult sql.NullFloat64
	err = h.db.QueryRow(`
		SELECT competition_type_id, min_result, max_result
		FROM competition_result_type
		WHERE id = $1
	`, req.TypeID).Scan(&parentTypeID, &minResult, &maxResult)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result type not found")
		return
	}
	if err != nil {
		slog.Error("failed to query result type", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if parentTypeID != meta.TypeID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result type does not belong to the competition type")
		return
	}
	if req.Value != nil {
		if minResult.Valid && *req.Value < minResult.Float64 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "value is below the minimum for this result type")
			return
		}
		if maxResult.Valid && *req.Value > maxResult.Float64 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "value is above the maximum for this result type")
			return
		}
	}

	var partialID string
	err = h.db.QueryRow(`
		SELECT id FROM result_partial
		WHERE result_id = $1 AND type_id = $2 AND ordering = $3
	`, resultID, req.TypeID, req.Order).Scan(&partialID)
	switch {
	case err == sql.ErrNoRows:
		partialID = uuid.NewString()
		_, err = h.db.Exec(`
			INSERT INTO result_partial (id, result_id, type_id, ordering, value, decimals)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, partialID, resultID, req.TypeID, req.Order, req.Value, req.Decimals)
		if err != nil {
			slog.Error("failed to insert partial", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save partial")
			return
		}
	case err != nil:
		slog.Error("failed to query partial", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	default:
		_, err = h.db.Exec(`
			UPDATE result_partial SET value = $1, decimals = $2 WHERE id = $3
		`, req.Value, req.Decimals, partialID)
		if err != nil {
			slog.Error("failed to update partial", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save partial")
			return
		}
	}

	if err := records.CheckPartial(h.db, h.cfg, partialID); err != nil {
		slog.Error("partial record check failed", "error", err, "partial_id", partialID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check records")
		return
	}

	slog.Info("partial saved", "result_id", resultID, "partial_id", partialID, "actor", actor.Name)

	var p models.ResultPartial
	err = h.db.QueryRow(`
		SELECT id, result_id, type_id, ordering, value, decimals
		FROM result_partial WHERE id = $1
	`, partialID).Scan(&p.ID, &p.ResultID, &p.TypeID, &p.Order, &p.Value, &p.Decimals)
	if err != nil {
		slog.Error("failed to read partial", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// DeletePartial handles DELETE /results/{id}/partials/{partialID}
func (h *ResultHandler) DeletePartial(w http.ResponseWriter, r *http.Request) {
	resultID := r.PathValue("id")
	partialID := r.PathValue("partialID")
	if resultID == "" || partialID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "result and partial ids are required")
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
	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindPartial, Locked: meta.Locked, Approved: meta.Approved}) {
		denied(w, actor)
		return
	}

	var owner string
	err = h.db.QueryRow(`SELECT result_id FROM result_partial WHERE id = $1`, partialID).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != resultID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Partial not found")
		return
	}
	if err != nil {
		slog.Error("failed to query partial", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM record WHERE partial_result_id = $1`, partialID); err != nil {
		slog.Error("failed to delete partial records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete partial")
		return
	}
	if _, err := tx.Exec(`DELETE FROM result_partial WHERE id = $1`, partialID); err != nil {
		slog.Error("failed to delete partial", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete partial")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete partial")
		return
	}

	slog.Info("partial deleted", "result_id", resultID, "partial_id", partialID, "actor", actor.Name)
	w.WriteHeader(http.StatusNoContent)
}
