// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/petrikoski/recordbook/cliparse"
	"github.com/petrikoski/recordbook/middleware"
	"github.com/petrikoski/recordbook/models"
	"github.com/petrikoski/recordbook/records"
)

type RecordHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRecordHandler(db *sql.DB, cfg cliparse.Config) *RecordHandler {
	return &RecordHandler{db: db, cfg: cfg}
}

const recordSelect = `
	SELECT rec.id, rec.result_id, rec.partial_result_id, rec.level_id, rec.type_id,
	       rec.category_id, rec.approved, rec.date_start, rec.date_end, rec.info,
	       rec.historical, COALESCE(rp.value, res.result)
	FROM record rec
	JOIN result res ON res.id = rec.result_id
	LEFT JOIN result_partial rp ON rp.id = rec.partial_result_id`

// ListRecords handles GET /records. Supported query filters: level_id,
// type_id, category_id, approved, current and partial.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var conds []string
	var args []interface{}
	addEq := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("rec.%s = $%d", column, len(args)))
	}
	addEq("level_id", q.Get("level_id"))
	addEq("type_id", q.Get("type_id"))
	addEq("category_id", q.Get("category_id"))

	switch q.Get("approved") {
	case "":
	case "true":
		conds = append(conds, "rec.approved = 1")
	case "false":
		conds = append(conds, "rec.approved = 0")
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "approved must be true or false")
		return
	}
	switch q.Get("partial") {
	case "":
	case "true":
		conds = append(conds, "rec.partial_result_id IS NOT NULL")
	case "false":
		conds = append(conds, "rec.partial_result_id IS NULL")
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "partial must be true or false")
		return
	}
	if q.Get("current") == "true" {
		conds = append(conds, "rec.date_end IS NULL AND rec.historical = 0")
	}

	query := recordSelect
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY rec.date_start DESC, rec.id"

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	list := []models.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			slog.Error("failed to scan record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		list = append(list, record)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetRecord handles GET /records/{id}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID := r.PathValue("id")
	if recordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "record id is required")
		return
	}

	row := h.db.QueryRow(recordSelect+"\n\tWHERE rec.id = $1", recordID)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		slog.Error("failed to query record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, record)
}

// ApproveRecord handles POST /records/{id}/approve. Approving triggers the
// supersession cascade; approving an already approved record is a no-op.
func (h *RecordHandler) ApproveRecord(w http.ResponseWriter, r *http.Request) {
	recordID := r.PathValue("id")
	if recordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "record id is required")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !actor.Admin {
		denied(w, actor)
		return
	}

	var approved bool
	err := h.db.QueryRow(`SELECT approved FROM record WHERE id = $1`, recordID).Scan(&approved)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		slog.Error("failed to query record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !approved {
		_, err = h.db.Exec(`UPDATE record SET approved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, recordID)
		if err != nil {
			slog.Error("failed to approve record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to approve record")
			return
		}
		if err := records.CascadeApproval(h.db, recordID); err != nil {
			slog.Error("approval cascade failed", "error", err, "record_id", recordID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to settle record group")
			return
		}
		slog.Info("record approved", "record_id", recordID, "actor", actor.Name)
	}

	row := h.db.QueryRow(recordSelect+"\n\tWHERE rec.id = $1", recordID)
	record, err := scanRecord(row)
	if err != nil {
		slog.Error("failed to read record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, record)
}

// DeleteRecord handles DELETE /records/{id}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID := r.PathValue("id")
	if recordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "record id is required")
		return
	}

	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !actor.Admin {
		denied(w, actor)
		return
	}

	res, err := h.db.Exec(`DELETE FROM record WHERE id = $1`, recordID)
	if err != nil {
		slog.Error("failed to delete record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Record not found")
		return
	}

	slog.Info("record deleted", "record_id", recordID, "actor", actor.Name)
	w.WriteHeader(http.StatusNoContent)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var record models.Record
	var partialID, dateEnd sql.NullString
	err := row.Scan(
		&record.ID, &record.ResultID, &partialID, &record.LevelID, &record.TypeID,
		&record.CategoryID, &record.Approved, &record.DateStart, &dateEnd,
		&record.Info, &record.Historical, &record.Value,
	)
	if err != nil {
		return record, err
	}
	record.PartialResultID = partialID.String
	record.DateEnd = dateEnd.String
	return record, nil
}
