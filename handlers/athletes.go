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

type AthleteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAthleteHandler(db *sql.DB, cfg cliparse.Config) *AthleteHandler {
	return &AthleteHandler{db: db, cfg: cfg}
}

// CreateAthlete handles POST /athletes. Athlete registration is an admin
// operation, license data comes from the federation.
func (h *AthleteHandler) CreateAthlete(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r, h.cfg.AdminKeySalt)
	if !policy.CanCreate(actor, policy.KindAthlete) {
		denied(w, actor)
		return
	}

	var req models.CreateAthleteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FirstName == "" || req.LastName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}
	switch req.Gender {
	case models.GenderMan, models.GenderWoman, models.GenderOther, models.GenderUnknown:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "gender must be one of M, W, O, U")
		return
	}
	if req.OrganizationID != "" {
		var exists bool
		err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM organization WHERE id = $1)`, req.OrganizationID).Scan(&exists)
		if err != nil {
			slog.Error("failed to query organization", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusBadRequest, "organization not found")
			return
		}
	}

	athleteID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO athlete (id, first_name, last_name, license_id, date_of_birth, gender, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, athleteID, req.FirstName, req.LastName, nullable(req.LicenseID),
		nullable(req.DateOfBirth), req.Gender, nullable(req.OrganizationID))
	if err != nil {
		slog.Error("failed to insert athlete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create athlete")
		return
	}

	slog.Info("athlete created", "athlete_id", athleteID, "actor", actor.Name)

	athlete, err := h.readAthlete(athleteID)
	if err != nil {
		slog.Error("failed to read athlete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, athlete)
}

// GetAthlete handles GET /athletes/{id}
func (h *AthleteHandler) GetAthlete(w http.ResponseWriter, r *http.Request) {
	athleteID := r.PathValue("id")
	if athleteID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "athlete id is required")
		return
	}

	athlete, err := h.readAthlete(athleteID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Athlete not found")
		return
	}
	if err != nil {
		slog.Error("failed to query athlete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, athlete)
}

func (h *AthleteHandler) readAthlete(athleteID string) (models.Athlete, error) {
	var a models.Athlete
	var licenseID, dob, orgID sql.NullString
	err := h.db.QueryRow(`
		SELECT id, first_name, last_name, license_id, date_of_birth, gender, organization_id
		FROM athlete
		WHERE id = $1
	`, athleteID).Scan(
		&a.ID, &a.FirstName, &a.LastName, &licenseID, &dob, &a.Gender, &orgID,
	)
	if err != nil {
		return a, err
	}
	a.LicenseID = licenseID.String
	a.DateOfBirth = dob.String
	a.OrganizationID = orgID.String
	return a, nil
}
