// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petrikoski/recordbook/models"
	"github.com/petrikoski/recordbook/testutil"
)

func TestCreateCompetition(t *testing.T) {
	f := setupWeb(t)
	handler := NewCompetitionHandler(f.DB, f.Cfg)

	valid := func() models.CreateCompetitionRequest {
		return models.CreateCompetitionRequest{
			Name:           "Spring Open",
			Location:       "Tampere",
			DateStart:      "2025-05-10",
			DateEnd:        "2025-05-11",
			OrganizationID: f.OrgID,
			TypeID:         f.TypeID,
			LevelID:        f.LevelID,
			Public:         true,
		}
	}

	tests := []struct {
		name       string
		mutate     func(*models.CreateCompetitionRequest)
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "valid competition",
			mutate:     func(r *models.CreateCompetitionRequest) {},
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing actor",
			mutate:     func(r *models.CreateCompetitionRequest) {},
			headers:    nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing name",
			mutate:     func(r *models.CreateCompetitionRequest) { r.Name = "" },
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "end before start",
			mutate:     func(r *models.CreateCompetitionRequest) { r.DateEnd = "2025-05-09" },
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown type",
			mutate:     func(r *models.CreateCompetitionRequest) { r.TypeID = "nonexistent" },
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown level",
			mutate:     func(r *models.CreateCompetitionRequest) { r.LevelID = "nonexistent" },
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown event",
			mutate:     func(r *models.CreateCompetitionRequest) { r.EventID = "nonexistent" },
			headers:    userHeaders("organizer"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			r := testutil.MakeRequest("POST", "/competitions", req, tt.headers)
			w := httptest.NewRecorder()
			handler.CreateCompetition(w, r)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestGetCompetition(t *testing.T) {
	f := setupWeb(t)
	handler := NewCompetitionHandler(f.DB, f.Cfg)

	req := testutil.MakeRequest("GET", "/competitions/"+f.CompetitionID, nil, nil)
	req.SetPathValue("id", f.CompetitionID)
	w := httptest.NewRecorder()
	handler.GetCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var competition models.Competition
	testutil.AssertJSON(t, w, &competition)
	if competition.Name != "Test Cup" {
		t.Errorf("Expected Test Cup, got %s", competition.Name)
	}
	if competition.Locked || competition.Approved {
		t.Error("Expected a fresh competition to be neither locked nor approved")
	}

	req = testutil.MakeRequest("GET", "/competitions/nonexistent", nil, nil)
	req.SetPathValue("id", "nonexistent")
	w = httptest.NewRecorder()
	handler.GetCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestLockAndApproveCompetition(t *testing.T) {
	f := setupWeb(t)
	handler := NewCompetitionHandler(f.DB, f.Cfg)

	// Both flags are admin operations.
	req := testutil.MakeRequest("POST", "/competitions/"+f.CompetitionID+"/lock", nil, userHeaders("organizer"))
	req.SetPathValue("id", f.CompetitionID)
	w := httptest.NewRecorder()
	handler.LockCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("POST", "/competitions/"+f.CompetitionID+"/lock", nil, f.adminHeaders("official"))
	req.SetPathValue("id", f.CompetitionID)
	w = httptest.NewRecorder()
	handler.LockCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var competition models.Competition
	testutil.AssertJSON(t, w, &competition)
	if !competition.Locked {
		t.Error("Expected the competition to be locked")
	}

	req = testutil.MakeRequest("POST", "/competitions/"+f.CompetitionID+"/approve", nil, f.adminHeaders("official"))
	req.SetPathValue("id", f.CompetitionID)
	w = httptest.NewRecorder()
	handler.ApproveCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &competition)
	if !competition.Approved {
		t.Error("Expected the competition to be approved")
	}

	req = testutil.MakeRequest("POST", "/competitions/nonexistent/lock", nil, f.adminHeaders("official"))
	req.SetPathValue("id", "nonexistent")
	w = httptest.NewRecorder()
	handler.LockCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteCompetitionRemovesDependents(t *testing.T) {
	f := setupWeb(t)
	resultID := f.createResult(t, f64(650))
	handler := NewCompetitionHandler(f.DB, f.Cfg)

	req := testutil.MakeRequest("DELETE", "/competitions/"+f.CompetitionID, nil, userHeaders("organizer"))
	req.SetPathValue("id", f.CompetitionID)
	w := httptest.NewRecorder()
	handler.DeleteCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	for _, q := range []string{
		`SELECT COUNT(*) FROM competition WHERE id = $1`,
		`SELECT COUNT(*) FROM result WHERE competition_id = $1`,
	} {
		var n int
		if err := f.DB.QueryRow(q, f.CompetitionID).Scan(&n); err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no rows left for %q", q)
		}
	}
	if n := testutil.CountRecords(t, f.DB, resultID, -1); n != 0 {
		t.Errorf("Expected no records left, got %d", n)
	}
}

func TestDeleteCompetitionLocked(t *testing.T) {
	f := setupWeb(t)
	if _, err := f.DB.Exec(`UPDATE competition SET locked = 1 WHERE id = $1`, f.CompetitionID); err != nil {
		t.Fatalf("Failed to lock competition: %v", err)
	}
	handler := NewCompetitionHandler(f.DB, f.Cfg)

	req := testutil.MakeRequest("DELETE", "/competitions/"+f.CompetitionID, nil, userHeaders("organizer"))
	req.SetPathValue("id", f.CompetitionID)
	w := httptest.NewRecorder()
	handler.DeleteCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("DELETE", "/competitions/"+f.CompetitionID, nil, f.adminHeaders("official"))
	req.SetPathValue("id", f.CompetitionID)
	w = httptest.NewRecorder()
	handler.DeleteCompetition(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)
}
