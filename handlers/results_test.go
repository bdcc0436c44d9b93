// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petrikoski/recordbook/auth"
	"github.com/petrikoski/recordbook/cliparse"
	"github.com/petrikoski/recordbook/models"
	"github.com/petrikoski/recordbook/testutil"
)

func f64(v float64) *float64 { return &v }

// webFixture carries the reference data and handlers the endpoint tests
// share: one sport, competition level and type, a category with a record
// level, an organization with one athlete, and an open competition.
type webFixture struct {
	DB            *sql.DB
	Cfg           cliparse.Config
	SportID       string
	LevelID       string
	TypeID        string
	CategoryID    string
	OrgID         string
	AthleteID     string
	CompetitionID string
}

func setupWeb(t *testing.T) *webFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	f := &webFixture{DB: db, Cfg: testutil.GetTestConfig()}

	f.SportID = testutil.CreateSport(t, db, "Archery")
	f.LevelID = testutil.CreateLevel(t, db, "National", "SM")
	f.TypeID = testutil.CreateCompetitionType(t, db, "Recurve 70m", f.SportID)
	f.CategoryID = testutil.CreateCategory(t, db, models.Category{
		Name: "Women", Abbreviation: "W", SportID: f.SportID, Gender: models.GenderWoman,
	})
	f.OrgID = testutil.CreateOrganization(t, db, "Helsinki Archers", false)
	f.AthleteID = testutil.CreateAthlete(t, db, models.Athlete{
		FirstName: "Aino", LastName: "Korhonen", Gender: models.GenderWoman,
		DateOfBirth: "1995-03-15", OrganizationID: f.OrgID,
	})
	testutil.CreateRecordLevel(t, db, models.RecordLevel{
		Name: "Finnish record", Abbreviation: "SE", Base: true, Personal: true,
	}, []string{f.LevelID}, []string{f.TypeID})
	f.CompetitionID = testutil.CreateCompetition(t, db, models.Competition{
		Name: "Test Cup", DateStart: "2025-06-01", DateEnd: "2025-06-01",
		OrganizationID: f.OrgID, TypeID: f.TypeID, LevelID: f.LevelID,
	})
	return f
}

// userHeaders identifies a plain named actor.
func userHeaders(name string) map[string]string {
	return map[string]string{"X-Actor": name}
}

// adminHeaders identifies an actor holding a valid admin key.
func (f *webFixture) adminHeaders(name string) map[string]string {
	return map[string]string{
		"X-Actor":     name,
		"X-Admin-Key": auth.GenerateAdminKey(name, f.Cfg.AdminKeySalt),
	}
}

func (f *webFixture) createResult(t *testing.T, value *float64) string {
	t.Helper()
	handler := NewResultHandler(f.DB, f.Cfg)
	req := testutil.MakeRequest("POST", "/results", models.CreateResultRequest{
		CompetitionID:  f.CompetitionID,
		AthleteID:      f.AthleteID,
		OrganizationID: f.OrgID,
		CategoryID:     f.CategoryID,
		Result:         value,
	}, userHeaders("submitter"))
	w := httptest.NewRecorder()
	handler.CreateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var result models.Result
	testutil.AssertJSON(t, w, &result)
	return result.ID
}

func TestCreateResult(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)

	tests := []struct {
		name           string
		headers        map[string]string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:    "valid result",
			headers: userHeaders("submitter"),
			requestBody: models.CreateResultRequest{
				CompetitionID:  f.CompetitionID,
				AthleteID:      f.AthleteID,
				OrganizationID: f.OrgID,
				CategoryID:     f.CategoryID,
				Result:         f64(650),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "missing actor",
			headers: nil,
			requestBody: models.CreateResultRequest{
				CompetitionID:  f.CompetitionID,
				AthleteID:      f.AthleteID,
				OrganizationID: f.OrgID,
				CategoryID:     f.CategoryID,
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "unknown competition",
			headers: userHeaders("submitter"),
			requestBody: models.CreateResultRequest{
				CompetitionID:  "nonexistent",
				AthleteID:      f.AthleteID,
				OrganizationID: f.OrgID,
				CategoryID:     f.CategoryID,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "missing athlete for individual result",
			headers: userHeaders("submitter"),
			requestBody: models.CreateResultRequest{
				CompetitionID:  f.CompetitionID,
				OrganizationID: f.OrgID,
				CategoryID:     f.CategoryID,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "team flag does not match category",
			headers: userHeaders("submitter"),
			requestBody: models.CreateResultRequest{
				CompetitionID:  f.CompetitionID,
				OrganizationID: f.OrgID,
				CategoryID:     f.CategoryID,
				Team:           true,
				TeamMembers:    []string{f.AthleteID},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			headers:        userHeaders("submitter"),
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if str, ok := tt.requestBody.(string); ok {
				req = httptest.NewRequest("POST", "/results", strings.NewReader(str))
				req.Header.Set("Content-Type", "application/json")
				for k, v := range tt.headers {
					req.Header.Set(k, v)
				}
			} else {
				req = testutil.MakeRequest("POST", "/results", tt.requestBody, tt.headers)
			}
			w := httptest.NewRecorder()
			handler.CreateResult(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCreateResultRegistersCandidate(t *testing.T) {
	f := setupWeb(t)
	resultID := f.createResult(t, f64(650))

	// A record candidate must be visible as soon as the save returns.
	if n := testutil.CountRecords(t, f.DB, resultID, 0); n != 1 {
		t.Errorf("Expected 1 record candidate after create, got %d", n)
	}
}

func TestCreateResultRejectsOutOfRangeValue(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)

	if _, err := f.DB.Exec(`UPDATE competition_type SET max_result = 720 WHERE id = $1`, f.TypeID); err != nil {
		t.Fatalf("Failed to set max result: %v", err)
	}

	req := testutil.MakeRequest("POST", "/results", models.CreateResultRequest{
		CompetitionID:  f.CompetitionID,
		AthleteID:      f.AthleteID,
		OrganizationID: f.OrgID,
		CategoryID:     f.CategoryID,
		Result:         f64(800),
	}, userHeaders("submitter"))
	w := httptest.NewRecorder()
	handler.CreateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestCreateResultLockedCompetition(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)

	if _, err := f.DB.Exec(`UPDATE competition SET locked = 1 WHERE id = $1`, f.CompetitionID); err != nil {
		t.Fatalf("Failed to lock competition: %v", err)
	}

	body := models.CreateResultRequest{
		CompetitionID:  f.CompetitionID,
		AthleteID:      f.AthleteID,
		OrganizationID: f.OrgID,
		CategoryID:     f.CategoryID,
		Result:         f64(650),
	}

	req := testutil.MakeRequest("POST", "/results", body, userHeaders("submitter"))
	w := httptest.NewRecorder()
	handler.CreateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Admins can still file late results.
	req = testutil.MakeRequest("POST", "/results", body, f.adminHeaders("official"))
	w = httptest.NewRecorder()
	handler.CreateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestUpdateResult(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(640))

	req := testutil.MakeRequest("PUT", "/results/"+resultID, models.UpdateResultRequest{
		Result: f64(655),
	}, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.UpdateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var result models.Result
	testutil.AssertJSON(t, w, &result)
	if result.Result == nil || *result.Result != 655 {
		t.Errorf("Expected updated value 655, got %v", result.Result)
	}
}

func TestUpdateResultLockedAndApproved(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(640))

	if _, err := f.DB.Exec(`UPDATE competition SET locked = 1 WHERE id = $1`, f.CompetitionID); err != nil {
		t.Fatalf("Failed to lock competition: %v", err)
	}

	body := models.UpdateResultRequest{Result: f64(660)}

	req := testutil.MakeRequest("PUT", "/results/"+resultID, body, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.UpdateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Admin can still edit after lock.
	req = testutil.MakeRequest("PUT", "/results/"+resultID, body, f.adminHeaders("official"))
	req.SetPathValue("id", resultID)
	w = httptest.NewRecorder()
	handler.UpdateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestUpdateResultNotFound(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)

	req := testutil.MakeRequest("PUT", "/results/nonexistent", models.UpdateResultRequest{}, userHeaders("submitter"))
	req.SetPathValue("id", "nonexistent")
	w := httptest.NewRecorder()
	handler.UpdateResult(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteResultRemovesDependents(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))

	resultType := testutil.CreateResultType(t, f.DB, f.TypeID, "part-1", true)
	testutil.CreatePartial(t, f.DB, models.ResultPartial{
		ResultID: resultID, TypeID: resultType, Order: 1, Value: f64(325),
	})

	req := testutil.MakeRequest("DELETE", "/results/"+resultID, nil, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.DeleteResult(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	for _, q := range []string{
		`SELECT COUNT(*) FROM result WHERE id = $1`,
		`SELECT COUNT(*) FROM result_partial WHERE result_id = $1`,
		`SELECT COUNT(*) FROM record WHERE result_id = $1`,
	} {
		var n int
		if err := f.DB.QueryRow(q, resultID).Scan(&n); err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no rows left for %q, got %d", q, n)
		}
	}
}

func TestApproveResult(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))

	// Plain actors cannot approve.
	req := testutil.MakeRequest("POST", "/results/"+resultID+"/approve", nil, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.ApproveResult(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("POST", "/results/"+resultID+"/approve", nil, f.adminHeaders("official"))
	req.SetPathValue("id", resultID)
	w = httptest.NewRecorder()
	handler.ApproveResult(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var result models.Result
	testutil.AssertJSON(t, w, &result)
	if !result.Approved {
		t.Error("Expected result to be approved")
	}
}
