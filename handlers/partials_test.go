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

func TestUpsertPartial(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))
	resultType := testutil.CreateResultType(t, f.DB, f.TypeID, "part-1", true)

	submit := func(value float64) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/results/"+resultID+"/partials", models.UpsertPartialRequest{
			TypeID: resultType,
			Order:  1,
			Value:  f64(value),
		}, userHeaders("submitter"))
		req.SetPathValue("id", resultID)
		w := httptest.NewRecorder()
		handler.UpsertPartial(w, req)
		return w
	}

	w := submit(320)
	testutil.AssertStatus(t, w, http.StatusOK)
	var first models.ResultPartial
	testutil.AssertJSON(t, w, &first)
	if first.Value == nil || *first.Value != 320 {
		t.Errorf("Expected value 320, got %v", first.Value)
	}

	// Resubmitting the same type and order updates in place.
	w = submit(330)
	testutil.AssertStatus(t, w, http.StatusOK)
	var second models.ResultPartial
	testutil.AssertJSON(t, w, &second)
	if second.ID != first.ID {
		t.Errorf("Expected the same partial row, got %s and %s", first.ID, second.ID)
	}

	var n int
	if err := f.DB.QueryRow(`SELECT COUNT(*) FROM result_partial WHERE result_id = $1`, resultID).Scan(&n); err != nil {
		t.Fatalf("Failed to count partials: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 partial row, got %d", n)
	}
}

func TestUpsertPartialValidation(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))

	otherType := testutil.CreateCompetitionType(t, f.DB, "Compound 50m", f.SportID)
	foreignResultType := testutil.CreateResultType(t, f.DB, otherType, "foreign", true)

	tests := []struct {
		name           string
		body           models.UpsertPartialRequest
		expectedStatus int
	}{
		{
			name:           "missing type",
			body:           models.UpsertPartialRequest{Order: 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "order below one",
			body:           models.UpsertPartialRequest{TypeID: foreignResultType, Order: 0},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "result type of another competition type",
			body:           models.UpsertPartialRequest{TypeID: foreignResultType, Order: 1},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/results/"+resultID+"/partials", tt.body, userHeaders("submitter"))
			req.SetPathValue("id", resultID)
			w := httptest.NewRecorder()
			handler.UpsertPartial(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestUpsertPartialRegistersCandidate(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))
	resultType := testutil.CreateResultType(t, f.DB, f.TypeID, "part-1", true)
	testutil.CreateRecordLevel(t, f.DB, models.RecordLevel{
		Name: "Finnish partial record", Abbreviation: "SEo", Partial: true,
	}, []string{f.LevelID}, []string{f.TypeID})

	req := testutil.MakeRequest("POST", "/results/"+resultID+"/partials", models.UpsertPartialRequest{
		TypeID: resultType,
		Order:  1,
		Value:  f64(325),
	}, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.UpsertPartial(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var p models.ResultPartial
	testutil.AssertJSON(t, w, &p)

	var n int
	if err := f.DB.QueryRow(`SELECT COUNT(*) FROM record WHERE partial_result_id = $1`, p.ID).Scan(&n); err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 partial record candidate, got %d", n)
	}
}

func TestDeletePartial(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))
	resultType := testutil.CreateResultType(t, f.DB, f.TypeID, "part-1", true)
	testutil.CreateRecordLevel(t, f.DB, models.RecordLevel{
		Name: "Finnish partial record", Abbreviation: "SEo", Partial: true,
	}, []string{f.LevelID}, []string{f.TypeID})

	req := testutil.MakeRequest("POST", "/results/"+resultID+"/partials", models.UpsertPartialRequest{
		TypeID: resultType,
		Order:  1,
		Value:  f64(325),
	}, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	w := httptest.NewRecorder()
	handler.UpsertPartial(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var p models.ResultPartial
	testutil.AssertJSON(t, w, &p)

	req = testutil.MakeRequest("DELETE", "/results/"+resultID+"/partials/"+p.ID, nil, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	req.SetPathValue("partialID", p.ID)
	w = httptest.NewRecorder()
	handler.DeletePartial(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	for _, q := range []string{
		`SELECT COUNT(*) FROM result_partial WHERE id = $1`,
		`SELECT COUNT(*) FROM record WHERE partial_result_id = $1`,
	} {
		var n int
		if err := f.DB.QueryRow(q, p.ID).Scan(&n); err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no rows left for %q, got %d", q, n)
		}
	}
}

func TestDeletePartialWrongResult(t *testing.T) {
	f := setupWeb(t)
	handler := NewResultHandler(f.DB, f.Cfg)
	resultID := f.createResult(t, f64(650))
	otherResult := f.createResult(t, f64(640))
	resultType := testutil.CreateResultType(t, f.DB, f.TypeID, "part-1", true)
	partialID := testutil.CreatePartial(t, f.DB, models.ResultPartial{
		ResultID: otherResult, TypeID: resultType, Order: 1, Value: f64(300),
	})

	req := testutil.MakeRequest("DELETE", "/results/"+resultID+"/partials/"+partialID, nil, userHeaders("submitter"))
	req.SetPathValue("id", resultID)
	req.SetPathValue("partialID", partialID)
	w := httptest.NewRecorder()
	handler.DeletePartial(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
