// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/petrikoski/recordbook/cliparse"
	"github.com/petrikoski/recordbook/db"
	"github.com/petrikoski/recordbook/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// The pool is pinned to one connection because each SQLite in-memory
// connection is its own database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// CreateSport inserts a sport and returns its ID
func CreateSport(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO sport (id, name, abbreviation)
		VALUES ($1, $2, $3)
	`, id, name, name)
	if err != nil {
		t.Fatalf("Failed to create test sport: %v", err)
	}
	return id
}

// CreateCategory inserts a category and returns its ID
func CreateCategory(t *testing.T, db *sql.DB, c models.Category) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO category (id, name, abbreviation, sport_id, min_age, max_age, age_exact, gender, team, team_size, ordering, historical)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, c.Name, c.Abbreviation, nullStr(c.SportID), c.MinAge, c.MaxAge,
		b2i(c.AgeExact), c.Gender, b2i(c.Team), c.TeamSize, c.Order, b2i(c.Historical))
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

// CreateCategoryCheck links a category to a competition type with
// record-checking overrides and returns the check ID
func CreateCategoryCheck(t *testing.T, db *sql.DB, c models.CategoryCheck) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO category_check (id, category_id, type_id, max_result, min_result, disallow, check_record, check_record_partial, record_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, c.CategoryID, c.TypeID, c.MaxResult, c.MinResult,
		b2i(c.Disallow), b2i(c.CheckRecord), b2i(c.CheckRecordPartial), c.RecordGroup)
	if err != nil {
		t.Fatalf("Failed to create test category check: %v", err)
	}
	return id
}

// LimitPartial restricts a category check's partial records to a result type
func LimitPartial(t *testing.T, db *sql.DB, checkID, resultTypeID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO category_check_partial_limit (check_id, result_type_id)
		VALUES ($1, $2)
	`, checkID, resultTypeID)
	if err != nil {
		t.Fatalf("Failed to limit partial records: %v", err)
	}
}

// CreateLevel inserts a competition level and returns its ID
func CreateLevel(t *testing.T, db *sql.DB, name, abbreviation string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO competition_level (id, name, abbreviation)
		VALUES ($1, $2, $3)
	`, id, name, abbreviation)
	if err != nil {
		t.Fatalf("Failed to create test competition level: %v", err)
	}
	return id
}

// CreateCompetitionType inserts a competition type and returns its ID
func CreateCompetitionType(t *testing.T, db *sql.DB, name, sportID string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO competition_type (id, name, abbreviation, sport_id)
		VALUES ($1, $2, $3, $4)
	`, id, name, name, nullStr(sportID))
	if err != nil {
		t.Fatalf("Failed to create test competition type: %v", err)
	}
	return id
}

// CreateResultType inserts a partial result type for a competition type
func CreateResultType(t *testing.T, db *sql.DB, typeID, abbreviation string, records bool) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO competition_result_type (id, competition_type_id, name, abbreviation, records)
		VALUES ($1, $2, $3, $4, $5)
	`, id, typeID, abbreviation, abbreviation, b2i(records))
	if err != nil {
		t.Fatalf("Failed to create test result type: %v", err)
	}
	return id
}

// CreateArea inserts an area and returns its ID
func CreateArea(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO area (id, name, abbreviation)
		VALUES ($1, $2, $3)
	`, id, name, name)
	if err != nil {
		t.Fatalf("Failed to create test area: %v", err)
	}
	return id
}

// CreateOrganization inserts an organization and returns its ID
func CreateOrganization(t *testing.T, db *sql.DB, name string, external bool) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO organization (id, name, abbreviation, external)
		VALUES ($1, $2, $3, $4)
	`, id, name, name, b2i(external))
	if err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	return id
}

// AddOrganizationArea places an organization inside an area
func AddOrganizationArea(t *testing.T, db *sql.DB, organizationID, areaID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO organization_area (organization_id, area_id)
		VALUES ($1, $2)
	`, organizationID, areaID)
	if err != nil {
		t.Fatalf("Failed to add organization to area: %v", err)
	}
}

// CreateAthlete inserts an athlete and returns its ID
func CreateAthlete(t *testing.T, db *sql.DB, a models.Athlete) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO athlete (id, first_name, last_name, license_id, date_of_birth, gender, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, a.FirstName, a.LastName, nullStr(a.LicenseID), nullStr(a.DateOfBirth),
		a.Gender, nullStr(a.OrganizationID))
	if err != nil {
		t.Fatalf("Failed to create test athlete: %v", err)
	}
	return id
}

// CreateEvent inserts an event and returns its ID
func CreateEvent(t *testing.T, db *sql.DB, e models.Event) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO event (id, name, date_start, date_end, organization_id, approved, locked, public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, e.Name, e.DateStart, e.DateEnd, nullStr(e.OrganizationID),
		b2i(e.Approved), b2i(e.Locked), b2i(e.Public))
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return id
}

// CreateCompetition inserts a competition and returns its ID
func CreateCompetition(t *testing.T, db *sql.DB, c models.Competition) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO competition (id, name, location, date_start, date_end, event_id, organization_id, type_id, level_id, approved, locked, public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, c.Name, c.Location, c.DateStart, c.DateEnd, nullStr(c.EventID),
		nullStr(c.OrganizationID), c.TypeID, c.LevelID,
		b2i(c.Approved), b2i(c.Locked), b2i(c.Public))
	if err != nil {
		t.Fatalf("Failed to create test competition: %v", err)
	}
	return id
}

// CreateRecordLevel inserts a record level with its competition level and
// type sets, and returns its ID
func CreateRecordLevel(t *testing.T, db *sql.DB, rl models.RecordLevel, levelIDs, typeIDs []string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO record_level (id, name, abbreviation, area_id, base, partial, personal, team, decimals, ordering, historical)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, rl.Name, rl.Abbreviation, nullStr(rl.AreaID), b2i(rl.Base), b2i(rl.Partial),
		b2i(rl.Personal), b2i(rl.Team), b2i(rl.Decimals), rl.Order, b2i(rl.Historical))
	if err != nil {
		t.Fatalf("Failed to create test record level: %v", err)
	}

	for _, levelID := range levelIDs {
		_, err := db.Exec(`
			INSERT INTO record_level_level (record_level_id, level_id)
			VALUES ($1, $2)
		`, id, levelID)
		if err != nil {
			t.Fatalf("Failed to link record level to competition level: %v", err)
		}
	}
	for _, typeID := range typeIDs {
		_, err := db.Exec(`
			INSERT INTO record_level_type (record_level_id, type_id)
			VALUES ($1, $2)
		`, id, typeID)
		if err != nil {
			t.Fatalf("Failed to link record level to competition type: %v", err)
		}
	}
	return id
}

// CreateResult inserts a result, with team members when set, and returns its ID
func CreateResult(t *testing.T, db *sql.DB, r models.Result) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO result (id, competition_id, athlete_id, organization_id, category_id, result, decimals, position, approved, team, info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, r.CompetitionID, nullStr(r.AthleteID), nullStr(r.OrganizationID),
		r.CategoryID, r.Result, r.Decimals, r.Position,
		b2i(r.Approved), b2i(r.Team), r.Info)
	if err != nil {
		t.Fatalf("Failed to create test result: %v", err)
	}

	for _, athleteID := range r.TeamMembers {
		_, err := db.Exec(`
			INSERT INTO result_team_member (result_id, athlete_id)
			VALUES ($1, $2)
		`, id, athleteID)
		if err != nil {
			t.Fatalf("Failed to create test team member: %v", err)
		}
	}
	return id
}

// CreatePartial inserts a partial value for a result and returns its ID
func CreatePartial(t *testing.T, db *sql.DB, p models.ResultPartial) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO result_partial (id, result_id, type_id, ordering, value, decimals)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, p.ResultID, p.TypeID, p.Order, p.Value, p.Decimals)
	if err != nil {
		t.Fatalf("Failed to create test partial: %v", err)
	}
	return id
}

// CountRecords returns how many records match the given filters. Pass -1 for
// approved to count both.
func CountRecords(t *testing.T, db *sql.DB, resultID string, approved int) int {
	t.Helper()

	query := `SELECT COUNT(*) FROM record WHERE result_id = $1`
	args := []interface{}{resultID}
	if approved >= 0 {
		query += ` AND approved = $2`
		args = append(args, approved)
	}

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
