// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Gender codes. Empty string on a category means any gender.
const (
	GenderMan     = "M"
	GenderWoman   = "W"
	GenderOther   = "O"
	GenderUnknown = "U"
)

// Request types

type CreateResultRequest struct {
	CompetitionID  string   `json:"competition_id"`
	AthleteID      string   `json:"athlete_id,omitempty"`
	OrganizationID string   `json:"organization_id"`
	CategoryID     string   `json:"category_id"`
	Result         *float64 `json:"result,omitempty"`
	Decimals       int      `json:"decimals"`
	Position       *int     `json:"position,omitempty"`
	Team           bool     `json:"team"`
	TeamMembers    []string `json:"team_members,omitempty"`
	Info           string   `json:"info,omitempty"`
}

type UpdateResultRequest struct {
	Result   *float64 `json:"result,omitempty"`
	Decimals int      `json:"decimals"`
	Position *int     `json:"position,omitempty"`
	Info     string   `json:"info,omitempty"`
}

// Upsert key is (result, type, order); value and decimals are the payload.
type UpsertPartialRequest struct {
	TypeID   string   `json:"type_id"`
	Order    int      `json:"order"`
	Value    *float64 `json:"value,omitempty"`
	Decimals int      `json:"decimals"`
}

type CreateCompetitionRequest struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	DateStart      string `json:"date_start"`
	DateEnd        string `json:"date_end"`
	EventID        string `json:"event_id,omitempty"`
	OrganizationID string `json:"organization_id"`
	TypeID         string `json:"type_id"`
	LevelID        string `json:"level_id"`
	Public         bool   `json:"public"`
}

type CreateEventRequest struct {
	Name           string `json:"name"`
	DateStart      string `json:"date_start"`
	DateEnd        string `json:"date_end"`
	OrganizationID string `json:"organization_id"`
	Public         bool   `json:"public"`
}

type CreateAthleteRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	LicenseID      string `json:"license_id,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Gender         string `json:"gender"`
	OrganizationID string `json:"organization_id"`
}

// Domain types

type Sport struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Order        int    `json:"order"`
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	SportID      string `json:"sport_id,omitempty"`
	MinAge       *int   `json:"min_age,omitempty"`
	MaxAge       *int   `json:"max_age,omitempty"`
	AgeExact     bool   `json:"age_exact"`
	Gender       string `json:"gender,omitempty"`
	Team         bool   `json:"team"`
	TeamSize     *int   `json:"team_size,omitempty"`
	Order        int    `json:"order"`
	Historical   bool   `json:"historical"`
}

// CategoryCheck scopes a category to a competition type with per-pair
// record-checking overrides. Rows sharing (type, record group) form the
// interchangeable category set for record comparison.
type CategoryCheck struct {
	ID                 string   `json:"id"`
	CategoryID         string   `json:"category_id"`
	TypeID             string   `json:"type_id"`
	MaxResult          *float64 `json:"max_result,omitempty"`
	MinResult          *float64 `json:"min_result,omitempty"`
	Disallow           bool     `json:"disallow"`
	CheckRecord        bool     `json:"check_record"`
	CheckRecordPartial bool     `json:"check_record_partial"`
	RecordGroup        *int     `json:"record_group,omitempty"`
}

type CompetitionLevel struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Abbreviation    string `json:"abbreviation"`
	AreaCompetition bool   `json:"area_competition"`
	RequireApproval bool   `json:"require_approval"`
	Historical      bool   `json:"historical"`
}

type CompetitionType struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	SportID      string   `json:"sport_id,omitempty"`
	MaxResult    *float64 `json:"max_result,omitempty"`
	MinResult    *float64 `json:"min_result,omitempty"`
}

type CompetitionResultType struct {
	ID                string   `json:"id"`
	CompetitionTypeID string   `json:"competition_type_id"`
	Name              string   `json:"name"`
	Abbreviation      string   `json:"abbreviation"`
	MaxResult         *float64 `json:"max_result,omitempty"`
	MinResult         *float64 `json:"min_result,omitempty"`
	Records           bool     `json:"records"`
}

type Area struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Organization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	External     bool   `json:"external"`
	Historical   bool   `json:"historical"`
}

type Athlete struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	LicenseID      string `json:"license_id,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Gender         string `json:"gender"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type Event struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DateStart      string `json:"date_start"`
	DateEnd        string `json:"date_end"`
	OrganizationID string `json:"organization_id,omitempty"`
	Approved       bool   `json:"approved"`
	Locked         bool   `json:"locked"`
	Public         bool   `json:"public"`
}

type Competition struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	DateStart      string `json:"date_start"`
	DateEnd        string `json:"date_end"`
	EventID        string `json:"event_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	TypeID         string `json:"type_id"`
	LevelID        string `json:"level_id"`
	Approved       bool   `json:"approved"`
	Locked         bool   `json:"locked"`
	Public         bool   `json:"public"`
}

type Result struct {
	ID             string   `json:"id"`
	CompetitionID  string   `json:"competition_id"`
	AthleteID      string   `json:"athlete_id,omitempty"`
	OrganizationID string   `json:"organization_id,omitempty"`
	CategoryID     string   `json:"category_id"`
	Result         *float64 `json:"result,omitempty"`
	Decimals       int      `json:"decimals"`
	Position       *int     `json:"position,omitempty"`
	Approved       bool     `json:"approved"`
	Team           bool     `json:"team"`
	TeamMembers    []string `json:"team_members,omitempty"`
	Info           string   `json:"info,omitempty"`
}

type ResultPartial struct {
	ID       string   `json:"id"`
	ResultID string   `json:"result_id"`
	TypeID   string   `json:"type_id"`
	Order    int      `json:"order"`
	Value    *float64 `json:"value,omitempty"`
	Decimals int      `json:"decimals"`
}

type RecordLevel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	AreaID       string `json:"area_id,omitempty"`
	Base         bool   `json:"base"`
	Partial      bool   `json:"partial"`
	Personal     bool   `json:"personal"`
	Team         bool   `json:"team"`
	Decimals     bool   `json:"decimals"`
	Order        int    `json:"order"`
	Historical   bool   `json:"historical"`
}

// Record is a persisted claim that a result (or partial result) is the
// best-known value for a (level, type, category) group. A nil DateEnd means
// the record is still current; PartialResultID nil means a full-result record.
type Record struct {
	ID              string   `json:"id"`
	ResultID        string   `json:"result_id"`
	PartialResultID string   `json:"partial_result_id,omitempty"`
	LevelID         string   `json:"level_id"`
	TypeID          string   `json:"type_id"`
	CategoryID      string   `json:"category_id"`
	Approved        bool     `json:"approved"`
	DateStart       string   `json:"date_start"`
	DateEnd         string   `json:"date_end,omitempty"`
	Info            string   `json:"info,omitempty"`
	Historical      bool     `json:"historical"`
	Value           *float64 `json:"value,omitempty"`
}

type ResultWithPartials struct {
	Result   Result          `json:"result"`
	Partials []ResultPartial `json:"partials"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
