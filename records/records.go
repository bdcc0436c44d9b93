// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"database/sql"
	"fmt"

	"github.com/petrikoski/recordbook/cliparse"
)

// resultInfo is the slice of a result row the engine needs, with the owning
// competition and organization joined in.
type resultInfo struct {
	ID              string
	CompetitionID   string
	CompetitionDate string
	TypeID          string
	SportID         sql.NullString
	LevelID         string
	CategoryID      string
	OrganizationID  sql.NullString
	External        bool
	AthleteID       sql.NullString
	Value           sql.NullFloat64
	Decimals        int
	Team            bool
}

type partialInfo struct {
	ID          string
	ResultID    string
	TypeID      string
	TypeRecords bool
	Order       int
	Value       sql.NullFloat64
	Decimals    int
}

// CheckResult recomputes the unapproved full-result record candidates for a
// result. It must run synchronously after every save of the result so that
// record rows are visible as soon as the save returns.
//
// All unapproved full-result candidates for the result are dropped first and
// then recreated from scratch; approved records are never touched here.
func CheckResult(db *sql.DB, cfg cliparse.Config, resultID string) error {
	info, err := loadResult(db, resultID)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE result_id = $1 AND partial_result_id IS NULL AND approved = 0
	`, info.ID)
	if err != nil {
		return fmt.Errorf("failed to clear record candidates: %w", err)
	}

	// No value, no organization or an external organization: nothing to claim.
	if !info.Value.Valid || !info.OrganizationID.Valid || info.External {
		return nil
	}

	categories, err := eligibleCategories(db, info, nil)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	levels, err := fullRecordLevels(db, info)
	if err != nil {
		return err
	}

	for _, levelID := range levels {
		for _, categoryID := range categories {
			blocked, err := fullRecordBlocked(db, cfg, info, levelID, categoryID)
			if err != nil {
				return err
			}
			if !blocked {
				if err := createFullRecord(db, info, levelID, categoryID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CheckPartial recomputes the unapproved record candidates tied to a single
// partial result, scoped to record levels with the partial flag.
func CheckPartial(db *sql.DB, cfg cliparse.Config, partialID string) error {
	partial, err := loadPartial(db, partialID)
	if err != nil {
		return err
	}
	info, err := loadResult(db, partial.ResultID)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE partial_result_id = $1 AND approved = 0
	`, partial.ID)
	if err != nil {
		return fmt.Errorf("failed to clear partial record candidates: %w", err)
	}

	if !partial.TypeRecords || !partial.Value.Valid || !info.OrganizationID.Valid || info.External {
		return nil
	}

	categories, err := eligibleCategories(db, info, partial)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	levels, err := partialRecordLevels(db, info)
	if err != nil {
		return err
	}

	for _, levelID := range levels {
		for _, categoryID := range categories {
			blocked, err := partialRecordBlocked(db, cfg, info, partial, levelID, categoryID)
			if err != nil {
				return err
			}
			if !blocked {
				if err := createPartialRecord(db, info, partial, levelID, categoryID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func loadResult(db *sql.DB, resultID string) (*resultInfo, error) {
	var info resultInfo
	err := db.QueryRow(`
		SELECT r.id, r.competition_id, c.date_start, c.type_id, ct.sport_id,
		       c.level_id, r.category_id, r.organization_id,
		       COALESCE(o.external, 0), r.athlete_id, r.result, r.decimals, r.team
		FROM result r
		JOIN competition c ON c.id = r.competition_id
		JOIN competition_type ct ON ct.id = c.type_id
		LEFT JOIN organization o ON o.id = r.organization_id
		WHERE r.id = $1
	`, resultID).Scan(
		&info.ID, &info.CompetitionID, &info.CompetitionDate, &info.TypeID,
		&info.SportID, &info.LevelID, &info.CategoryID, &info.OrganizationID,
		&info.External, &info.AthleteID, &info.Value, &info.Decimals, &info.Team,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load result %s: %w", resultID, err)
	}
	return &info, nil
}

func loadPartial(db *sql.DB, partialID string) (*partialInfo, error) {
	var partial partialInfo
	err := db.QueryRow(`
		SELECT rp.id, rp.result_id, rp.type_id, rt.records, rp.ordering, rp.value, rp.decimals
		FROM result_partial rp
		JOIN competition_result_type rt ON rt.id = rp.type_id
		WHERE rp.id = $1
	`, partialID).Scan(
		&partial.ID, &partial.ResultID, &partial.TypeID, &partial.TypeRecords,
		&partial.Order, &partial.Value, &partial.Decimals,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load partial result %s: %w", partialID, err)
	}
	return &partial, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
