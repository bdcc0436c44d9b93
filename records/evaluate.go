// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/petrikoski/recordbook/cliparse"
)

// fullRecordLevels returns the record levels a full result can be measured
// against: active base levels of the right shape and decimal precision whose
// level/type sets contain the competition, and whose area (if any) contains
// the result's organization.
func fullRecordLevels(db *sql.DB, info *resultInfo) ([]string, error) {
	shape := "rl.personal = 1"
	if info.Team {
		shape = "rl.team = 1"
	}
	query := `
		SELECT rl.id FROM record_level rl
		WHERE rl.historical = 0
		  AND rl.base = 1
		  AND ` + shape + `
		  AND rl.decimals = $1
		  AND rl.id IN (SELECT ll.record_level_id FROM record_level_level ll WHERE ll.level_id = $2)
		  AND rl.id IN (SELECT lt.record_level_id FROM record_level_type lt WHERE lt.type_id = $3)
		  AND (rl.area_id IS NULL OR rl.area_id IN (
		      SELECT oa.area_id FROM organization_area oa WHERE oa.organization_id = $4))
		ORDER BY rl.ordering, rl.name`
	return queryIDs(db, query, b2i(info.Decimals > 0), info.LevelID, info.TypeID, info.OrganizationID.String)
}

// partialRecordLevels is the partial-shape variant. Partial levels are not
// filtered on decimals or the personal/team flags.
func partialRecordLevels(db *sql.DB, info *resultInfo) ([]string, error) {
	query := `
		SELECT rl.id FROM record_level rl
		WHERE rl.historical = 0
		  AND rl.partial = 1
		  AND rl.id IN (SELECT ll.record_level_id FROM record_level_level ll WHERE ll.level_id = $1)
		  AND rl.id IN (SELECT lt.record_level_id FROM record_level_type lt WHERE lt.type_id = $2)
		  AND (rl.area_id IS NULL OR rl.area_id IN (
		      SELECT oa.area_id FROM organization_area oa WHERE oa.organization_id = $3))
		ORDER BY rl.ordering, rl.name`
	return queryIDs(db, query, info.LevelID, info.TypeID, info.OrganizationID.String)
}

// fullRecordBlocked reports whether an existing current record prevents the
// result from becoming a candidate in the (level, type, category) group.
//
// Strict policy: blocked by an equal-or-better value on an earlier date, or
// a strictly better value on the same date. Ties from the same date
// co-exist; a later equal value does not register.
//
// Same-value policy: blocked only by a strictly better value, or by an
// equal value from the same athlete (personal) or by an overlapping team of
// the same organization (team).
func fullRecordBlocked(db *sql.DB, cfg cliparse.Config, info *resultInfo, levelID, categoryID string) (bool, error) {
	var query string
	var args []interface{}

	if cfg.RecordSameValue {
		if info.Team {
			query = `
				SELECT EXISTS(
					SELECT 1 FROM record rec
					JOIN result res ON res.id = rec.result_id
					WHERE rec.level_id = $1 AND rec.type_id = $2 AND rec.category_id = $3
					  AND rec.partial_result_id IS NULL AND rec.date_end IS NULL AND rec.historical = 0
					  AND rec.date_start <= $4
					  AND (res.result > $5
					    OR (res.result = $5
					        AND res.organization_id = $6
					        AND EXISTS(
					            SELECT 1 FROM result_team_member m
					            JOIN result_team_member mine ON mine.athlete_id = m.athlete_id
					            WHERE m.result_id = res.id AND mine.result_id = $7))))`
			args = []interface{}{levelID, info.TypeID, categoryID,
				info.CompetitionDate, info.Value.Float64, info.OrganizationID.String, info.ID}
		} else {
			query = `
				SELECT EXISTS(
					SELECT 1 FROM record rec
					JOIN result res ON res.id = rec.result_id
					WHERE rec.level_id = $1 AND rec.type_id = $2 AND rec.category_id = $3
					  AND rec.partial_result_id IS NULL AND rec.date_end IS NULL AND rec.historical = 0
					  AND rec.date_start <= $4
					  AND (res.result > $5
					    OR (res.result = $5
					        AND ((res.athlete_id IS NULL AND $6 IS NULL) OR res.athlete_id = $6))))`
			args = []interface{}{levelID, info.TypeID, categoryID,
				info.CompetitionDate, info.Value.Float64, info.AthleteID}
		}
	} else {
		query = `
			SELECT EXISTS(
				SELECT 1 FROM record rec
				JOIN result res ON res.id = rec.result_id
				WHERE rec.level_id = $1 AND rec.type_id = $2 AND rec.category_id = $3
				  AND rec.partial_result_id IS NULL AND rec.date_end IS NULL AND rec.historical = 0
				  AND ((res.result >= $4 AND rec.date_start < $5)
				    OR (res.result > $4 AND rec.date_start = $5)))`
		args = []interface{}{levelID, info.TypeID, categoryID,
			info.Value.Float64, info.CompetitionDate}
	}

	var blocked bool
	if err := db.QueryRow(query, args...).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to evaluate record candidate: %w", err)
	}
	return blocked, nil
}

// partialRecordBlocked is the partial-result variant, scoped within records
// of the same partial type. The strict branch differs from the full-result
// rule on same-day ties: a same-day equal partial blocks.
func partialRecordBlocked(db *sql.DB, cfg cliparse.Config, info *resultInfo, partial *partialInfo, levelID, categoryID string) (bool, error) {
	var query string
	var args []interface{}

	if cfg.RecordSameValue {
		query = `
			SELECT EXISTS(
				SELECT 1 FROM record rec
				JOIN result_partial rp ON rp.id = rec.partial_result_id
				JOIN result res ON res.id = rec.result_id
				WHERE rec.level_id = $1 AND rec.type_id = $2 AND rec.category_id = $3
				  AND rp.type_id = $4 AND rec.date_end IS NULL AND rec.historical = 0
				  AND rec.date_start <= $5
				  AND (rp.value > $6
				    OR (rp.value = $6
				        AND ((res.athlete_id IS NULL AND $7 IS NULL) OR res.athlete_id = $7))))`
		args = []interface{}{levelID, info.TypeID, categoryID, partial.TypeID,
			info.CompetitionDate, partial.Value.Float64, info.AthleteID}
	} else {
		query = `
			SELECT EXISTS(
				SELECT 1 FROM record rec
				JOIN result_partial rp ON rp.id = rec.partial_result_id
				WHERE rec.level_id = $1 AND rec.type_id = $2 AND rec.category_id = $3
				  AND rp.type_id = $4 AND rec.date_end IS NULL AND rec.historical = 0
				  AND ((rp.value >= $5 AND rec.date_start < $6)
				    OR (rp.value = $5 AND rec.date_start = $6)))`
		args = []interface{}{levelID, info.TypeID, categoryID, partial.TypeID,
			partial.Value.Float64, info.CompetitionDate}
	}

	var blocked bool
	if err := db.QueryRow(query, args...).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to evaluate partial record candidate: %w", err)
	}
	return blocked, nil
}

// createFullRecord inserts a candidate record unless one already exists for
// the same (result, level, type, category, date) key, then drops unapproved
// candidates in the group that the new value supersedes. A malformed
// duplicate key resolves to the first row and is treated as existing.
func createFullRecord(db *sql.DB, info *resultInfo, levelID, categoryID string) error {
	var existing string
	err := db.QueryRow(`
		SELECT id FROM record
		WHERE result_id = $1 AND partial_result_id IS NULL
		  AND level_id = $2 AND type_id = $3 AND category_id = $4 AND date_start = $5
		LIMIT 1
	`, info.ID, levelID, info.TypeID, categoryID, info.CompetitionDate).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err = db.Exec(`
			INSERT INTO record (id, result_id, level_id, type_id, category_id, approved, date_start)
			VALUES ($1, $2, $3, $4, $5, 0, $6)
		`, uuid.NewString(), info.ID, levelID, info.TypeID, categoryID, info.CompetitionDate)
		if err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up record: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE approved = 0 AND partial_result_id IS NULL
		  AND level_id = $1 AND type_id = $2 AND category_id = $3
		  AND date_start >= $4
		  AND result_id IN (SELECT id FROM result WHERE result < $5)
	`, levelID, info.TypeID, categoryID, info.CompetitionDate, info.Value.Float64)
	if err != nil {
		return fmt.Errorf("failed to clean up superseded candidates: %w", err)
	}
	return nil
}

func createPartialRecord(db *sql.DB, info *resultInfo, partial *partialInfo, levelID, categoryID string) error {
	var existing string
	err := db.QueryRow(`
		SELECT id FROM record
		WHERE result_id = $1 AND partial_result_id = $2
		  AND level_id = $3 AND type_id = $4 AND category_id = $5 AND date_start = $6
		LIMIT 1
	`, info.ID, partial.ID, levelID, info.TypeID, categoryID, info.CompetitionDate).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err = db.Exec(`
			INSERT INTO record (id, result_id, partial_result_id, level_id, type_id, category_id, approved, date_start)
			VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		`, uuid.NewString(), info.ID, partial.ID, levelID, info.TypeID, categoryID, info.CompetitionDate)
		if err != nil {
			return fmt.Errorf("failed to create partial record: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up partial record: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE approved = 0
		  AND level_id = $1 AND type_id = $2 AND category_id = $3
		  AND date_start >= $4
		  AND partial_result_id IN (
		      SELECT id FROM result_partial WHERE type_id = $5 AND value < $6)
	`, levelID, info.TypeID, categoryID, info.CompetitionDate, partial.TypeID, partial.Value.Float64)
	if err != nil {
		return fmt.Errorf("failed to clean up superseded partial candidates: %w", err)
	}
	return nil
}

func queryIDs(db *sql.DB, query string, args ...interface{}) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query record levels: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
