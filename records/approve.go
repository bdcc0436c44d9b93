// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"database/sql"
	"fmt"
)

// CascadeApproval settles a record group after a record is approved. Current
// records of the same (level, type, category) group and shape with a strictly
// lower value are closed with the new record's start date if approved, or
// deleted if still candidates. Call it only on a false to true transition.
func CascadeApproval(db *sql.DB, recordID string) error {
	var (
		levelID, typeID, categoryID, dateStart string
		partialID                              sql.NullString
		value                                  float64
	)
	err := db.QueryRow(`
		SELECT rec.level_id, rec.type_id, rec.category_id, rec.date_start, rec.partial_result_id,
		       COALESCE(rp.value, res.result)
		FROM record rec
		JOIN result res ON res.id = rec.result_id
		LEFT JOIN result_partial rp ON rp.id = rec.partial_result_id
		WHERE rec.id = $1
	`, recordID).Scan(&levelID, &typeID, &categoryID, &dateStart, &partialID, &value)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", recordID, err)
	}

	if partialID.Valid {
		var partialTypeID string
		err = db.QueryRow(`SELECT type_id FROM result_partial WHERE id = $1`, partialID.String).Scan(&partialTypeID)
		if err != nil {
			return fmt.Errorf("failed to load partial result: %w", err)
		}
		return cascadePartial(db, recordID, levelID, typeID, categoryID, dateStart, partialTypeID, value)
	}
	return cascadeFull(db, recordID, levelID, typeID, categoryID, dateStart, value)
}

func cascadeFull(db *sql.DB, recordID, levelID, typeID, categoryID, dateStart string, value float64) error {
	_, err := db.Exec(`
		UPDATE record SET date_end = $1
		WHERE approved = 1 AND id <> $2
		  AND level_id = $3 AND type_id = $4 AND category_id = $5
		  AND date_end IS NULL AND historical = 0 AND partial_result_id IS NULL
		  AND result_id IN (SELECT id FROM result WHERE result < $6)
	`, dateStart, recordID, levelID, typeID, categoryID, value)
	if err != nil {
		return fmt.Errorf("failed to close superseded records: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE approved = 0 AND id <> $1
		  AND level_id = $2 AND type_id = $3 AND category_id = $4
		  AND date_end IS NULL AND historical = 0 AND partial_result_id IS NULL
		  AND result_id IN (SELECT id FROM result WHERE result < $5)
	`, recordID, levelID, typeID, categoryID, value)
	if err != nil {
		return fmt.Errorf("failed to drop superseded candidates: %w", err)
	}
	return nil
}

func cascadePartial(db *sql.DB, recordID, levelID, typeID, categoryID, dateStart, partialTypeID string, value float64) error {
	_, err := db.Exec(`
		UPDATE record SET date_end = $1
		WHERE approved = 1 AND id <> $2
		  AND level_id = $3 AND type_id = $4 AND category_id = $5
		  AND date_end IS NULL AND historical = 0
		  AND partial_result_id IN (
		      SELECT id FROM result_partial WHERE type_id = $6 AND value < $7)
	`, dateStart, recordID, levelID, typeID, categoryID, partialTypeID, value)
	if err != nil {
		return fmt.Errorf("failed to close superseded partial records: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM record
		WHERE approved = 0 AND id <> $1
		  AND level_id = $2 AND type_id = $3 AND category_id = $4
		  AND date_end IS NULL AND historical = 0
		  AND partial_result_id IN (
		      SELECT id FROM result_partial WHERE type_id = $5 AND value < $6)
	`, recordID, levelID, typeID, categoryID, partialTypeID, value)
	if err != nil {
		return fmt.Errorf("failed to drop superseded partial candidates: %w", err)
	}
	return nil
}
