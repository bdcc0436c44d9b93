// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package records

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/petrikoski/recordbook/models"
)

type categoryCheck struct {
	ID                 string
	CheckRecord        bool
	CheckRecordPartial bool
	RecordGroup        sql.NullInt64
}

// eligibleCategories resolves the set of categories a record check applies
// to. Without a record group the result's own category is the only
// candidate; with one, every category linked to the same (type, group) pair
// that the athlete or team fits by gender, age and team size is eligible.
func eligibleCategories(db *sql.DB, info *resultInfo, partial *partialInfo) ([]string, error) {
	check, err := loadCategoryCheck(db, info.TypeID, info.CategoryID)
	if err != nil {
		return nil, err
	}

	if check != nil {
		if partial == nil && !check.CheckRecord {
			return nil, nil
		}
		if partial != nil {
			if !check.CheckRecordPartial {
				return nil, nil
			}
			var limited bool
			err := db.QueryRow(`
				SELECT EXISTS(
					SELECT 1 FROM category_check_partial_limit
					WHERE check_id = $1 AND result_type_id = $2
				)
			`, check.ID, partial.TypeID).Scan(&limited)
			if err != nil {
				return nil, fmt.Errorf("failed to query partial limits: %w", err)
			}
			if limited {
				return nil, nil
			}
		}
	}

	if check == nil || !check.RecordGroup.Valid {
		return []string{info.CategoryID}, nil
	}

	maxAge, minAge, gender, members, err := athleteConstraints(db, info)
	if err != nil {
		return nil, err
	}

	// Mirror the conditional shape of the lookup: the age and team size
	// clauses only apply when the underlying data exists.
	conds := []string{
		"(c.gender = '' OR c.gender = $1)",
		"c.sport_id = $2",
		"c.team = $3",
	}
	args := []interface{}{gender, info.SportID, b2i(info.Team)}

	if maxAge.Valid {
		args = append(args, maxAge.Int64)
		conds = append(conds, fmt.Sprintf("(c.max_age IS NULL OR c.max_age >= $%d)", len(args)))
	}
	if minAge.Valid {
		args = append(args, minAge.Int64)
		conds = append(conds, fmt.Sprintf("(c.min_age IS NULL OR c.min_age <= $%d)", len(args)))
	}
	if info.Team {
		args = append(args, members)
		conds = append(conds, fmt.Sprintf("(c.team_size IS NULL OR c.team_size = $%d)", len(args)))
	}

	args = append(args, info.TypeID)
	typeArg := len(args)
	args = append(args, check.RecordGroup.Int64)
	groupArg := len(args)
	conds = append(conds, fmt.Sprintf(
		"c.id IN (SELECT cc.category_id FROM category_check cc WHERE cc.type_id = $%d AND cc.record_group = $%d)",
		typeArg, groupArg))

	query := "SELECT c.id FROM category c WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY c.ordering, c.name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, id)
	}
	return categories, rows.Err()
}

func loadCategoryCheck(db *sql.DB, typeID, categoryID string) (*categoryCheck, error) {
	var check categoryCheck
	err := db.QueryRow(`
		SELECT id, check_record, check_record_partial, record_group
		FROM category_check
		WHERE type_id = $1 AND category_id = $2
	`, typeID, categoryID).Scan(
		&check.ID, &check.CheckRecord, &check.CheckRecordPartial, &check.RecordGroup,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category check: %w", err)
	}
	return &check, nil
}

// athleteConstraints derives the age span, resolved gender and member count
// from the athlete or the whole team. Ages use the calendar-year difference
// to the competition start; the day-precision age_exact rule belongs to
// request validation, not to record broadening. Gender resolves to M or W
// only when every athlete with a recorded gender agrees.
func athleteConstraints(db *sql.DB, info *resultInfo) (maxAge, minAge sql.NullInt64, gender string, members int, err error) {
	var rows *sql.Rows
	if info.Team {
		rows, err = db.Query(`
			SELECT a.date_of_birth, a.gender
			FROM athlete a
			JOIN result_team_member m ON m.athlete_id = a.id
			WHERE m.result_id = $1
		`, info.ID)
	} else {
		if !info.AthleteID.Valid {
			return maxAge, minAge, "", 0, nil
		}
		rows, err = db.Query(`
			SELECT a.date_of_birth, a.gender FROM athlete a WHERE a.id = $1
		`, info.AthleteID.String)
	}
	if err != nil {
		return maxAge, minAge, "", 0, fmt.Errorf("failed to query athletes: %w", err)
	}
	defer rows.Close()

	competitionYear := 0
	if len(info.CompetitionDate) >= 4 {
		competitionYear, _ = strconv.Atoi(info.CompetitionDate[:4])
	}

	var sawMan, sawWoman bool
	for rows.Next() {
		var dob sql.NullString
		var g string
		if err := rows.Scan(&dob, &g); err != nil {
			return maxAge, minAge, "", 0, fmt.Errorf("failed to scan athlete: %w", err)
		}
		members++
		if dob.Valid && len(dob.String) >= 4 {
			birthYear, convErr := strconv.Atoi(dob.String[:4])
			if convErr == nil {
				age := int64(competitionYear - birthYear)
				if !maxAge.Valid || age > maxAge.Int64 {
					maxAge = sql.NullInt64{Int64: age, Valid: true}
				}
				if !minAge.Valid || age < minAge.Int64 {
					minAge = sql.NullInt64{Int64: age, Valid: true}
				}
			}
		}
		switch g {
		case models.GenderMan:
			sawMan = true
		case models.GenderWoman:
			sawWoman = true
		}
	}
	if err := rows.Err(); err != nil {
		return maxAge, minAge, "", 0, err
	}

	if sawMan && !sawWoman {
		gender = models.GenderMan
	} else if sawWoman && !sawMan {
		gender = models.GenderWoman
	}
	return maxAge, minAge, gender, members, nil
}
