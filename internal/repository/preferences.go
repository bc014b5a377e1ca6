package repository

import (
	"database/sql"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
)

func (r *Repository) InsertPreference(pref *domain.Preference) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO preferences (month, staff, request_text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, pref.Month, pref.Staff, pref.Text, pref.CreatedAt).Scan(&pref.ID)
}

// GetPreferencesByMonth 按提交顺序返回某个月的全部希望
func (r *Repository) GetPreferencesByMonth(month string) ([]*domain.Preference, error) {
	query := `
		SELECT id, month, staff, request_text, created_at
		FROM preferences
		WHERE month = $1
		ORDER BY created_at ASC, id ASC
	`

	return r.queryPreferences(query, month)
}

func (r *Repository) GetPreferencesByMonthAndStaff(month string, staff string) ([]*domain.Preference, error) {
	query := `
		SELECT id, month, staff, request_text, created_at
		FROM preferences
		WHERE month = $1 AND staff = $2
		ORDER BY created_at ASC, id ASC
	`

	return r.queryPreferences(query, month, staff)
}

func (r *Repository) queryPreferences(query string, args ...any) ([]*domain.Preference, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPreferences(rows)
}

func scanPreferences(rows *sql.Rows) ([]*domain.Preference, error) {
	prefs := make([]*domain.Preference, 0)
	for rows.Next() {
		pref := &domain.Preference{}
		if err := rows.Scan(&pref.ID, &pref.Month, &pref.Staff, &pref.Text, &pref.CreatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prefs, nil
}
