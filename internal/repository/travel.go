package repository

import (
	"database/sql"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
)

// UpsertTravel 每个人每个月只保留一条出差记录
func (r *Repository) UpsertTravel(travel *domain.Travel) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	if travel.CreatedAt.IsZero() {
		travel.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO travel (month, staff, days, dates_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (month, staff) DO UPDATE
		SET days = excluded.days, dates_text = excluded.dates_text, created_at = excluded.created_at
	`

	_, err := r.dbpool.ExecContext(ctx, query, travel.Month, travel.Staff, travel.Days, travel.Dates, travel.CreatedAt)
	return err
}

func (r *Repository) GetTravelByMonth(month string) ([]*domain.Travel, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT month, staff, days, dates_text, created_at
		FROM travel
		WHERE month = $1
		ORDER BY staff ASC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	travels := make([]*domain.Travel, 0)
	for rows.Next() {
		travel, err := scanTravel(rows)
		if err != nil {
			return nil, err
		}
		travels = append(travels, travel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return travels, nil
}

func (r *Repository) GetTravel(month string, staff string) (*domain.Travel, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT month, staff, days, dates_text, created_at
		FROM travel
		WHERE month = $1 AND staff = $2
	`

	return scanTravel(r.dbpool.QueryRowContext(ctx, query, month, staff))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTravel(row rowScanner) (*domain.Travel, error) {
	var (
		travel domain.Travel
		days   sql.NullInt32
		dates  sql.NullString
	)

	if err := row.Scan(&travel.Month, &travel.Staff, &days, &dates, &travel.CreatedAt); err != nil {
		return nil, err
	}

	if days.Valid {
		travel.Days = &days.Int32
	}
	if dates.Valid {
		travel.Dates = &dates.String
	}

	return &travel, nil
}
