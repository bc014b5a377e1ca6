package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
)

// SaveSchedule 保存某个月某个状态的排班，已存在则覆盖。
// expectedVersion 不为空时，只有与数据库中的版本号一致才允许覆盖，否则返回 ErrVersionConflict。
// 版本比较和写入在同一条语句里完成，并发保存时不会互相覆盖。
func (r *Repository) SaveSchedule(schedule *domain.Schedule, expectedVersion *int32) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	schedule.CreatedAt = time.Now()

	var (
		query string
		args  []any
	)
	switch {
	case expectedVersion == nil:
		query = `
			INSERT INTO schedules (month, status, table_text, counts_text, change_log, created_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, 1)
			ON CONFLICT (month, status) DO UPDATE
			SET table_text = excluded.table_text,
				counts_text = excluded.counts_text,
				change_log = excluded.change_log,
				created_at = excluded.created_at,
				version = schedules.version + 1
			RETURNING id, version
		`
		args = []any{schedule.Month, schedule.Status, schedule.Table, schedule.Tally, schedule.ChangeLog, schedule.CreatedAt}
	case *expectedVersion == 0:
		// 期望还没有保存过，已存在的话说明被别人先保存了
		query = `
			INSERT INTO schedules (month, status, table_text, counts_text, change_log, created_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, 1)
			ON CONFLICT (month, status) DO NOTHING
			RETURNING id, version
		`
		args = []any{schedule.Month, schedule.Status, schedule.Table, schedule.Tally, schedule.ChangeLog, schedule.CreatedAt}
	default:
		query = `
			UPDATE schedules
			SET table_text = $1, counts_text = $2, change_log = $3, created_at = $4, version = version + 1
			WHERE month = $5 AND status = $6 AND version = $7
			RETURNING id, version
		`
		args = []any{schedule.Table, schedule.Tally, schedule.ChangeLog, schedule.CreatedAt, schedule.Month, schedule.Status, *expectedVersion}
	}

	err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}

	return err
}

func (r *Repository) GetSchedule(month string, status domain.ScheduleStatus) (*domain.Schedule, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, month, status, table_text, counts_text, change_log, created_at, version
		FROM schedules
		WHERE month = $1 AND status = $2
	`

	return scanSchedule(r.dbpool.QueryRowContext(ctx, query, month, status))
}

// GetLatestSchedule 返回某个月最近一次保存的排班，不区分状态
func (r *Repository) GetLatestSchedule(month string) (*domain.Schedule, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, month, status, table_text, counts_text, change_log, created_at, version
		FROM schedules
		WHERE month = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return scanSchedule(r.dbpool.QueryRowContext(ctx, query, month))
}

// GetLatestFinalSchedule 返回所有月份中最近一次确定的排班，没有确定版时退回到最近保存的草稿
func (r *Repository) GetLatestFinalSchedule() (*domain.Schedule, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, month, status, table_text, counts_text, change_log, created_at, version
		FROM schedules
		ORDER BY CASE WHEN status = $1 THEN 0 ELSE 1 END ASC, created_at DESC, id DESC
		LIMIT 1
	`

	return scanSchedule(r.dbpool.QueryRowContext(ctx, query, domain.ScheduleStatusFinal))
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	schedule := &domain.Schedule{}

	dst := []any{
		&schedule.ID,
		&schedule.Month,
		&schedule.Status,
		&schedule.Table,
		&schedule.Tally,
		&schedule.ChangeLog,
		&schedule.CreatedAt,
		&schedule.Version,
	}

	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}
