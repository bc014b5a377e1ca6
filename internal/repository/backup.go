package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
)

// ExportAll 导出所有表的数据用于备份
func (r *Repository) ExportAll() (*domain.Backup, error) {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	backup := &domain.Backup{
		Version:    domain.BackupFormatVersion,
		ExportedAt: time.Now(),
	}

	rows, err := tx.QueryContext(ctx, `SELECT id, month, staff, request_text, created_at FROM preferences ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	prefs, err := scanPreferences(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	for _, pref := range prefs {
		backup.Data.Preferences = append(backup.Data.Preferences, *pref)
	}

	if err := exportRows(ctx, tx, `
		SELECT id, month, status, table_text, counts_text, change_log, created_at, version
		FROM schedules ORDER BY id ASC
	`, func(rows *sql.Rows) error {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return err
		}
		backup.Data.Schedules = append(backup.Data.Schedules, *schedule)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := exportRows(ctx, tx, `
		SELECT month, staff, days, dates_text, created_at
		FROM travel ORDER BY id ASC
	`, func(rows *sql.Rows) error {
		travel, err := scanTravel(rows)
		if err != nil {
			return err
		}
		backup.Data.Travel = append(backup.Data.Travel, *travel)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := exportRows(ctx, tx, `SELECT key, value FROM config ORDER BY key ASC`, func(rows *sql.Rows) error {
		var entry domain.ConfigEntry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return err
		}
		backup.Data.Config = append(backup.Data.Config, entry)
		return nil
	}); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT id, created_at, editor, staff_list, base_rules, individual_rules, additional_rules
		FROM config_history ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	revisions, err := scanRuleSetRevisions(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	for _, rev := range revisions {
		backup.Data.RuleSetRevisions = append(backup.Data.RuleSetRevisions, *rev)
	}

	return backup, nil
}

func exportRows(ctx context.Context, tx *sql.Tx, query string, fn func(rows *sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

// RestoreAll 清空所有表后写入备份数据，整个过程在一个事务内完成
func (r *Repository) RestoreAll(data *domain.BackupData) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"preferences", "schedules", "travel", "config", "config_history"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	now := time.Now()
	orNow := func(t time.Time) time.Time {
		if t.IsZero() {
			return now
		}
		return t
	}

	for _, pref := range data.Preferences {
		query := `INSERT INTO preferences (month, staff, request_text, created_at) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, query, pref.Month, pref.Staff, pref.Text, orNow(pref.CreatedAt)); err != nil {
			return err
		}
	}

	for _, s := range data.Schedules {
		status := s.Status
		if status == "" {
			status = domain.ScheduleStatusDraft
		}
		version := s.Version
		if version <= 0 {
			version = 1
		}
		query := `
			INSERT INTO schedules (month, status, table_text, counts_text, change_log, created_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, query, s.Month, status, s.Table, s.Tally, s.ChangeLog, orNow(s.CreatedAt), version); err != nil {
			return err
		}
	}

	for _, t := range data.Travel {
		query := `INSERT INTO travel (month, staff, days, dates_text, created_at) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, t.Month, t.Staff, t.Days, t.Dates, orNow(t.CreatedAt)); err != nil {
			return err
		}
	}

	for _, c := range data.Config {
		query := `INSERT INTO config (key, value) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, c.Key, c.Value); err != nil {
			return err
		}
	}

	for _, h := range data.RuleSetRevisions {
		query := `
			INSERT INTO config_history (created_at, editor, staff_list, base_rules, individual_rules, additional_rules)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query, orNow(h.CreatedAt), h.Editor,
			strings.Join(h.StaffList, ","),
			strings.Join(h.BaseRules, "\n"),
			strings.Join(h.IndividualRules, "\n"),
			strings.Join(h.AdditionalRules, "\n"),
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
