package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/utils"
)

const (
	configKeyStaffList       = "staff_list"
	configKeyBaseRules       = "base_rules"
	configKeyIndividualRules = "individual_rules"
	configKeyAdditionalRules = "additional_rules"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// GetRuleSet 读取保存在数据库中的规则，没有保存过的项使用默认值
func (r *Repository) GetRuleSet() (*domain.RuleSet, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.loadRuleSet(ctx, r.dbpool)
}

func (r *Repository) loadRuleSet(ctx context.Context, q queryer) (*domain.RuleSet, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stored := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		stored[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rs := domain.DefaultRuleSet(r.cfg.App.StaffList)
	if v, ok := stored[configKeyStaffList]; ok {
		rs.StaffList = utils.SplitNonEmpty(v, ",")
	}
	if v, ok := stored[configKeyBaseRules]; ok {
		rs.BaseRules = utils.SplitNonEmpty(v, "\n")
	}
	if v, ok := stored[configKeyIndividualRules]; ok {
		rs.IndividualRules = utils.SplitNonEmpty(v, "\n")
	}
	if v, ok := stored[configKeyAdditionalRules]; ok {
		rs.AdditionalRules = utils.SplitNonEmpty(v, "\n")
	}

	return rs, nil
}

// UpdateRuleSet 先把当前规则写入历史记录，再保存新的规则
func (r *Repository) UpdateRuleSet(rs *domain.RuleSet, editor string) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := r.loadRuleSet(ctx, tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO config_history (created_at, editor, staff_list, base_rules, individual_rules, additional_rules)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query, time.Now(), editor,
		strings.Join(current.StaffList, ","),
		strings.Join(current.BaseRules, "\n"),
		strings.Join(current.IndividualRules, "\n"),
		strings.Join(current.AdditionalRules, "\n"),
	); err != nil {
		return err
	}

	entries := []domain.ConfigEntry{
		{Key: configKeyStaffList, Value: strings.Join(rs.StaffList, ",")},
		{Key: configKeyBaseRules, Value: strings.Join(rs.BaseRules, "\n")},
		{Key: configKeyIndividualRules, Value: strings.Join(rs.IndividualRules, "\n")},
		{Key: configKeyAdditionalRules, Value: strings.Join(rs.AdditionalRules, "\n")},
	}

	query = `
		INSERT INTO config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, entry.Key, entry.Value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetRuleSetRevisions 按时间倒序返回修改历史，limit <= 0 表示不限制
func (r *Repository) GetRuleSetRevisions(limit int) ([]*domain.RuleSetRevision, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, created_at, editor, staff_list, base_rules, individual_rules, additional_rules
		FROM config_history
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuleSetRevisions(rows)
}

func scanRuleSetRevisions(rows *sql.Rows) ([]*domain.RuleSetRevision, error) {
	revisions := make([]*domain.RuleSetRevision, 0)
	for rows.Next() {
		var (
			rev                                         domain.RuleSetRevision
			staffList, baseRules, individual, additional string
		)
		if err := rows.Scan(&rev.ID, &rev.CreatedAt, &rev.Editor, &staffList, &baseRules, &individual, &additional); err != nil {
			return nil, err
		}
		rev.StaffList = utils.SplitNonEmpty(staffList, ",")
		rev.BaseRules = utils.SplitNonEmpty(baseRules, "\n")
		rev.IndividualRules = utils.SplitNonEmpty(individual, "\n")
		rev.AdditionalRules = utils.SplitNonEmpty(additional, "\n")
		revisions = append(revisions, &rev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return revisions, nil
}
