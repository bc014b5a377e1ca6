package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/och-dev/shiftkun/internal/config"
)

// 保存排班时携带的版本号与数据库中的不一致
var ErrVersionConflict = errors.New("repository: schedule version conflict")

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) transactionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.dbpool.PingContext(ctx)
}
