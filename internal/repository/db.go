package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/och-dev/shiftkun/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// OpenDB 按配置创建连接池并确认数据库可用
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	dbpool, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("无法创建数据库连接池: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite 同一时间只允许一个写入者，单连接可以避免 SQLITE_BUSY
		dbpool.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		_ = dbpool.Close()
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	return dbpool, nil
}
