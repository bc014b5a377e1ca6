package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/och-dev/shiftkun/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate 执行数据库迁移，自动检测当前版本并应用所有未执行的迁移。
// 注意不能调用 migrate.Close，它会把传入的连接池一起关闭。
func Migrate(driverName string, db *sql.DB) error {
	var (
		dir    string
		driver database.Driver
		err    error
	)

	switch driverName {
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.DriverPostgres:
		dir = "migrations/postgres"
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", driverName)
	}
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		slog.Warn("数据库迁移处于 dirty 状态", "version", version)
	} else {
		slog.Info("数据库迁移完成", "version", version)
	}

	return nil
}
