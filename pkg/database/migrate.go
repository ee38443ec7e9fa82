package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将内嵌的 SQL 迁移应用到目标库
// 已在最新版本时为 no-op，dirty 状态只告警不中断
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取内嵌迁移失败: %w", err)
	}

	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return fmt.Errorf("初始化迁移器失败: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("应用迁移失败: %w", err)
	}

	version, dirty, _ := migrator.Version()
	if dirty {
		logger.Warn("迁移处于 dirty 状态，需人工介入", zap.Uint("version", version))
	} else {
		logger.Info("数据库迁移就绪", zap.Uint("version", version))
	}

	return nil
}
