// Package postgres implements the remote store directly against the feed
// database, for development setups without the HTTP API in front.
package postgres

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reelfeed/internal/config"
)

type DB struct {
	Config *config.Config

	db *gorm.DB
}

func (d *DB) Init(_ context.Context) error {
	gormDB, err := gorm.Open(postgres.Open(d.Config.PostgresDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	d.db = gormDB
	return nil
}

func (d *DB) Model(a any) *gorm.DB {
	return d.db.Model(a)
}

func (d *DB) Migrate() error {
	return d.db.AutoMigrate(&PostModel{}, &UserModel{}, &LikeModel{}, &CommentModel{})
}

func (d *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Shutdown(_ context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
