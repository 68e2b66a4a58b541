package database

import (
	"context"
	"fmt"
	"time"

	"nexus_chat_service/pkg/logger"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// NewDatabaseConnection create a new postgresSQL connection pool (pgx)
func NewDatabaseConnection(d Connection) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	dbConfig, err := pgxpool.ParseConfig(d.ConnectStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	for i := 0; i < d.RetryCount; i++ {
		pool, err = pgxpool.ConnectConfig(context.Background(), dbConfig)
		if err == nil {
			break
		}
		logger.Log.Warn(
			"Failed to connect to postgreSQL database, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}

	return pool, err
}

// NewPGConnection create a new gorm connection with retry
func NewPGConnection(d Connection) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < d.RetryCount; i++ {
		db, err = gorm.Open(postgres.Open(d.ConnectStr), &gorm.Config{
			Logger: gorm_logger.Default.LogMode(gorm_logger.Warn),
		})
		if err == nil {
			return db, nil
		}
		logger.Log.Warn(
			"Failed to open gorm postgres connection, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}
	return nil, err
}
