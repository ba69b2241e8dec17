package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrationsPath указывает на папку migrations в рабочем каталоге приложения
const migrationsPath = "file://migrations"

// NewPostgresDB открывает подключение к PostgreSQL и настраивает пул.
// Гоночный трафик — короткие конкурентные транзакции (join, progress,
// арбитраж победителя), поэтому пул небольшой, но с запасом idle-соединений.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// MigrateDB применяет SQL-миграции к базе данных.
// Схема (races, race_players, typing_results и т.д.) ведется через
// golang-migrate, а не gorm AutoMigrate: частичные индексы и композитные
// ограничения гонок декларируются в SQL явно.
func MigrateDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrateV4.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	switch err := m.Up(); {
	case err == nil:
		log.Println("[Database] Миграции применены")
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Println("[Database] Схема актуальна, миграции не требуются")
	default:
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
