package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nearmeet-server/internal/logger"
	"nearmeet-server/internal/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.L().Info("Database connected and migrated")
	return db, nil
}

// Migrate applies the schema. Exposed so tests can run it against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.BlockedUser{},
		&models.Report{},
		&models.SwipeDecision{},
		&models.QuotaSnapshot{},
		&models.Match{},
		&models.Conversation{},
		&models.Message{},
		&models.Room{},
		&models.RoomMember{},
		&models.RoomMessage{},
		&models.NowPost{},
		&models.PersonalAd{},
	)
}
