package config

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"childcare-tasks.com/childcare-tasks/internal/logger"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

// NewDatabase opens the sqlite database and migrates the schema. All
// timestamps gorm manages are written in UTC. gorm's slow query and error
// reports go through the application logger.
func NewDatabase(dsn string) (*gorm.DB, error) {
	dbLogger := gormlogger.New(
		logger.NewPrinter("gorm"),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  dbLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}
