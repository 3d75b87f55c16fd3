package services

import (
	"director-watch/models"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB öffnet eine isolierte In-Memory-SQLite pro Test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// SQLite kennt nur einen Schreiber; parallele Jobs teilen sich
	// deshalb eine Verbindung.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Subject{},
		&models.Article{},
		&models.ExtractedContent{},
		&models.Mention{},
		&models.Report{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
