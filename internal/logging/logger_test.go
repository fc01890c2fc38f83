package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingHandler struct {
	level   slog.Level
	records []slog.Record
}

func (r *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level
}

func (r *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	r.records = append(r.records, record)
	return nil
}

func (r *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingHandler) WithGroup(string) slog.Handler      { return r }

func TestFanoutRespectsHandlerLevels(t *testing.T) {
	info := &recordingHandler{level: slog.LevelInfo}
	errOnly := &recordingHandler{level: slog.LevelError}
	log := slog.New(Fanout(info, errOnly))

	log.Info("routine")
	log.Error("broken")

	if len(info.records) != 2 {
		t.Errorf("info handler got %d records, want 2", len(info.records))
	}
	if len(errOnly.records) != 1 || errOnly.records[0].Message != "broken" {
		t.Errorf("error handler got %d records, want only the error", len(errOnly.records))
	}
}

func TestSweepLogs(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.SystemLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stale := models.SystemLog{ID: uuid.New(), Timestamp: time.Now().Add(-logRetention - time.Hour), Level: "ERROR"}
	fresh := models.SystemLog{ID: uuid.New(), Timestamp: time.Now(), Level: "ERROR"}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale log: %v", err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("seed fresh log: %v", err)
	}

	sweepLogs(db)

	var count int64
	db.Model(&models.SystemLog{}).Count(&count)
	if count != 1 {
		t.Fatalf("count = %d, want only the fresh entry", count)
	}
	var remaining models.SystemLog
	if err := db.First(&remaining).Error; err != nil {
		t.Fatalf("load remaining: %v", err)
	}
	if remaining.ID != fresh.ID {
		t.Error("the fresh entry should survive the sweep")
	}
}
