package logging

import (
	"log/slog"
	"time"

	"github.com/littlerefugees/shelter-backend/internal/models"
	"gorm.io/gorm"
)

const logRetention = 30 * 24 * time.Hour

// StartCleanup launches a daily sweep of the system_logs table. Closing
// done stops the sweeper.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sweepLogs(db)
			}
		}
	}()
}

// sweepLogs drops entries older than the retention window.
func sweepLogs(db *gorm.DB) {
	res := db.Where("timestamp < ?", time.Now().Add(-logRetention)).Delete(&models.SystemLog{})
	if res.Error != nil {
		slog.Error("log cleanup failed", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", res.RowsAffected)
	}
}
