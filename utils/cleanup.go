package utils

import (
	"context"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/feedbbs/models"
)

// StartUploadCleaner periodically deletes expired uploads that no post references.
// It stops when ctx is cancelled.
func StartUploadCleaner(ctx context.Context, db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := CleanExpiredUploads(ctx, db, time.Now().UTC()); err != nil {
					Sugar.Warnf("upload cleaner failed: %v", err)
				} else if n > 0 {
					Sugar.Infof("upload cleaner removed %d files", n)
				}
			}
		}
	}()
}

// CleanExpiredUploads removes up to 100 expired, unreferenced uploads and returns how many were removed.
// Referenced uploads lose their expiry so they are not examined again.
func CleanExpiredUploads(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	var items []models.UploadedFile
	if err := db.WithContext(ctx).Where("expire_at <= ?", now).Limit(100).Find(&items).Error; err != nil {
		return 0, err
	}

	removed := 0
	for _, it := range items {
		var refs int64
		if err := db.WithContext(ctx).Model(&models.Post{}).Where("image = ?", it.URL).Count(&refs).Error; err != nil {
			return removed, err
		}
		if refs > 0 {
			if err := db.WithContext(ctx).Model(&models.UploadedFile{}).Where("id = ?", it.ID).
				Update("expire_at", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)).Error; err != nil {
				return removed, err
			}
			continue
		}
		if it.FilePath != "" {
			if err := os.Remove(it.FilePath); err != nil && !os.IsNotExist(err) {
				Sugar.Warnf("upload cleaner remove %s: %v", it.FilePath, err)
			}
		}
		// remove row regardless of file deletion outcome
		if err := db.WithContext(ctx).Delete(&models.UploadedFile{}, it.ID).Error; err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
