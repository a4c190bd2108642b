package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/models"
)

func TestCleanExpiredUploads(t *testing.T) {
	db, err := config.OpenDatabase("sqlite", ":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	dir := t.TempDir()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
		return p
	}

	orphan := models.UploadedFile{FilePath: write("orphan.png"), URL: "/static/uploads/orphan.png", ExpireAt: now.Add(-time.Minute)}
	used := models.UploadedFile{FilePath: write("used.png"), URL: "/static/uploads/used.png", ExpireAt: now.Add(-time.Minute)}
	fresh := models.UploadedFile{FilePath: write("fresh.png"), URL: "/static/uploads/fresh.png", ExpireAt: now.Add(time.Hour)}
	for _, f := range []*models.UploadedFile{&orphan, &used, &fresh} {
		require.NoError(t, db.Create(f).Error)
	}
	user := models.User{Username: "owner"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Text: "pic", UserID: user.ID, Image: used.URL, CreatedAt: now}
	require.NoError(t, db.Omit(clause.Associations).Create(&post).Error)

	removed, err := CleanExpiredUploads(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(orphan.FilePath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(used.FilePath)
	assert.NoError(t, err)

	var left []models.UploadedFile
	require.NoError(t, db.Order("id").Find(&left).Error)
	require.Len(t, left, 2)
	assert.Equal(t, 9999, left[0].ExpireAt.Year())

	removed, err = CleanExpiredUploads(context.Background(), db, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
