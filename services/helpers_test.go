package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/models"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase("sqlite", ":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// insertBeforeCreate stores row on the same transaction just before the next
// create on table runs, after any existence check of the caller has passed.
func insertBeforeCreate(t *testing.T, db *gorm.DB, table string, row interface{}) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_before_"+table, func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(row).Error; err != nil {
			t.Errorf("insert %s: %v", table, err)
		}
	})
	require.NoError(t, err)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, db.Create(group).Error)
	return group
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, UserID: author.ID, CreatedAt: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(post).Error)
	return post
}
