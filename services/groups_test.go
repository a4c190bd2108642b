package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/feedbbs/models"
)

func TestGroupCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewGroupService(db)

	group, err := svc.Create(ctx, GroupInput{Title: " Cats ", Slug: "cats_and-dogs"})
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)

	_, err = svc.Create(ctx, GroupInput{Title: "Again", Slug: "cats_and-dogs"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, GroupInput{Title: "Bad", Slug: "a/b"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "slug", verr.Field)
	assert.Equal(t, "a/b", verr.Input)

	_, err = svc.Create(ctx, GroupInput{Slug: "untitled"})
	assert.ErrorIs(t, err, ErrValidation)

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestGroupCreateLosesRace(t *testing.T) {
	db := newTestDB(t)
	insertBeforeCreate(t, db, "groups", &models.Group{Title: "First", Slug: "raced"})

	_, err := NewGroupService(db).Create(context.Background(), GroupInput{Title: "Second", Slug: "raced"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGroupDeleteDetachesPosts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	group := seedGroup(t, db, "doomed")
	post := seedPost(t, db, author, group, "survivor", epoch)
	svc := NewGroupService(db)

	require.NoError(t, svc.Delete(ctx, "doomed"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)

	_, err := svc.BySlug(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "doomed"), ErrNotFound)
}
