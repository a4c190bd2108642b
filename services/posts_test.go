package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/feedbbs/models"
)

func TestPostCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	seedGroup(t, db, "news")
	svc := NewPostService(db)

	post, err := svc.Create(ctx, author.ID, PostInput{Text: "  fresh  ", GroupSlug: "news"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", post.Text)
	require.NotNil(t, post.Group)
	assert.Equal(t, "news", post.Group.Slug)
	assert.Equal(t, "author", post.User.Username)
	assert.False(t, post.CreatedAt.IsZero())

	amp, err := svc.Create(ctx, author.ID, PostInput{Text: "Tom & Jerry"})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", amp.Text)
	assert.Equal(t, "Tom &amp; Jerry", amp.HTML)

	_, err = svc.Create(ctx, author.ID, PostInput{Text: " "})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, author.ID, PostInput{Text: "x", GroupSlug: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Create(ctx, 0, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestPostUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	stranger := seedUser(t, db, "stranger")
	group := seedGroup(t, db, "news")
	post := seedPost(t, db, author, group, "draft", epoch)
	svc := NewPostService(db)

	_, err := svc.Update(ctx, stranger.ID, post.ID, PostInput{Text: "hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, author.ID, post.ID, PostInput{Text: "final", Image: "/uploads/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, "/uploads/a.png", updated.Image)
	assert.True(t, epoch.Equal(updated.CreatedAt))

	_, err = svc.Update(ctx, author.ID, 999, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostDeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	stranger := seedUser(t, db, "stranger")
	post := seedPost(t, db, author, nil, "body", epoch)
	keep := seedPost(t, db, author, nil, "keep", epoch)
	comments := NewCommentService(db)
	for _, id := range []uint{post.ID, post.ID, keep.ID} {
		_, err := comments.AddComment(ctx, id, stranger.ID, "reply")
		require.NoError(t, err)
	}
	svc := NewPostService(db)

	_, err := svc.Delete(ctx, stranger.ID, post.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Delete(ctx, author.ID, post.ID, false)
	require.NoError(t, err)

	var left int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
	_, err = svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(ctx, stranger.ID, keep.ID, true)
	require.NoError(t, err)
}
