package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleGlobalPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "writer")
	for i := 0; i < 13; i++ {
		seedPost(t, db, author, nil, fmt.Sprintf("post %d", i), epoch.Add(time.Duration(i)*time.Minute))
	}
	feeds := NewFeedAssembler(db, 0)

	first, err := feeds.Assemble(ctx, 0, GlobalScope(), 1)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	assert.Equal(t, "post 12", first.Items[0].Text)
	assert.EqualValues(t, 13, first.Page.Total)
	assert.Equal(t, 2, first.Page.TotalPages)
	assert.True(t, first.Page.HasNext)
	assert.False(t, first.Page.HasPrevious)

	second, err := feeds.Assemble(ctx, 0, GlobalScope(), 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 3)
	assert.Equal(t, "post 0", second.Items[2].Text)
	assert.False(t, second.Page.HasNext)

	clamped, err := feeds.Assemble(ctx, 0, GlobalScope(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, clamped.Page.Number)
	require.Len(t, clamped.Items, 3)
	assert.Equal(t, second.Items[0].ID, clamped.Items[0].ID)

	zero, err := feeds.Assemble(ctx, 0, GlobalScope(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, zero.Page.Number)
	assert.Equal(t, first.Items[0].ID, zero.Items[0].ID)
}

func TestAssembleOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "writer")
	older := seedPost(t, db, author, nil, "older", epoch)
	newer := seedPost(t, db, author, nil, "newer", epoch.Add(time.Second))
	tieLow := seedPost(t, db, author, nil, "tie low", epoch.Add(time.Hour))
	tieHigh := seedPost(t, db, author, nil, "tie high", epoch.Add(time.Hour))

	feed, err := NewFeedAssembler(db, 0).Assemble(ctx, 0, GlobalScope(), 1)
	require.NoError(t, err)
	var ids []uint
	for _, item := range feed.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []uint{tieHigh.ID, tieLow.ID, newer.ID, older.ID}, ids)
}

func TestAssembleEmptyScope(t *testing.T) {
	db := newTestDB(t)
	feed, err := NewFeedAssembler(db, 0).Assemble(context.Background(), 0, GlobalScope(), 7)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.NotNil(t, feed.Items)
	assert.Equal(t, 1, feed.Page.Number)
	assert.Equal(t, 1, feed.Page.TotalPages)
}

func TestAssembleGroupAndProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cats := seedGroup(t, db, "cats")
	seedPost(t, db, alice, cats, "alice on cats", epoch)
	seedPost(t, db, bob, cats, "bob on cats", epoch.Add(time.Minute))
	seedPost(t, db, bob, nil, "bob alone", epoch.Add(2*time.Minute))
	feeds := NewFeedAssembler(db, 0)

	group, err := feeds.Assemble(ctx, 0, GroupScope("cats"), 1)
	require.NoError(t, err)
	require.Len(t, group.Items, 2)
	assert.Equal(t, "bob on cats", group.Items[0].Text)
	require.NotNil(t, group.Group)
	assert.Equal(t, cats.ID, group.Group.ID)

	profile, err := feeds.Assemble(ctx, 0, ProfileScope("bob"), 1)
	require.NoError(t, err)
	require.Len(t, profile.Items, 2)
	require.NotNil(t, profile.Author)
	assert.Equal(t, "bob", profile.Author.Username)
	assert.EqualValues(t, 2, profile.Author.PostCount)
	assert.Nil(t, profile.Author.IsFollowing)
}

func TestAssembleUnknownScopes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	feeds := NewFeedAssembler(db, 0)

	_, err := feeds.Assemble(ctx, 0, ProfileScope("missing_user"), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = feeds.Assemble(ctx, 0, GroupScope("missing-slug"), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = feeds.Assemble(ctx, 0, GroupScope("  "), 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = feeds.Assemble(ctx, 0, Scope{Kind: 42}, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = feeds.Assemble(ctx, 0, FollowedScope(), 1)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAssembleFollowedOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	c := seedUser(t, db, "c")
	require.NoError(t, NewFollowGraph(db).Follow(ctx, b.ID, a.ID))
	hello := seedPost(t, db, a, nil, "hello", epoch)
	feeds := NewFeedAssembler(db, 0)

	forB, err := feeds.Assemble(ctx, b.ID, FollowedScope(), 1)
	require.NoError(t, err)
	require.Len(t, forB.Items, 1)
	assert.Equal(t, hello.ID, forB.Items[0].ID)
	require.NotNil(t, forB.Items[0].IsFollowing)
	assert.True(t, *forB.Items[0].IsFollowing)
	assert.Nil(t, forB.Items[0].IsSelf)

	forC, err := feeds.Assemble(ctx, c.ID, FollowedScope(), 1)
	require.NoError(t, err)
	assert.Empty(t, forC.Items)
}

func TestSocialContext(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	seedPost(t, db, author, nil, "mine", epoch)
	feeds := NewFeedAssembler(db, 0)

	own, err := feeds.Assemble(ctx, author.ID, ProfileScope("author"), 1)
	require.NoError(t, err)
	item := own.Items[0]
	require.NotNil(t, item.IsSelf)
	assert.True(t, *item.IsSelf)
	assert.True(t, *item.EditingPermitted)
	assert.False(t, *item.IsFollowing)
	assert.True(t, *own.Author.IsSelf)

	other, err := feeds.Assemble(ctx, reader.ID, ProfileScope("author"), 1)
	require.NoError(t, err)
	assert.False(t, *other.Items[0].IsFollowing)
	assert.Nil(t, other.Items[0].IsSelf)
	assert.Nil(t, other.Items[0].EditingPermitted)

	anon, err := feeds.Assemble(ctx, 0, GlobalScope(), 1)
	require.NoError(t, err)
	raw, err := json.Marshal(anon.Items[0])
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "is_following")
	assert.NotContains(t, fields, "is_self")
	assert.NotContains(t, fields, "editing_permitted")
}

func TestPostDetail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	post := seedPost(t, db, author, nil, "body", epoch)
	comments := NewCommentService(db)
	_, err := comments.AddComment(ctx, post.ID, other.ID, "first")
	require.NoError(t, err)
	_, err = comments.AddComment(ctx, post.ID, author.ID, "second")
	require.NoError(t, err)
	feeds := NewFeedAssembler(db, 0)

	view, err := feeds.PostDetail(ctx, other.ID, "author", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, view.Post.ID)
	require.Len(t, view.Post.Comments, 2)
	assert.Equal(t, "first", view.Post.Comments[0].Text)
	assert.Equal(t, "other", view.Post.Comments[0].User.Username)
	assert.EqualValues(t, 1, view.Author.PostCount)
	assert.False(t, *view.Post.IsFollowing)

	_, err = feeds.PostDetail(ctx, 0, "other", post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = feeds.PostDetail(ctx, 0, "nobody", post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
