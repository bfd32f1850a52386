package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/internal/domain"
	"inkpress/internal/repository/sqlite"
)

func TestTagService(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(sqlite.NewPostRepository(db), nil)
	tags := NewTagService(sqlite.NewTagRepository(db), sqlite.NewPostRepository(db))
	ctx := context.Background()

	tag, err := tags.Create(ctx, "Web Development", "")
	require.NoError(t, err)
	assert.Equal(t, "web-development", tag.Slug)

	_, err = tags.Create(ctx, "Web development", "")
	assert.ErrorIs(t, err, ErrConstraintViolation)
	_, err = tags.Create(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrValidation)

	post, err := posts.Create(ctx, NewPost{Title: "Tagged", Content: "x", Author: "a", Status: domain.PostStatusPublished})
	require.NoError(t, err)

	require.NoError(t, tags.AttachToPost(ctx, post.ID, tag.ID))
	require.NoError(t, tags.AttachToPost(ctx, post.ID, tag.ID))
	assert.ErrorIs(t, tags.AttachToPost(ctx, post.ID, tag.ID+50), ErrTagNotFound)
	assert.ErrorIs(t, tags.AttachToPost(ctx, post.ID+50, tag.ID), ErrPostNotFound)

	attached, err := tags.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "Web Development", attached[0].Name)

	_, err = tags.ListForPost(ctx, post.ID+50)
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, tags.DetachFromPost(ctx, post.ID, tag.ID))
	attached, err = tags.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	require.NoError(t, tags.Delete(ctx, "web-development"))
	assert.ErrorIs(t, tags.Delete(ctx, "web-development"), ErrTagNotFound)

	all, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
