package services

import (
	"context"
	"testing"

	"bulletin/app/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	service := NewPostService(s)

	t.Run("create post", func(t *testing.T) {
		post, err := service.CreatePost(ctx, "Hello", "World", "Alice")
		require.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, 0, post.Views)
		assert.False(t, post.CreatedAt.IsZero())
	})

	t.Run("create trims whitespace", func(t *testing.T) {
		post, err := service.CreatePost(ctx, "  Padded  ", "\tcontent\n", " Bob ")
		require.NoError(t, err)
		assert.Equal(t, "Padded", post.Title)
		assert.Equal(t, "content", post.Content)
		assert.Equal(t, "Bob", post.Author)
	})

	t.Run("empty title fails without side effect", func(t *testing.T) {
		before, err := service.ListPosts(ctx)
		require.NoError(t, err)

		_, err = service.CreatePost(ctx, "   ", "content", "Alice")
		assert.ErrorIs(t, err, store.ErrValidation)

		after, err := service.ListPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("view post increments the counter", func(t *testing.T) {
		post, err := service.CreatePost(ctx, "Watched", "content", "Alice")
		require.NoError(t, err)

		viewed, err := service.ViewPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, viewed.Views)

		viewed, err = service.ViewPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, viewed.Views)
	})

	t.Run("view missing post", func(t *testing.T) {
		_, err := service.ViewPost(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update post", func(t *testing.T) {
		post, err := service.CreatePost(ctx, "Before", "old", "Alice")
		require.NoError(t, err)

		updated, err := service.UpdatePost(ctx, post.ID, "After", "new", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	})

	t.Run("update with empty field", func(t *testing.T) {
		post, err := service.CreatePost(ctx, "Stays", "content", "Alice")
		require.NoError(t, err)

		_, err = service.UpdatePost(ctx, post.ID, "", "new", "Alice")
		assert.ErrorIs(t, err, store.ErrValidation)

		got, err := service.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Stays", got.Title)
	})

	t.Run("update missing post", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, "missing", "t", "c", "a")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete missing post", func(t *testing.T) {
		assert.ErrorIs(t, service.DeletePost(ctx, "missing"), store.ErrNotFound)
	})
}

func TestPostServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	posts := NewPostService(s)
	comments := NewCommentService(s)

	p1, err := posts.CreatePost(ctx, "Hello", "World", "Alice")
	require.NoError(t, err)
	_, err = comments.CreateComment(ctx, p1.ID, "Bob", "Nice!")
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(ctx, p1.ID))

	all, err := posts.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	remaining, err := comments.ListPostComments(ctx, p1.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
