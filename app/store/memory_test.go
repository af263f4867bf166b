package store

import (
	"context"
	"testing"

	"bulletin/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCascadeDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	post := createPost(t, s, "Hello", "World", "Alice")
	require.NoError(t, s.CreateComment(ctx, &models.Comment{PostID: post.ID, Author: "Bob", Content: "Nice!"}))

	require.NoError(t, s.DeletePost(ctx, post.ID))

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	comments, err := s.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestMemoryStoreSnapshotsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	post := createPost(t, s, "Hello", "World", "Alice")

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	posts[0].Title = "mutated"

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

func TestMemoryStorePostFeed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	createPost(t, s, "Existing", "content", "Alice")

	var snapshots [][]*models.Post
	sub, err := s.SubscribePosts(ctx, func(posts []*models.Post) {
		snapshots = append(snapshots, posts)
	})
	require.NoError(t, err)

	// Initial snapshot is delivered before Subscribe returns.
	require.Len(t, snapshots, 1)
	require.Len(t, snapshots[0], 1)
	assert.Equal(t, "Existing", snapshots[0][0].Title)

	createPost(t, s, "Fresh", "content", "Bob")
	require.Len(t, snapshots, 2)
	require.Len(t, snapshots[1], 2)
	assert.Equal(t, "Fresh", snapshots[1][0].Title)

	sub.Cancel()
	createPost(t, s, "After cancel", "content", "Carol")
	assert.Len(t, snapshots, 2)

	select {
	case <-sub.Done():
	default:
		t.Fatal("Done must be closed after Cancel")
	}

	// Cancel is idempotent.
	sub.Cancel()
}

func TestMemoryStoreCommentFeedDeliversWholeCollection(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p1 := createPost(t, s, "First", "content", "Alice")
	p2 := createPost(t, s, "Second", "content", "Bob")

	var snapshots [][]*models.Comment
	sub, err := s.SubscribeComments(ctx, func(comments []*models.Comment) {
		snapshots = append(snapshots, comments)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0])

	require.NoError(t, s.CreateComment(ctx, &models.Comment{PostID: p1.ID, Author: "Bob", Content: "on first"}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{PostID: p2.ID, Author: "Alice", Content: "on second"}))

	// Every subscriber sees every comment regardless of post; filtering by
	// post id is the subscriber's job.
	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[2], 2)
}

func TestMemoryStoreViewCountMonotonic(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	post := createPost(t, s, "Counted", "content", "Alice")

	before, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)

	n1, err := s.IncrementViews(ctx, post.ID)
	require.NoError(t, err)
	n2, err := s.IncrementViews(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, before.Views+1, n1)
	assert.Equal(t, before.Views+2, n2)
}
