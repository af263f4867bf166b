package controllers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"bulletin/app/models"
	"bulletin/app/store"

	"github.com/stretchr/testify/assert"
)

// deadFeedStore's subscriptions terminate right after the initial snapshot,
// the way a failed change stream does.
type deadFeedStore struct {
	store.Store
}

type deadSubscription struct {
	done chan struct{}
}

func (s *deadSubscription) Cancel()               {}
func (s *deadSubscription) Done() <-chan struct{} { return s.done }

func newDeadSubscription() *deadSubscription {
	done := make(chan struct{})
	close(done)
	return &deadSubscription{done: done}
}

func (d *deadFeedStore) SubscribePosts(ctx context.Context, fn func([]*models.Post)) (store.Subscription, error) {
	fn(nil)
	return newDeadSubscription(), nil
}

func (d *deadFeedStore) SubscribeComments(ctx context.Context, fn func([]*models.Comment)) (store.Subscription, error) {
	fn(nil)
	return newDeadSubscription(), nil
}

// A stream whose feed dies must end, so the client notices and reconnects
// instead of waiting on a connection that will never deliver again.
func TestStreamPostsEndsWhenFeedTerminates(t *testing.T) {
	fc := NewFeedController(&deadFeedStore{Store: store.NewMemoryStore()})

	w := httptest.NewRecorder()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		fc.StreamPosts(w, httptest.NewRequest("GET", "/api/stream/posts", nil))
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("handler kept the connection open after the feed terminated")
	}
	assert.Contains(t, w.Body.String(), "event: snapshot")
}
