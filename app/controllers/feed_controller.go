package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"bulletin/app/models"
	"bulletin/app/store"

	"github.com/gorilla/mux"
)

// FeedController streams live collection snapshots over server-sent events.
// It requires a store with the ChangeFeed capability; with the local backend
// the endpoints report the feature unavailable, since there every mutation is
// already observed synchronously by its caller.
type FeedController struct {
	feed store.ChangeFeed
}

// NewFeedController creates a FeedController. The store may or may not
// support change feeds.
func NewFeedController(s store.Store) *FeedController {
	feed, _ := s.(store.ChangeFeed)
	return &FeedController{feed: feed}
}

// sseWriter serializes event writes and drops anything arriving after the
// handler has shut the stream down, so a late feed callback can never touch a
// dead ResponseWriter.
type sseWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func (s *sseWriter) send(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("feed: failed to marshal snapshot: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fmt.Fprintf(s.w, "event: snapshot\ndata: %s\n\n", data)
	s.flusher.Flush()
}

func (s *sseWriter) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (fc *FeedController) openStream(w http.ResponseWriter) (*sseWriter, bool) {
	if fc.feed == nil {
		sendJSON(w, http.StatusNotImplemented, map[string]string{
			"error": "the configured backend has no change feed",
		})
		return nil, false
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		sendJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &sseWriter{w: w, flusher: flusher}, true
}

// StreamPosts pushes a snapshot of the post collection on subscribe and after
// every change, until the client disconnects.
func (fc *FeedController) StreamPosts(w http.ResponseWriter, r *http.Request) {
	out, ok := fc.openStream(w)
	if !ok {
		return
	}

	sub, err := fc.feed.SubscribePosts(r.Context(), func(posts []*models.Post) {
		out.send(posts)
	})
	if err != nil {
		out.close()
		log.Printf("feed: post subscription failed: %v", err)
		return
	}
	defer out.close()
	defer sub.Cancel()

	// Closing the response ends the stream when the feed dies underneath us,
	// so the client notices and can reconnect instead of waiting forever.
	select {
	case <-r.Context().Done():
	case <-sub.Done():
	}
}

// StreamPostComments pushes snapshots of one post's comments. The feed
// delivers the whole comment collection; the filtering down to the requested
// post happens here, on the subscriber side.
func (fc *FeedController) StreamPostComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	out, ok := fc.openStream(w)
	if !ok {
		return
	}

	sub, err := fc.feed.SubscribeComments(r.Context(), func(comments []*models.Comment) {
		matching := []*models.Comment{}
		for _, c := range comments {
			if c.PostID == postID {
				matching = append(matching, c)
			}
		}
		out.send(matching)
	})
	if err != nil {
		out.close()
		log.Printf("feed: comment subscription failed: %v", err)
		return
	}
	defer out.close()
	defer sub.Cancel()

	select {
	case <-r.Context().Done():
	case <-sub.Done():
	}
}
