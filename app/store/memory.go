package store

import (
	"context"
	"sync"

	"bulletin/app/models"

	"github.com/google/uuid"
)

// MemoryStore implements Store (and ChangeFeed) on in-process slices. It backs
// tests and the "memory" backend mode; nothing survives a restart.
type MemoryStore struct {
	mut      sync.RWMutex
	posts    []*models.Post // newest first
	comments []*models.Comment

	nextSub     int
	postSubs    map[int]func([]*models.Post)
	commentSubs map[int]func([]*models.Comment)

	// deliverMut serializes callback delivery so subscriber callbacks never
	// overlap.
	deliverMut sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		postSubs:    make(map[int]func([]*models.Post)),
		commentSubs: make(map[int]func([]*models.Comment)),
	}
}

func (s *MemoryStore) Close() error { return nil }

func clonePosts(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i, p := range posts {
		cp := *p
		out[i] = &cp
	}
	return out
}

func cloneComments(comments []*models.Comment) []*models.Comment {
	out := make([]*models.Comment, len(comments))
	for i, c := range comments {
		cc := *c
		out[i] = &cc
	}
	return out
}

// Post methods

func (s *MemoryStore) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	post.BeforeCreate()

	s.mut.Lock()
	stored := *post
	s.posts = append([]*models.Post{&stored}, s.posts...)
	s.mut.Unlock()

	s.notifyPosts()
	return nil
}

func (s *MemoryStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdatePost(ctx context.Context, post *models.Post) error {
	s.mut.Lock()
	var updated bool
	for _, p := range s.posts {
		if p.ID == post.ID {
			p.Title = post.Title
			p.Content = post.Content
			p.Author = post.Author
			p.BeforeUpdate()
			*post = *p
			updated = true
			break
		}
	}
	s.mut.Unlock()

	if !updated {
		return ErrNotFound
	}
	s.notifyPosts()
	return nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id string) error {
	s.mut.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(s.posts) {
		s.mut.Unlock()
		return ErrNotFound
	}
	s.posts = kept

	keptComments := s.comments[:0]
	for _, c := range s.comments {
		if c.PostID != id {
			keptComments = append(keptComments, c)
		}
	}
	s.comments = keptComments
	s.mut.Unlock()

	s.notifyPosts()
	s.notifyComments()
	return nil
}

func (s *MemoryStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return clonePosts(s.posts), nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, id string) (int, error) {
	s.mut.Lock()
	views := -1
	for _, p := range s.posts {
		if p.ID == id {
			p.Views++
			views = p.Views
			break
		}
	}
	s.mut.Unlock()

	if views < 0 {
		return 0, ErrNotFound
	}
	s.notifyPosts()
	return views, nil
}

// Comment methods

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.NewString()
	comment.BeforeCreate()

	s.mut.Lock()
	stored := *comment
	s.comments = append([]*models.Comment{&stored}, s.comments...)
	s.mut.Unlock()

	s.notifyComments()
	return nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id string) error {
	s.mut.Lock()
	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(s.comments) {
		s.mut.Unlock()
		return ErrNotFound
	}
	s.comments = kept
	s.mut.Unlock()

	s.notifyComments()
	return nil
}

func (s *MemoryStore) ListCommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

// Change feed

type memorySubscription struct {
	cancel func()
	done   chan struct{}
	once   sync.Once
}

func (s *memorySubscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
}

func (s *memorySubscription) Done() <-chan struct{} {
	return s.done
}

func (s *MemoryStore) SubscribePosts(ctx context.Context, fn func([]*models.Post)) (Subscription, error) {
	s.mut.Lock()
	id := s.nextSub
	s.nextSub++
	s.postSubs[id] = fn
	snapshot := clonePosts(s.posts)
	s.mut.Unlock()

	s.deliver(func() { fn(snapshot) })

	return &memorySubscription{
		cancel: func() {
			s.mut.Lock()
			delete(s.postSubs, id)
			s.mut.Unlock()
		},
		done: make(chan struct{}),
	}, nil
}

func (s *MemoryStore) SubscribeComments(ctx context.Context, fn func([]*models.Comment)) (Subscription, error) {
	s.mut.Lock()
	id := s.nextSub
	s.nextSub++
	s.commentSubs[id] = fn
	snapshot := cloneComments(s.comments)
	s.mut.Unlock()

	s.deliver(func() { fn(snapshot) })

	return &memorySubscription{
		cancel: func() {
			s.mut.Lock()
			delete(s.commentSubs, id)
			s.mut.Unlock()
		},
		done: make(chan struct{}),
	}, nil
}

func (s *MemoryStore) deliver(send func()) {
	s.deliverMut.Lock()
	defer s.deliverMut.Unlock()
	send()
}

func (s *MemoryStore) notifyPosts() {
	s.mut.RLock()
	snapshot := clonePosts(s.posts)
	subs := make([]func([]*models.Post), 0, len(s.postSubs))
	for _, fn := range s.postSubs {
		subs = append(subs, fn)
	}
	s.mut.RUnlock()

	for _, fn := range subs {
		fn := fn
		s.deliver(func() { fn(snapshot) })
	}
}

func (s *MemoryStore) notifyComments() {
	s.mut.RLock()
	snapshot := cloneComments(s.comments)
	subs := make([]func([]*models.Comment), 0, len(s.commentSubs))
	for _, fn := range s.commentSubs {
		subs = append(subs, fn)
	}
	s.mut.RUnlock()

	for _, fn := range subs {
		fn := fn
		s.deliver(func() { fn(snapshot) })
	}
}
