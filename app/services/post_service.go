package services

import (
	"context"
	"fmt"
	"strings"

	"bulletin/app/models"
	"bulletin/app/store"
)

// PostService handles business logic for board posts
type PostService struct {
	store store.Store
}

// NewPostService creates a new PostService
func NewPostService(s store.Store) *PostService {
	return &PostService{store: s}
}

// CreatePost creates a new post from the given fields. All fields are
// trimmed and must be non-empty; no mutation happens on invalid input.
func (s *PostService) CreatePost(ctx context.Context, title, content, author string) (*models.Post, error) {
	post := &models.Post{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		Author:  strings.TrimSpace(author),
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.store.GetPost(ctx, id)
}

// ViewPost retrieves a post and records the view, returning the post with its
// new view count.
func (s *PostService) ViewPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.store.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Views = views
	return post, nil
}

// UpdatePost edits a post's title, content and author, refreshing its
// modification timestamp. The creation timestamp and view count are kept.
func (s *PostService) UpdatePost(ctx context.Context, id, title, content, author string) (*models.Post, error) {
	post := &models.Post{
		ID:      id,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		Author:  strings.TrimSpace(author),
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.store.DeletePost(ctx, id)
}

// ListPosts retrieves all posts, newest first
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.store.ListPosts(ctx)
}
