// Package store provides persistence for board posts and comments behind a
// single interface with interchangeable backends: an embedded Badger database
// (local variant) and MongoDB (cloud variant).
package store

import (
	"context"
	"errors"

	"bulletin/app/models"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation is returned when required input is missing or empty.
	ErrValidation = errors.New("invalid input")
	// ErrBackend is returned when the storage medium itself fails.
	ErrBackend = errors.New("storage backend failure")
)

// Store owns the post and comment collections. Implementations persist every
// mutation before returning.
type Store interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	// DeletePost removes the post and every comment referencing it as one
	// logical operation.
	DeletePost(ctx context.Context, id string) error
	// ListPosts returns all posts ordered newest first.
	ListPosts(ctx context.Context) ([]*models.Post, error)
	// IncrementViews bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id string) (int, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	// ListCommentsForPost returns the post's comments ordered newest first.
	ListCommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error)

	Close() error
}

// Subscription is a handle for an active change-feed subscription. Cancel
// stops further callbacks; a callback already in flight completes first.
// Cancel is idempotent. Done is closed once no further callbacks will be
// delivered, whether through Cancel or because the feed itself terminated.
type Subscription interface {
	Cancel()
	Done() <-chan struct{}
}

// ChangeFeed is an optional capability of a Store. Subscribers receive the
// current collection snapshot immediately and a fresh snapshot after every
// subsequent change, including changes made by other clients. Callbacks of a
// single subscription never overlap.
//
// Comment subscriptions deliver the whole comment collection; subscribers
// filter by post id themselves.
type ChangeFeed interface {
	SubscribePosts(ctx context.Context, fn func([]*models.Post)) (Subscription, error)
	SubscribeComments(ctx context.Context, fn func([]*models.Comment)) (Subscription, error)
}
