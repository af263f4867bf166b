package services

import (
	"context"
	"fmt"
	"strings"

	"bulletin/app/models"
	"bulletin/app/store"
)

// CommentService handles business logic for comments
type CommentService struct {
	store store.Store
}

// NewCommentService creates a new CommentService
func NewCommentService(s store.Store) *CommentService {
	return &CommentService{store: s}
}

// CreateComment creates a new comment on the given post. The post must exist
// at creation time; afterwards consistency is kept by the cascade delete.
func (s *CommentService) CreateComment(ctx context.Context, postID, author, content string) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  postID,
		Author:  strings.TrimSpace(author),
		Content: strings.TrimSpace(content),
	}
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes a single comment
func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	return s.store.DeleteComment(ctx, id)
}

// ListPostComments retrieves a post's comments, newest first. Listing for an
// unknown post id yields an empty result, not an error, so a cascade-deleted
// post reads back as having no comments.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.store.ListCommentsForPost(ctx, postID)
}
