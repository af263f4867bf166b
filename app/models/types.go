package models

import "time"

// Post represents a board entry.
type Post struct {
	ID        string    `json:"id" validate:"-"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	Author    string    `json:"author" validate:"required"`
	Views     int       `json:"views" validate:"gte=0"`
	CreatedAt time.Time `json:"createdAt" validate:"-"`
	UpdatedAt time.Time `json:"updatedAt" validate:"-"`
}

// Comment represents a reply attached to exactly one post.
type Comment struct {
	ID        string    `json:"id" validate:"-"`
	PostID    string    `json:"postId" validate:"required"`
	Author    string    `json:"author" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"-"`
}
