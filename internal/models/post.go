// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFeaturedImage is the placeholder used when no image is uploaded.
const DefaultFeaturedImage = "default-post.jpg"

// Comment lives inside its parent post's document. Comments have no
// table of their own: they are written and deleted with the post row.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// User is resolved at read time for the post detail view.
	User *UserSummary `json:"user,omitempty"`
}

// Post is the central aggregate: article fields plus the embedded,
// ordered comment collection.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"contentHtml,omitempty"` // rendered Markdown, detail view only
	CategoryID    uuid.UUID `json:"categoryId"`
	AuthorID      uuid.UUID `json:"authorId"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featuredImage"`
	Comments      []Comment `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Populated by store joins; never stored on the post row.
	Author   *UserSummary     `json:"author,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}
