// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations. A post row is a
// single document: tags and the embedded comment collection live in JSONB
// columns, so every write touches exactly one row and deleting the post
// destroys its comments implicitly.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// ListOptions narrows and pages the post listing.
type ListOptions struct {
	Page       int    // 1-based; values < 1 are treated as 1
	PageSize   int    // defaults to 10, capped at 100
	Search     string // case-insensitive substring match on title
	CategoryID *uuid.UUID
}

const listDefaults = 10
const listMax = 100

// normalize clamps paging values into range.
func (o *ListOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = listDefaults
	}
	if o.PageSize > listMax {
		o.PageSize = listMax
	}
}

const postJoinedColumns = `
	p.id, p.title, p.content, p.category_id, p.author_id,
	p.tags, p.featured_image, p.comments, p.created_at, p.updated_at,
	u.id, u.name, u.email, u.avatar,
	c.id, c.name, c.slug`

// scanJoinedPost scans a post row joined with its author and category summaries.
func scanJoinedPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{Author: &models.UserSummary{}, Category: &models.CategorySummary{}}
	var tagsJSON, commentsJSON []byte

	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.CategoryID, &p.AuthorID,
		&tagsJSON, &p.FeaturedImage, &commentsJSON, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email, &p.Author.Avatar,
		&p.Category.ID, &p.Category.Name, &p.Category.Slug,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(commentsJSON, &p.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p, nil
}

// escapeLike neutralizes LIKE wildcards so a search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of posts newest-first, with author and category
// summaries resolved, plus the total match count before pagination.
func (s *PostStore) List(opts ListOptions) ([]models.Post, int, error) {
	opts.normalize()

	search := escapeLike(opts.Search)

	var catParam any
	if opts.CategoryID != nil {
		catParam = *opts.CategoryID
	}

	where := `
		($1::text = '' OR p.title ILIKE '%' || $1 || '%')
		AND ($2::uuid IS NULL OR p.category_id = $2)`

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts p WHERE `+where, search, catParam).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+postJoinedColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE `+where+`
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`, search, catParam, opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanJoinedPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a post with author and category summaries and each
// comment's user resolved to a name/email/avatar projection.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postJoinedColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)

	p, err := scanJoinedPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	if err := s.resolveCommentUsers(p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveCommentUsers attaches the public user projection to every comment.
// Users deleted since commenting simply stay unresolved.
func (s *PostStore) resolveCommentUsers(p *models.Post) error {
	if len(p.Comments) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	var args []any
	var placeholders []string
	for _, c := range p.Comments {
		if seen[c.UserID] {
			continue
		}
		seen[c.UserID] = true
		args = append(args, c.UserID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	rows, err := s.db.Query(`
		SELECT id, name, email, avatar FROM users
		WHERE id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return fmt.Errorf("resolve comment users: %w", err)
	}
	defer rows.Close()

	users := make(map[uuid.UUID]*models.UserSummary)
	for rows.Next() {
		u := &models.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar); err != nil {
			return fmt.Errorf("scan comment user: %w", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Comments {
		p.Comments[i].User = users[p.Comments[i].UserID]
	}
	return nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamps. Tags are stored as a JSONB array; comments start empty.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	result := &models.Post{}
	var outTags, outComments []byte
	err = s.db.QueryRow(`
		INSERT INTO posts (title, content, category_id, author_id, tags, featured_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, content, category_id, author_id,
		          tags, featured_image, comments, created_at, updated_at
	`, p.Title, p.Content, p.CategoryID, p.AuthorID, tagsJSON, p.FeaturedImage).Scan(
		&result.ID, &result.Title, &result.Content, &result.CategoryID, &result.AuthorID,
		&outTags, &result.FeaturedImage, &outComments, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := json.Unmarshal(outTags, &result.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(outComments, &result.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if result.Comments == nil {
		result.Comments = []models.Comment{}
	}
	return result, nil
}

// Update writes the post's editable fields. The comment collection is not
// touched here; it changes only through AddComment.
func (s *PostStore) Update(p *models.Post) error {
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, category_id = $3,
			tags = $4, featured_image = $5, updated_at = NOW()
		WHERE id = $6
	`, p.Title, p.Content, p.CategoryID, tagsJSON, p.FeaturedImage, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID, returning false when no row matched.
// Embedded comments go with the row; there is nothing to cascade.
func (s *PostStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}

// AddComment appends a comment to the post's embedded collection in a
// single atomic row update. Returns false when the post does not exist.
func (s *PostStore) AddComment(postID uuid.UUID, c models.Comment) (bool, error) {
	// Marshal as a one-element array so JSONB concatenation appends.
	entry, err := json.Marshal([]models.Comment{c})
	if err != nil {
		return false, fmt.Errorf("encode comment: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE posts SET comments = comments || $1::jsonb, updated_at = NOW()
		WHERE id = $2
	`, entry, postID)
	if err != nil {
		return false, fmt.Errorf("add comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add comment rows: %w", err)
	}
	return n > 0, nil
}
