// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// UploadStore records metadata for files stored by the upload pipeline.
type UploadStore struct {
	db *sql.DB
}

// NewUploadStore creates a new UploadStore with the given database connection.
func NewUploadStore(db *sql.DB) *UploadStore {
	return &UploadStore{db: db}
}

// Create inserts an upload record and returns it with the generated ID.
func (s *UploadStore) Create(u *models.Upload) (*models.Upload, error) {
	result := &models.Upload{}
	err := s.db.QueryRow(`
		INSERT INTO uploads (filename, original_name, content_type, size_bytes, thumb_filename, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, filename, original_name, content_type, size_bytes, thumb_filename, uploader_id, created_at
	`, u.Filename, u.OriginalName, u.ContentType, u.SizeBytes, u.ThumbFilename, u.UploaderID).Scan(
		&result.ID, &result.Filename, &result.OriginalName, &result.ContentType,
		&result.SizeBytes, &result.ThumbFilename, &result.UploaderID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	return result, nil
}

// List returns upload records newest-first for bookkeeping inspection.
func (s *UploadStore) List(limit, offset int) ([]models.Upload, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, original_name, content_type, size_bytes, thumb_filename, uploader_id, created_at
		FROM uploads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var items []models.Upload
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(
			&u.ID, &u.Filename, &u.OriginalName, &u.ContentType,
			&u.SizeBytes, &u.ThumbFilename, &u.UploaderID, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
