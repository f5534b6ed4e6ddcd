// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload records a file stored by the upload pipeline. The file itself
// lives on disk (and optionally in S3); this row is bookkeeping.
type Upload struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"originalName"`
	ContentType   string    `json:"contentType"`
	SizeBytes     int64     `json:"sizeBytes"`
	ThumbFilename *string   `json:"thumbFilename,omitempty"`
	UploaderID    uuid.UUID `json:"uploaderId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsImage returns true if the upload is an image type.
func (u *Upload) IsImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (u *Upload) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case u.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(u.SizeBytes)/float64(mb))
	case u.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(u.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", u.SizeBytes)
	}
}
