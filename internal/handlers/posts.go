// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/imaging"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// maxUploadSize is the maximum allowed featured image size (10 MB).
const maxUploadSize = 10 << 20

// allowedImageTypes defines MIME types accepted for featured images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// errUnsupportedType rejects uploads outside the image allow-list.
var errUnsupportedType = errors.New("unsupported image type")

// Posts groups the post CRUD and comment handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	uploads    *store.UploadStore
	files      *storage.Local
	s3         *storage.Client // nil when object storage is not configured
	cache      *cache.PostCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, uploads *store.UploadStore, files *storage.Local, s3 *storage.Client, postCache *cache.PostCache) *Posts {
	return &Posts{
		posts:      posts,
		categories: categories,
		uploads:    uploads,
		files:      files,
		s3:         s3,
		cache:      postCache,
	}
}

// listResponse carries pagination metadata next to the envelope fields.
type listResponse struct {
	Success  bool          `json:"success"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Data     []models.Post `json:"data"`
}

// List handles GET /api/posts with page, limit, search, and category
// query parameters. Results are newest-first; total counts all matches
// before pagination. Responses are served from the Valkey cache when warm.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	search := q.Get("search")

	opts := store.ListOptions{Page: page, PageSize: limit, Search: search}
	if cat := q.Get("category"); cat != "" {
		id, err := uuid.Parse(cat)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		opts.CategoryID = &id
	}

	key := cache.ListKey(opts.Page, opts.PageSize, search, q.Get("category"))
	if body, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	items, total, err := h.posts.List(opts)
	if err != nil {
		respondServerError(w, "list posts failed", err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}

	resp := listResponse{
		Success:  true,
		Total:    total,
		Page:     opts.Page,
		PageSize: len(items),
		Data:     items,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		respondServerError(w, "list posts encode failed", err)
		return
	}
	h.cache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Get handles GET /api/posts/{id}. The response embeds author and category
// summaries, resolves each comment's user, and carries the Markdown
// content rendered to HTML.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	key := cache.DetailKey(id)
	if body, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "get post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	rendered, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("post content render failed", "post", post.ID, "error", err)
	} else {
		post.ContentHTML = rendered
	}

	body, err := json.Marshal(envelope{Success: true, Data: post})
	if err != nil {
		respondServerError(w, "get post encode failed", err)
		return
	}
	h.cache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// formValues flattens the multipart text fields to their first values.
func formValues(r *http.Request) map[string]string {
	values := make(map[string]string)
	if r.MultipartForm == nil {
		return values
	}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}
	return values
}

// saveFeaturedImage stores the uploaded file under a generated unique name,
// generates a thumbnail where the format supports it, mirrors to S3 when
// configured, and records the upload. Returns http.ErrMissingFile when the
// request carries no file.
func (h *Posts) saveFeaturedImage(r *http.Request, uploaderID uuid.UUID) (string, error) {
	file, header, err := r.FormFile("featuredImage")
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", errUnsupportedType
	}

	filename := storage.Filename(header.Filename)
	if err := h.files.Save(filename, data); err != nil {
		return "", err
	}

	var thumbName *string
	if imaging.Thumbable(contentType) {
		thumb, err := imaging.Thumbnail(data, imaging.DefaultMaxWidth, imaging.DefaultQuality)
		if err != nil {
			slog.Warn("thumbnail generation failed", "file", filename, "error", err)
		} else {
			name := strings.TrimSuffix(filename, filepath.Ext(filename)) + "_thumb.jpg"
			if err := h.files.Save(name, thumb); err != nil {
				slog.Warn("thumbnail save failed", "file", name, "error", err)
			} else {
				thumbName = &name
				if h.s3 != nil {
					if err := h.s3.Upload(r.Context(), name, "image/jpeg", thumb); err != nil {
						slog.Warn("thumbnail mirror failed", "file", name, "error", err)
					}
				}
			}
		}
	}

	if h.s3 != nil {
		if err := h.s3.Upload(r.Context(), filename, contentType, data); err != nil {
			slog.Warn("upload mirror failed", "file", filename, "error", err)
		}
	}

	_, err = h.uploads.Create(&models.Upload{
		Filename:      filename,
		OriginalName:  header.Filename,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
		ThumbFilename: thumbName,
		UploaderID:    uploaderID,
	})
	if err != nil {
		return "", err
	}

	return filename, nil
}

// Create handles POST /api/posts (multipart, auth required). The author is
// always the authenticated caller; an author value in the body is ignored.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	values := formValues(r)
	cleaned, errs := postCreateSchema.Check(values)

	tags := normalizeTags(r.MultipartForm.Value["tags"])
	errs = append(errs, validateTags(tags)...)

	var categoryID uuid.UUID
	if len(errs) == 0 {
		categoryID = uuid.MustParse(cleaned["category"])
		category, err := h.categories.FindByID(categoryID)
		if err != nil {
			respondServerError(w, "category lookup failed", err)
			return
		}
		if category == nil {
			errs = append(errs, "Category does not exist")
		}
	}
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	featuredImage := models.DefaultFeaturedImage
	filename, err := h.saveFeaturedImage(r, userID)
	switch {
	case err == nil:
		featuredImage = filename
	case errors.Is(err, http.ErrMissingFile):
		// No upload; keep the placeholder.
	case errors.Is(err, errUnsupportedType):
		respondError(w, http.StatusBadRequest, "Unsupported image type")
		return
	default:
		respondServerError(w, "featured image save failed", err)
		return
	}

	post, err := h.posts.Create(&models.Post{
		Title:         cleaned["title"],
		Content:       cleaned["content"],
		CategoryID:    categoryID,
		AuthorID:      userID,
		Tags:          tags,
		FeaturedImage: featuredImage,
	})
	if err != nil {
		respondServerError(w, "create post failed", err)
		return
	}

	h.cache.Invalidate(r.Context())
	respondData(w, http.StatusCreated, post)
}

// Update handles PUT /api/posts/{id} (multipart, partial, auth required).
// Provided fields are re-validated and applied over the stored post.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "update lookup failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	values := formValues(r)

	// An uploaded file counts as a provided field for the at-least-one
	// rule. Nothing is written to disk until validation passes.
	hasFile := r.MultipartForm != nil && len(r.MultipartForm.File["featuredImage"]) > 0
	if hasFile {
		values["featuredImage"] = "upload"
	}

	cleaned, errs := postUpdateSchema.Check(values)

	var tags []string
	if _, present := values["tags"]; present {
		tags = normalizeTags(r.MultipartForm.Value["tags"])
		errs = append(errs, validateTags(tags)...)
	}

	if v, present := cleaned["category"]; present && len(errs) == 0 {
		categoryID := uuid.MustParse(v)
		category, err := h.categories.FindByID(categoryID)
		if err != nil {
			respondServerError(w, "category lookup failed", err)
			return
		}
		if category == nil {
			errs = append(errs, "Category does not exist")
		} else {
			post.CategoryID = categoryID
		}
	}
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	if v, present := cleaned["title"]; present {
		post.Title = v
	}
	if v, present := cleaned["content"]; present {
		post.Content = v
	}
	if tags != nil {
		post.Tags = tags
	}
	if v, present := cleaned["featuredImage"]; present && !hasFile {
		post.FeaturedImage = v
	}

	if hasFile {
		filename, imgErr := h.saveFeaturedImage(r, userID)
		switch {
		case imgErr == nil:
			post.FeaturedImage = filename
		case errors.Is(imgErr, errUnsupportedType):
			respondError(w, http.StatusBadRequest, "Unsupported image type")
			return
		default:
			respondServerError(w, "featured image save failed", imgErr)
			return
		}
	}

	if err := h.posts.Update(post); err != nil {
		respondServerError(w, "update post failed", err)
		return
	}

	updated, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "update refetch failed", err)
		return
	}

	h.cache.Invalidate(r.Context())
	respondData(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/posts/{id} (auth required). Embedded comments
// are destroyed with the post row.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	found, err := h.posts.Delete(id)
	if err != nil {
		respondServerError(w, "delete post failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	h.cache.Invalidate(r.Context())
	respondMessage(w, http.StatusOK, "Post deleted successfully")
}

// AddComment handles POST /api/posts/{id}/comments (auth required). The
// comment is appended to the post's embedded collection in one atomic
// row update; the response is the refreshed post.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cleaned, errs := commentSchema.Check(map[string]string{"content": body.Content})
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	found, err := h.posts.AddComment(id, models.Comment{
		ID:        uuid.New(),
		Content:   cleaned["content"],
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		respondServerError(w, "add comment failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "comment refetch failed", err)
		return
	}

	h.cache.Invalidate(r.Context())
	respondData(w, http.StatusOK, post)
}
