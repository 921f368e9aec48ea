package services

import (
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/metrics"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

// sniffLen is the number of bytes mimetype needs for detection
const sniffLen = 3072

// Upload is an incoming file waiting to be stored.
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// AssetManager owns the lifecycle of stored image files. Entities only keep
// the relative path returned by Store.
type AssetManager struct {
	store   storage.Store
	logger  zerolog.Logger
	allowed []string
}

// NewAssetManager accepts any content type whose MIME string starts with one
// of the allowed prefixes. No prefixes means everything is accepted.
func NewAssetManager(store storage.Store, logger zerolog.Logger, allowed ...string) *AssetManager {
	return &AssetManager{
		store:   store,
		logger:  logger.With().Str("service", "assets").Logger(),
		allowed: allowed,
	}
}

// Store saves the upload under dir with a fresh unique name and returns the
// relative path.
func (m *AssetManager) Store(ctx context.Context, upload Upload, dir string) (string, error) {
	if upload.Content == nil {
		return "", errs.NewFieldValidationError("file", "file is required")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", errs.NewStorageError("read", upload.Name, err)
	}
	head = head[:n]
	if n == 0 {
		return "", errs.NewFieldValidationError("file", "file is empty")
	}

	mtype := mimetype.Detect(head)
	if !m.accepts(mtype) {
		return "", errs.NewFieldValidationError("file", "unsupported file type "+mtype.String())
	}

	ext := strings.ToLower(filepath.Ext(upload.Name))
	if ext == "" || !mtype.Is(mimeOfExt(ext)) {
		ext = mtype.Extension()
	}
	stored := path.Join(strings.Trim(dir, "/"), uuid.NewString()+ext)

	err = m.store.Save(ctx, stored, io.MultiReader(bytes.NewReader(head), upload.Content), mtype.String())
	metrics.RecordAssetOperation("store", err)
	if err != nil {
		return "", errs.NewStorageError("store", stored, err)
	}

	m.logger.Debug().Str("path", stored).Str("contentType", mtype.String()).Msg("Stored asset")
	return stored, nil
}

// Delete removes a stored file. It reports false for nil or empty paths and
// when the store fails; failures are logged, never returned.
func (m *AssetManager) Delete(ctx context.Context, p *string) bool {
	if p == nil || *p == "" || isAbsoluteURL(*p) {
		return false
	}

	err := m.store.Delete(ctx, *p)
	metrics.RecordAssetOperation("delete", err)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", *p).Msg("Failed to delete asset")
		return false
	}
	return true
}

// DeleteAll releases every path and returns how many were removed.
func (m *AssetManager) DeleteAll(ctx context.Context, paths []string) int {
	removed := 0
	for i := range paths {
		if m.Delete(ctx, &paths[i]) {
			removed++
		}
	}
	return removed
}

// Replace deletes old and then stores the upload. The two steps are not
// atomic: if storing fails the old file is already gone.
func (m *AssetManager) Replace(ctx context.Context, old *string, upload Upload, dir string) (string, error) {
	m.Delete(ctx, old)
	return m.Store(ctx, upload, dir)
}

// Reconcile decides the new value of an image field. Removal wins over a new
// upload; with neither the current path is kept.
func (m *AssetManager) Reconcile(ctx context.Context, current *string, upload *Upload, remove bool, dir string) (*string, error) {
	if remove {
		m.Delete(ctx, current)
		return nil, nil
	}
	if upload != nil {
		stored, err := m.Replace(ctx, current, *upload, dir)
		if err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return current, nil
}

// URL returns the public URL for a stored path. Absolute URLs pass through.
func (m *AssetManager) URL(p string) string {
	if p == "" || isAbsoluteURL(p) {
		return p
	}
	return m.store.URL(p)
}

// URLPtr is URL for optional fields.
func (m *AssetManager) URLPtr(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	u := m.URL(*p)
	return &u
}

func (m *AssetManager) accepts(mtype *mimetype.MIME) bool {
	if len(m.allowed) == 0 {
		return true
	}
	for mt := mtype; mt != nil; mt = mt.Parent() {
		for _, prefix := range m.allowed {
			if strings.HasPrefix(mt.String(), prefix) {
				return true
			}
		}
	}
	return false
}

func mimeOfExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	}
	return ""
}

func isAbsoluteURL(p string) bool {
	return strings.Contains(p, "://")
}
