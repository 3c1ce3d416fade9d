package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// PhotoKind scopes uploaded photos by the entity field they back.
type PhotoKind string

const (
	// PhotoScoresheet backs sub-event scoresheet photos.
	PhotoScoresheet PhotoKind = "scoresheets"
	// PhotoSubmission backs sub-event participant submission photos.
	PhotoSubmission PhotoKind = "submissions"
	// PhotoInventory backs inventory item photos.
	PhotoInventory PhotoKind = "inventory"
)

// photoExtensions maps the accepted image MIME types to file extensions.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoLibrary stores entity photos in an object store under kind-scoped
// keys. The generated key is what mutators persist in photo path fields; the
// bytes themselves never pass through the transactional store.
type PhotoLibrary struct {
	store  Store
	prefix string
}

// NewPhotoLibrary wraps a store. prefix, when non-empty, roots every key and
// should match the photo prefix configured on the mutator service.
func NewPhotoLibrary(store Store, prefix string) *PhotoLibrary {
	return &PhotoLibrary{store: store, prefix: strings.Trim(prefix, "/")}
}

// StorePhoto uploads one photo and returns its key. The content type must be
// an accepted image type.
func (l *PhotoLibrary) StorePhoto(ctx context.Context, kind PhotoKind, r io.Reader, contentType string) (string, error) {
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported photo content type %q", contentType)
	}
	key := l.keyFor(kind, uuid.NewString()+ext)
	if _, err := l.store.Put(ctx, key, r, PutOptions{ContentType: contentType}); err != nil {
		return "", err
	}
	return key, nil
}

// PhotoURL returns a time-limited download URL for the key, or empty when the
// backend cannot sign URLs.
func (l *PhotoLibrary) PhotoURL(ctx context.Context, key string) (string, error) {
	u, err := l.store.PresignURL(ctx, key, SignedURLOptions{Method: "GET"})
	if err == ErrUnsupported {
		return "", nil
	}
	return u, err
}

// RemovePhoto deletes the object behind a photo key. Missing objects are not
// an error so that clearing an already-removed photo stays idempotent.
func (l *PhotoLibrary) RemovePhoto(ctx context.Context, key string) error {
	_, err := l.store.Delete(ctx, key)
	return err
}

// ListPhotos returns the stored photos of one kind.
func (l *PhotoLibrary) ListPhotos(ctx context.Context, kind PhotoKind) ([]Info, error) {
	return l.store.List(ctx, l.keyFor(kind, ""))
}

// Prefix reports the configured key prefix.
func (l *PhotoLibrary) Prefix() string { return l.prefix }

func (l *PhotoLibrary) keyFor(kind PhotoKind, name string) string {
	parts := make([]string, 0, 3)
	if l.prefix != "" {
		parts = append(parts, l.prefix)
	}
	parts = append(parts, string(kind))
	if name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, "/")
}
