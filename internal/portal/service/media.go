package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/form"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
	"github.com/google/uuid"
)

const (
	DefaultMaxImageBytes    = 5 << 20
	DefaultMaxDocumentBytes = 10 << 20
)

var ErrMediaNotFound = errors.New("media_not_found")

// ImageTypes are accepted for profile photos.
var ImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// DocumentTypes are accepted for marksheets.
var DocumentTypes = append([]string{"application/pdf"}, ImageTypes...)

// MediaService stores uploaded files and resolves them for download.
type MediaService struct {
	Blobs blob.Store
	Store store.Store

	// PublicBaseURL prefixes "/media/<key>" in returned URLs. Empty
	// yields root-relative URLs.
	PublicBaseURL string

	MaxImageBytes    int64
	MaxDocumentBytes int64

	// NewID returns the unique part of object keys.
	NewID func() string
	Now   func() time.Time
}

func (s *MediaService) maxImage() int64 {
	if s.MaxImageBytes > 0 {
		return s.MaxImageBytes
	}
	return DefaultMaxImageBytes
}

func (s *MediaService) maxDocument() int64 {
	if s.MaxDocumentBytes > 0 {
		return s.MaxDocumentBytes
	}
	return DefaultMaxDocumentBytes
}

// ImageRule validates a profile photo.
func (s *MediaService) ImageRule(required bool) form.Rule {
	return form.Rule{
		Kind:         form.KindFile,
		Required:     required,
		MaxSize:      s.maxImage(),
		AllowedTypes: ImageTypes,
	}
}

// ResumeRule accepts parseable PDFs only.
func (s *MediaService) ResumeRule() form.Rule {
	return form.Rule{
		Kind:         form.KindFile,
		MaxSize:      s.maxDocument(),
		AllowedTypes: []string{"application/pdf"},
		Check:        form.ValidPDF,
	}
}

// MarksheetRule accepts a PDF or a scanned image.
func (s *MediaService) MarksheetRule() form.Rule {
	return form.Rule{
		Kind:         form.KindFile,
		MaxSize:      s.maxDocument(),
		AllowedTypes: DocumentTypes,
		Check:        checkIfPDF,
	}
}

// PhotoSchema is the body of the standalone photo upload.
func (s *MediaService) PhotoSchema() form.Schema {
	return form.Schema{Fields: map[string]form.Rule{
		"profile": s.ImageRule(true),
	}}
}

// checkIfPDF runs the PDF check only on content that starts with a PDF
// header, leaving images alone.
func checkIfPDF(rs io.ReadSeeker) error {
	head := make([]byte, 5)
	n, err := io.ReadFull(rs, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("unreadable file: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("unreadable file: %w", err)
	}
	if string(head[:n]) != "%PDF-" {
		return nil
	}
	return form.ValidPDF(rs)
}

func (s *MediaService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *MediaService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Save writes f under "<kind>/<identifier>_<id><ext>" and returns the key.
func (s *MediaService) Save(ctx context.Context, kind domain.MediaKind, identifier string, f form.FileField) (string, error) {
	key := domain.ObjectKey(kind, identifier, s.newID(), f.Ext)

	body, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer body.Close()

	if err := s.Blobs.Put(ctx, key, body, f.Size, f.ContentType); err != nil {
		return "", fmt.Errorf("store %s: %w", kind, err)
	}

	slogx.FromContext(ctx).Info("media stored",
		slog.String("key", key),
		slog.String("content_type", f.ContentType),
		slog.Int64("size", f.Size),
	)
	return key, nil
}

// UploadProfilePhoto stores the photo and points the credential at it.
// It returns the new key.
func (s *MediaService) UploadProfilePhoto(ctx context.Context, identifier string, f form.FileField) (string, error) {
	key, err := s.Save(ctx, domain.MediaProfile, identifier, f)
	if err != nil {
		return "", err
	}

	err = s.Store.Credentials().UpdateProfilePhotoKey(ctx, identifier, key, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("update photo key: %w", err)
	}
	return key, nil
}

// Open resolves kind and filename from a public URL to a stored object.
// The caller must close the body.
func (s *MediaService) Open(ctx context.Context, kind, filename string) (*blob.Object, error) {
	k, err := domain.ParseMediaKind(kind)
	if err != nil {
		return nil, ErrMediaNotFound
	}
	key, ok := domain.MediaKey(k, filename)
	if !ok {
		return nil, ErrMediaNotFound
	}

	obj, err := s.Blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if obj.ContentType == "" {
		obj.ContentType = blob.DefaultContentType
	}
	return obj, nil
}

// URL is the public address of key, or "" for an empty key.
func (s *MediaService) URL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(s.PublicBaseURL, "/") + "/media/" + key
}
