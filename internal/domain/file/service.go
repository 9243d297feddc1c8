package file

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fileexplorer/internal/extract"
)

// Service is the ingestion pipeline plus the read/delete operations built
// on top of the corpus store. Ingest: receive bytes -> persist blob ->
// extract text -> one atomic store insert.
type Service struct {
	repo      Repository
	extractor *extract.Registry
	uploadDir string
}

func NewService(repo Repository, extractor *extract.Registry, uploadDir string) *Service {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &Service{repo: repo, extractor: extractor, uploadDir: uploadDir}
}

// Ingest stores the uploaded bytes under a generated name, extracts text
// according to the filename's extension, and writes metadata + text in one
// transaction. Extraction can degrade (diagnostic text) but never fails
// the ingestion; only an empty filename, a blob write error, or a store
// error do.
func (s *Service) Ingest(ctx context.Context, originalName string, src io.Reader) (*RecordWithText, error) {
	if strings.TrimSpace(originalName) == "" {
		return nil, ErrEmptyFilename
	}

	id := newFileID()
	typeTag := strings.ToLower(filepath.Ext(originalName))
	storedName := id + typeTag
	blobPath := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	size, err := writeBlob(blobPath, src)
	if err != nil {
		return nil, err
	}

	content := s.extractor.Text(ctx, blobPath, typeTag)

	now := time.Now()
	rec := &FileRecord{
		ID:           id,
		OriginalName: originalName,
		StoredName:   storedName,
		SizeBytes:    size,
		TypeTag:      typeTag,
		CreatedAt:    now,
		BlobPath:     blobPath,
	}
	var text *ExtractedText
	if content != "" {
		text = &ExtractedText{
			ID:          uuid.NewString(),
			FileID:      id,
			Content:     content,
			ExtractedAt: now,
		}
	}

	if err := s.repo.Insert(ctx, rec, text); err != nil {
		_ = os.Remove(blobPath) // roll back the blob on store failure
		return nil, err
	}

	out := &RecordWithText{FileRecord: *rec}
	if text != nil {
		out.Content = &text.Content
	}
	return out, nil
}

// GetByID returns the record with its extracted text inlined.
func (s *Service) GetByID(ctx context.Context, id string) (*RecordWithText, error) {
	return s.repo.GetByID(ctx, id)
}

// Search returns the matching page plus the total match count.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*RecordWithText, int64, error) {
	return s.repo.Search(ctx, query, limit, offset)
}

// Download resolves the record and verifies its blob exists on disk.
// A record whose blob is gone is reported as ErrBlobMissing so callers
// can tell the two not-found causes apart.
func (s *Service) Download(ctx context.Context, id string) (*FileRecord, error) {
	rwt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rwt.BlobPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobMissing
		}
		return nil, fmt.Errorf("stat blob: %w", err)
	}
	return &rwt.FileRecord, nil
}

// Delete removes the rows and then the blob. A blob that cannot be removed
// after the rows are gone is a storage inconsistency: it is logged and
// returned as a warning, not rolled back.
func (s *Service) Delete(ctx context.Context, id string) (warning string, err error) {
	rwt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	if err := os.Remove(rwt.BlobPath); err != nil && !os.IsNotExist(err) {
		log.Printf("storage_inconsistency id=%s path=%s error=%v", id, rwt.BlobPath, err)
		return "file metadata removed but the stored file could not be deleted", nil
	}
	return "", nil
}

func writeBlob(path string, src io.Reader) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write blob: %w", err)
	}
	return size, nil
}

// newFileID follows the original naming scheme: an ingestion timestamp for
// human-readable ordering plus a short random suffix for uniqueness.
// A collision (same second, same suffix) surfaces as ErrDuplicateFile and
// the client retries with a fresh id.
func newFileID() string {
	return time.Now().Format("20060102_150405") + "_" + uuid.NewString()[:8]
}
