package file

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultLimit and MaxLimit bound the page window for Search.
	DefaultLimit = 50
	MaxLimit     = 100
)

// Repository is the corpus store: durable FileRecord + ExtractedText pairs
// with substring search across names and content. Matching is
// case-insensitive: LOWER on both sides, so ASCII-folded on sqlite.
type Repository interface {
	// Insert writes one record and its optional text atomically.
	// Returns ErrDuplicateFile when id or stored_name already exists.
	Insert(ctx context.Context, rec *FileRecord, text *ExtractedText) error
	// GetByID returns the record joined with its text, or ErrFileNotFound.
	GetByID(ctx context.Context, id string) (*RecordWithText, error)
	// Delete removes the record and its text; ErrFileNotFound if absent.
	// The caller owns blob removal.
	Delete(ctx context.Context, id string) error
	// Search returns records whose original name, stored name or extracted
	// text contains substring, newest first (ties by id descending), plus
	// the total match count ignoring pagination. An empty substring
	// matches everything, which makes Search double as the list operation.
	// limit is clamped into the 1..MaxLimit window, offset to >= 0.
	Search(ctx context.Context, substring string, limit, offset int) ([]*RecordWithText, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, rec *FileRecord, text *ExtractedText) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&FileRecord{}).
			Where("id = ? OR stored_name = ?", rec.ID, rec.StoredName).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("check uniqueness: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateFile
		}

		if err := tx.Create(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateFile
			}
			return fmt.Errorf("insert file record: %w", err)
		}
		if text != nil {
			if err := tx.Create(text).Error; err != nil {
				return fmt.Errorf("insert extracted text: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*RecordWithText, error) {
	var row RecordWithText
	res := r.joined(ctx).Where("files.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("get file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrFileNotFound
	}
	return &row, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Delete(&ExtractedText{}).Error; err != nil {
			return fmt.Errorf("delete extracted text: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&FileRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete file record: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrFileNotFound
		}
		return nil
	})
}

func (r *repository) Search(ctx context.Context, substring string, limit, offset int) ([]*RecordWithText, int64, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rows []*RecordWithText
	res := r.matching(ctx, substring).
		Order("files.created_at DESC, files.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows)
	if res.Error != nil {
		return nil, 0, fmt.Errorf("search files: %w", res.Error)
	}

	var total int64
	if res := r.matching(ctx, substring).Distinct("files.id").Count(&total); res.Error != nil {
		return nil, 0, fmt.Errorf("count matches: %w", res.Error)
	}
	return rows, total, nil
}

// joined is the base SELECT: every file left-joined with its text. The
// unique index on extracted_texts.file_id means the join can never
// multiply a file into more than one row.
func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&FileRecord{}).
		Select("files.*, extracted_texts.content AS content").
		Joins("LEFT JOIN extracted_texts ON extracted_texts.file_id = files.id")
}

func (r *repository) matching(ctx context.Context, substring string) *gorm.DB {
	q := r.joined(ctx)
	if substring == "" {
		return q
	}
	pattern := "%" + strings.ToLower(substring) + "%"
	return q.Where(
		"LOWER(files.original_name) LIKE ? OR LOWER(files.stored_name) LIKE ? OR LOWER(extracted_texts.content) LIKE ?",
		pattern, pattern, pattern,
	)
}
