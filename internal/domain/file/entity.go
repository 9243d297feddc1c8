package file

import "time"

// FileRecord is the durable metadata row for one uploaded file. The raw
// bytes live on disk under StoredName; searchable text lives in
// ExtractedText. Records are immutable once written.
type FileRecord struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	OriginalName string    `gorm:"column:original_name;not null" json:"original_name"`
	StoredName   string    `gorm:"column:stored_name;uniqueIndex;not null" json:"stored_name"`
	SizeBytes    int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	TypeTag      string    `gorm:"column:type_tag;not null" json:"type_tag"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	BlobPath     string    `gorm:"column:blob_path;not null" json:"-"` // disk location of the raw bytes
}

func (FileRecord) TableName() string { return "files" }

// ExtractedText is the text recovered from a file at ingestion time, or a
// diagnostic placeholder when extraction degraded. At most one row per
// file (unique index on file_id); files whose type carries no text have
// no row at all.
type ExtractedText struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	FileID      string    `gorm:"column:file_id;uniqueIndex;not null" json:"file_id"`
	Content     string    `gorm:"column:content;not null" json:"content"`
	ExtractedAt time.Time `gorm:"column:extracted_at;not null" json:"extracted_at"`
}

func (ExtractedText) TableName() string { return "extracted_texts" }

// RecordWithText is a FileRecord joined with its extracted text, when any.
type RecordWithText struct {
	FileRecord
	Content *string `json:"ocr_content,omitempty"`
}
