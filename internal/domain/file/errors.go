package file

import "errors"

var (
	ErrEmptyFilename = errors.New("filename must not be empty")
	ErrFileNotFound  = errors.New("file not found")
	ErrBlobMissing   = errors.New("file record exists but the stored file is missing on disk")
	ErrDuplicateFile = errors.New("file id or stored name already exists")
)
