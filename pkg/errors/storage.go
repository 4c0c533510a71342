package errors

// StorageError is a specialized error type for storage-related operations.
// It embeds baseError to inherit chaining and details, and adds the
// segment/offset/path context needed to pinpoint where on disk a failure
// happened.
type StorageError struct {
	*baseError
	generation uint64 // Which segment generation was being accessed.
	offset     int64  // Byte offset within the segment where the problem happened.
	fileName   string // Name of the file that caused the issue.
	path       string // Full path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithGeneration records which segment generation was involved.
func (se *StorageError) WithGeneration(gen uint64) *StorageError {
	se.generation = gen
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// Generation returns the segment generation where the error occurred.
func (se *StorageError) Generation() uint64 {
	return se.generation
}

// Offset returns the byte offset within the segment where the error happened.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
