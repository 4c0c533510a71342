package errors

// IntegrityError reports that the bytes at a recorded command pointer did
// not decode to the expected record — either the decode itself failed, the
// decoded record was a Remove where a Set was expected, or the decoded key
// did not match the index key. This is the "read-integrity" error kind.
type IntegrityError struct {
	*baseError
	key        string
	generation uint64
	offset     int64
	length     int64
}

// NewIntegrityError creates a new read-integrity error.
func NewIntegrityError(err error, msg string) *IntegrityError {
	return &IntegrityError{baseError: NewBaseError(err, ErrorCodeReadIntegrity, msg)}
}

// WithKey records which key the lookup was for.
func (ie *IntegrityError) WithKey(key string) *IntegrityError {
	ie.key = key
	return ie
}

// WithPointer records the command pointer that failed to decode as expected.
func (ie *IntegrityError) WithPointer(generation uint64, offset, length int64) *IntegrityError {
	ie.generation = generation
	ie.offset = offset
	ie.length = length
	return ie
}

// Key returns the key that was being looked up.
func (ie *IntegrityError) Key() string {
	return ie.key
}

// Generation returns the segment generation the pointer named.
func (ie *IntegrityError) Generation() uint64 {
	return ie.generation
}

// Offset returns the byte offset the pointer named.
func (ie *IntegrityError) Offset() int64 {
	return ie.offset
}

// Length returns the byte length the pointer named.
func (ie *IntegrityError) Length() int64 {
	return ie.length
}
