package errors

import stdErrors "errors"

// ErrKeyNotFound is returned by Remove when the key does not exist in the
// index. Get reports ok=false rather than this error on a missing key;
// Remove treats it as a failure because the caller asked to delete
// something specific.
var ErrKeyNotFound = stdErrors.New("key not found")

// IsKeyNotFound reports whether err is, or wraps, ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	return stdErrors.Is(err, ErrKeyNotFound)
}
