package util

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a new ULID string. IDs generated within one process are strictly
// increasing, including those created in the same millisecond.
func NewULID() string {
	return ulid.Make().String()
}

// ULIDTime returns the creation time encoded in id.
func ULIDTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
