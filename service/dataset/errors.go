package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is matched by every DataUnavailableError.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNoSnapshot is returned before the first successful load.
	ErrNoSnapshot = errors.New("no dataset loaded")
	// ErrDistrictNotFound is returned when a selector matches no district.
	ErrDistrictNotFound = errors.New("district not found")
	// ErrLegislatorNotFound is returned when a legislative query matches no coverage rows.
	ErrLegislatorNotFound = errors.New("legislative district not found")
)

// DataUnavailableError reports a source file that is missing or unreadable.
type DataUnavailableError struct {
	Path string
	Err  error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable: %s: %v", e.Path, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}
