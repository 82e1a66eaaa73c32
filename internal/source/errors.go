package source

import (
	"errors"
	"fmt"
)

// UnavailableError reports that a raw-data source could not be reached or
// the expected resource could not be located or decoded. It is fatal to the
// current evaluation cycle for that entity and must never be collapsed into
// a zero-valued sample, since zero counts are indistinguishable from "no
// growth" downstream.
type UnavailableError struct {
	Source   string // fetcher name
	Resource string // endpoint or record that failed
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source %s unavailable: %s: %v", e.Source, e.Resource, e.Err)
	}
	return fmt.Sprintf("data source %s unavailable: %s", e.Source, e.Resource)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a data-source availability failure.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
