package academy

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced by the attendance core. Handlers translate
// these to HTTP status codes; the core never formats user-facing text.
var (
	ErrNotFound        = errors.New("referenced record does not exist")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflicting record exists")
	ErrStorage         = errors.New("storage failure")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
