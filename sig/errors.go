package sig

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a caller hands the engine something it
// cannot work with, such as a footer configuration with no content in it, an
// attachment with no source or media type, or a nil message.
var ErrInvalidArgument = errors.New("invalid argument")

// UnsupportedStructureError describes a part whose kind the rewrite rules do
// not recognize. It never escapes from Sign. The rules treat such parts as
// pass-through and the error only travels between the internal visitors.
type UnsupportedStructureError struct {
	MediaType string
}

// Error returns the error message.
func (e *UnsupportedStructureError) Error() string {
	return fmt.Sprintf("no rewrite rule for %q parts", e.MediaType)
}
