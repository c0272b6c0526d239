package cli

import "errors"

// ErrInvalidDirectory is returned when a directory argument does not exist
// or is not a directory. No scanning happens in that case.
var ErrInvalidDirectory = errors.New("invalid directory")
