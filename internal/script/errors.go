package script

import "errors"

// ErrStateClosed is returned when operating on a closed State.
var ErrStateClosed = errors.New("script: state is closed")
