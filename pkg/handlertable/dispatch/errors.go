package dispatch

import "errors"

// ErrUnknownEvent indicates an event name with no index bound.
var ErrUnknownEvent = errors.New("unknown event")
