package resource

import "errors"

// ErrExceedsLimit is returned when a single request can never fit the limit.
var ErrExceedsLimit = errors.New("request exceeds resource limit")
