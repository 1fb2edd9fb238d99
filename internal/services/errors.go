package services

import "errors"

// ErrSelfEdge is returned when a user likes their own post or follows
// themselves and the configured policy forbids it.
var ErrSelfEdge = errors.New("self edge not allowed")
