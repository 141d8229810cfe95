// Package storage holds what the record store implementations share.
package storage

import "errors"

// ErrNotFound is returned by every store when a requested record does not exist.
var ErrNotFound = errors.New("record not found")
