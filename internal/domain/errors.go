// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict (optimistic locking).
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates a request that violates a domain rule. The HTTP
// layer maps it to 400; the manual transition controller surfaces it before
// any network call is made.
var ErrValidation = errors.New("validation failed")
