package repositories

import "errors"

// ErrNotFound is returned (wrapped) by repository lookups when no record
// matches. Callers distinguish absence from storage failure with errors.Is.
var ErrNotFound = errors.New("record not found")
