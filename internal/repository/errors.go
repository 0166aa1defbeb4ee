package repository

import "errors"

// ErrNotFound is returned both when a resource does not exist and when it
// exists but belongs to another owner. The two cases are deliberately
// indistinguishable so that non-owners learn nothing about existence.
var ErrNotFound = errors.New("resource not found")
