package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint. The store's constraint is authoritative against races.
	ErrDuplicate = errors.New("record already exists")
)
