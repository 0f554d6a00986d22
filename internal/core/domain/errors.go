package domain

import "errors"

// ErrDuplicate is returned by repositories when a write violates a uniqueness
// constraint (user email, product name).
var ErrDuplicate = errors.New("duplicate key")
