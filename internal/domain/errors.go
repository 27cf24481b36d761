package domain

import "errors"

// ErrNotFound is returned by repositories when the requested row does not
// exist or is not visible to the requesting user
var ErrNotFound = errors.New("not found")
