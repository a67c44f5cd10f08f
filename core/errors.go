package core

import "errors"

// ErrNotFound means the entity is absent or not visible to the viewer.
// The two cases are deliberately conflated, so hidden content can not be probed for.
var ErrNotFound = errors.New("not found")

// ErrForbidden means the actor is authenticated but not authorized.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized means nobody is logged in.
var ErrUnauthorized = errors.New("unauthorized")
