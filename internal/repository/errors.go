// Package repository contains data access logic separated from HTTP handlers.
// This file defines error values that are reused across multiple
// repositories. These sentinels allow handlers to distinguish failure
// scenarios without inspecting driver errors: ErrNotFound covers by-id
// lookups and zero-row updates/deletes, ErrEmailExists covers the unique
// constraint on users.email.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist, or when an update or
// delete matched nothing. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with an existing
// email. Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
