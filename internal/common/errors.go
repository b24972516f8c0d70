// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential verification errors. Both must surface as one generic
	// "authentication failed" condition at the HTTP boundary.
	ErrNoSuchUser         = errors.New("no such user")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation errors.
	ErrMissingField = errors.New("missing required field")

	// Upload pipeline errors.
	ErrVideoUploadFailed     = errors.New("video upload failed")
	ErrThumbnailUploadFailed = errors.New("thumbnail upload failed")
	ErrPersistFailed         = errors.New("record persist failed")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")
)
