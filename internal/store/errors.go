package store

import "git.home.luguber.info/inful/sitemapd/internal/foundation/errors"

// Sentinel errors. Failure sites enrich them with Wrap; compare with errors.Is.
var (
	ErrUnauthorized  = errors.AuthError("identity not allowed").Build()
	ErrUnavailable   = errors.StoreError("backing store unavailable").Build()
	ErrNotFound      = errors.NotFoundError("node not found").Build()
	ErrAlreadyExists = errors.NewError(errors.CategoryAlreadyExists, "node already exists").Build()
	ErrInvalidPath   = errors.ValidationError("invalid node path").Build()
	ErrClosed        = errors.RuntimeError("session closed").Build()
	ErrCommit        = errors.StoreError("commit failed").Build()
	ErrValueTooLarge = errors.StoreError("property value exceeds store limit").Build()

	ErrInvalidProperty = errors.ValidationError("property name is required").Build()
)
