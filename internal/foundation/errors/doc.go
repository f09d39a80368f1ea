// Package errors provides the classified error primitives used across sitemapd.
//
// Errors carry a category (store, content, extraction, ...), a severity and a retry
// hint, plus free-form context. They are created through a fluent builder:
//
//	err := errors.StoreError("commit failed").
//		WithContext("path", location).
//		WithCause(cause).
//		Build()
//
// The HTTP adapter turns a classified error into a status code and a JSON body.
package errors
