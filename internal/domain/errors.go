package domain

import "errors"

var (
	// ErrValidation signals a malformed or unknown request parameter.
	// Always surfaced to the caller with a message naming the offending field.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration signals an invalid startup configuration; fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrStorage signals a transport or auth failure talking to the vector store.
	ErrStorage = errors.New("storage error")
	// ErrEmbedding signals a failure generating a vector for the query text.
	ErrEmbedding = errors.New("embedding error")
)
