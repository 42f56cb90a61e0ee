package domain

import "errors"

// Sentinel errors returned by the payload decoders.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrMalformedPayload = errors.New("malformed payload")
)
