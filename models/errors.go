package models

import (
	"errors"

	"muc/platform"
)

// Resolution failures. Callers classify with errors.Is; wrapped causes stay in the chain.
var (
	ErrInvalidURI          = errors.New("uri cannot be parsed by this platform")
	ErrNotFound            = errors.New("track not found")
	ErrUnrecognizedURI     = errors.New("uri does not belong to any supported platform")
	ErrUpstreamUnavailable = errors.New("upstream platform unavailable")
)

// Identifier failures.
var (
	ErrEmptyPlatformID       = platform.ErrEmptyID
	ErrInvalidCompoundID     = platform.ErrInvalidCompoundID
	ErrInvalidUniqueID       = errors.New("invalid unique id")
	ErrUnknownPlatformPrefix = errors.New("unknown platform prefix")
)
