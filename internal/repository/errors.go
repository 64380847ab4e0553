package repository

import "errors"

var (
	// ErrInvalidImageURL indicates an invalid image URL
	ErrInvalidImageURL = errors.New("invalid image URL")

	// ErrSourceUnavailable indicates the image source is not configured
	ErrSourceUnavailable = errors.New("image source unavailable")
)
