package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConfigured   = errors.New("service not configured")

	// Upstream (pinning service, Telegram) errors
	ErrUpstream     = errors.New("upstream request failed")
	ErrUploadFailed = errors.New("pinata upload failed")
	ErrFetchFailed  = errors.New("failed to fetch from pinata")
)
