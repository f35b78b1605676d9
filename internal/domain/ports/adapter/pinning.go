package adapter

import (
	"context"
	"encoding/json"
)

// Blob is raw content plus the metadata the pinning service needs for the multipart part.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// PinningService stores content-addressed blobs (Pinata / IPFS).
type PinningService interface {
	// Pin uploads the blob and returns the content hash assigned remotely.
	Pin(ctx context.Context, b Blob) (string, error)
	// Fetch retrieves previously pinned JSON content by hash.
	Fetch(ctx context.Context, hash string) (json.RawMessage, error)
}
