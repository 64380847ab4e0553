package repository

import (
	"context"
	"net/url"
	"strings"

	"go-produce-analyzer/internal/storage"
)

// ImageRepository resolves an image reference (HTTP URL or Azure blob
// URL) to raw bytes plus content type.
type ImageRepository interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
	ValidateImageURL(imageURL string) error
}

// imageRepository routes blob-storage hosts to the Azure fetcher and
// everything else to the HTTP fetcher. The blob fetcher is optional.
type imageRepository struct {
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage
}

func NewImageRepository(fetcher storage.ImageFetcher, blobs storage.BlobStorage) ImageRepository {
	return &imageRepository{
		fetcher: fetcher,
		blobs:   blobs,
	}
}

func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return nil, "", err
	}
	if isBlobURL(imageURL) {
		if r.blobs == nil {
			return nil, "", ErrSourceUnavailable
		}
		return r.blobs.GetImage(ctx, imageURL)
	}
	return r.fetcher.FetchImage(ctx, imageURL)
}

func (r *imageRepository) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return ErrInvalidImageURL
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidImageURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidImageURL
	}
	return nil
}

func isBlobURL(imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}
