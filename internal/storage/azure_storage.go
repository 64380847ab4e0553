package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage retrieves images hosted in Azure Blob containers
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) ([]byte, string, error)
}

type azureStorage struct {
	client *azblob.Client
}

func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) GetImage(ctx context.Context, blobURL string) ([]byte, string, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName := strings.TrimPrefix(parsedURL.Path, "/")
	blobName := parsedURL.Query().Get("blob")
	if containerName == "" || blobName == "" {
		return nil, "", fmt.Errorf("blob URL must carry a container path and blob query parameter")
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	data, err := io.ReadAll(retryReader)
	if err != nil {
		return nil, "", fmt.Errorf("reading blob: %w", err)
	}

	contentType := http.DetectContentType(data)
	if downloadResponse.ContentType != nil && *downloadResponse.ContentType != "" {
		contentType = *downloadResponse.ContentType
	}
	return data, contentType, nil
}
