// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/mailward/mailward/pkg/lifecycle"
)

// ListPage holds one page of a prefix listing. NextMarker is empty when the
// listing is exhausted; a non-empty marker must be passed back to continue.
type ListPage struct {
	Keys       []string
	NextMarker string
}

// System manages blob storage operations and lifecycle coordination.
// Operations without an explicit container act on the configured default
// container; the *In variants address another container in the same account.
type System interface {
	// Start registers a startup hook that initializes the default container.
	Start(lc *lifecycle.Coordinator) error
	// Container returns the configured default container name.
	Container() string
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// UploadIn streams data to a blob in the given container.
	UploadIn(ctx context.Context, container, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// DownloadIn returns a stream for the blob at the given key in the given container.
	DownloadIn(ctx context.Context, container, key string) (io.ReadCloser, error)
	// List returns one page of blob keys under prefix, starting after marker.
	List(ctx context.Context, prefix, marker string) (*ListPage, error)
}

type azure struct {
	client    *azblob.Client
	container string
	pageSize  int32
	logger    *slog.Logger
}

// New creates a storage system from the given configuration.
// It validates the connection string and creates the Azure client
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		pageSize:  cfg.MaxListSize,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Container() string {
	return a.container
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	return a.UploadIn(ctx, a.container, key, reader, contentType)
}

func (a *azure) UploadIn(ctx context.Context, container, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return a.DownloadIn(ctx, a.container, key)
}

func (a *azure) DownloadIn(ctx context.Context, container, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string) (*ListPage, error) {
	opts := &azblob.ListBlobsFlatOptions{
		MaxResults: &a.pageSize,
	}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	if !pager.More() {
		return &ListPage{Keys: []string{}}, nil
	}

	resp, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs %s: %w", prefix, err)
	}

	page := &ListPage{Keys: make([]string, 0, len(resp.Segment.BlobItems))}
	for _, item := range resp.Segment.BlobItems {
		if item.Name != nil {
			page.Keys = append(page.Keys, *item.Name)
		}
	}
	if resp.NextMarker != nil {
		page.NextMarker = *resp.NextMarker
	}

	return page, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
