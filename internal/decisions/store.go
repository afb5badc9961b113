package decisions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mailward/mailward/pkg/storage"
)

// Store provides read-modify-write access to decision documents. Writes carry
// no concurrency check; concurrent writers to the same location are
// last-write-wins.
type Store interface {
	// Get fetches and decodes the document at loc. Returns ErrNotFound when
	// the blob is absent and ErrMalformed when it does not decode as a JSON
	// object.
	Get(ctx context.Context, loc Location) (Document, error)
	// Put encodes and writes doc to loc, replacing any existing blob.
	Put(ctx context.Context, loc Location, doc Document) error
	// List returns one page of document keys under prefix in the default
	// container, starting after marker.
	List(ctx context.Context, prefix, marker string) (*storage.ListPage, error)
	// Prefix returns the configured key prefix documents are written under.
	Prefix() string
}

type store struct {
	blobs  storage.System
	prefix string
}

// NewStore creates a document store over the given blob system. Documents
// live under prefix in the system's default container unless a Location
// names another container.
func NewStore(blobs storage.System, prefix string) Store {
	return &store{
		blobs:  blobs,
		prefix: prefix,
	}
}

func (s *store) Get(ctx context.Context, loc Location) (Document, error) {
	body, err := s.download(ctx, loc)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", loc.Key, err)
	}
	defer body.Close()

	var doc Document
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, loc.Key, err)
	}

	return doc, nil
}

func (s *store) Put(ctx context.Context, loc Location, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", loc.Key, err)
	}

	reader := bytes.NewReader(data)
	if loc.Bucket == "" {
		err = s.blobs.Upload(ctx, loc.Key, reader, "application/json")
	} else {
		err = s.blobs.UploadIn(ctx, loc.Bucket, loc.Key, reader, "application/json")
	}
	if err != nil {
		return fmt.Errorf("put document %s: %w", loc.Key, err)
	}

	return nil
}

func (s *store) List(ctx context.Context, prefix, marker string) (*storage.ListPage, error) {
	return s.blobs.List(ctx, prefix, marker)
}

func (s *store) Prefix() string {
	return s.prefix
}

func (s *store) download(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if loc.Bucket == "" {
		return s.blobs.Download(ctx, loc.Key)
	}
	return s.blobs.DownloadIn(ctx, loc.Bucket, loc.Key)
}
