package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/deeppurple/deeppurple/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps raw uploaded documents in GridFS, addressed by an opaque key.
// Extracted text lives in Postgres; the original bytes only come back out
// for downloads and re-processing.
type Store struct {
	client *mongo.Client
	bucket *gridfs.Bucket
}

// New connects to MongoDB and opens the configured GridFS bucket
func New(ctx context.Context, cfg config.BlobStoreConfig) (*Store, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	bucketName := cfg.Bucket
	if bucketName == "" {
		bucketName = "documents"
	}

	bucket, err := gridfs.NewBucket(
		client.Database(cfg.Database),
		options.GridFSBucket().SetName(bucketName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}

	return &Store{client: client, bucket: bucket}, nil
}

// Put stores blob data under key, replacing any previous blob with that key
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	// GridFS allows duplicate filenames; drop the old revision first so a
	// key always resolves to exactly one blob.
	if err := s.deleteByName(ctx, key); err != nil {
		return err
	}

	stream, err := s.bucket.OpenUploadStream(key)
	if err != nil {
		return fmt.Errorf("failed to open upload stream: %w", err)
	}

	if _, err := stream.Write(data); err != nil {
		stream.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finalize blob: %w", err)
	}
	return nil
}

// Get retrieves the blob stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStreamByName(key, &buf); err != nil {
		return nil, fmt.Errorf("failed to download blob %q: %w", key, err)
	}
	return buf.Bytes(), nil
}

// Delete removes the blob stored under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.deleteByName(ctx, key)
}

func (s *Store) deleteByName(ctx context.Context, key string) error {
	cursor, err := s.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("failed to look up blob %q: %w", key, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID any `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return fmt.Errorf("failed to decode blob entry: %w", err)
		}
		if err := s.bucket.Delete(file.ID); err != nil && err != gridfs.ErrFileNotFound {
			return fmt.Errorf("failed to delete blob %q: %w", key, err)
		}
	}
	return cursor.Err()
}

// Close disconnects from MongoDB
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Disconnect(context.Background())
	}
	return nil
}
