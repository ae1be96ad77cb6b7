package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/extract"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BlobStore holds the raw bytes of uploaded documents
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// FileService handles document upload, text extraction and retrieval
type FileService struct {
	fileRepo domain.FileRepository
	blobs    BlobStore
	cache    ContextCache
}

// NewFileService creates a new file service. cache may be nil.
func NewFileService(fileRepo domain.FileRepository, blobs BlobStore, cache ContextCache) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		blobs:    blobs,
		cache:    cache,
	}
}

// Upload stores a document: raw bytes in the blob store, extracted plain
// text in the content store, and invalidates the session's cached context.
func (s *FileService) Upload(ctx context.Context, sessionID uuid.UUID, filename string, data []byte) (*domain.File, error) {
	fileType, err := extract.TypeFromFilename(filename)
	if err != nil {
		return nil, err
	}

	content, err := extract.Text(fileType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %q: %w", filename, err)
	}

	fileID := uuid.New()
	blobKey := fmt.Sprintf("%s/%s", sessionID, fileID)

	if err := s.blobs.Put(ctx, blobKey, data); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	now := time.Now()
	file := &domain.File{
		ID:        fileID,
		SessionID: sessionID,
		Filename:  filename,
		FileType:  fileType,
		BlobKey:   blobKey,
		Size:      int64(len(data)),
		CreatedAt: now,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if err := s.fileRepo.CreateContent(ctx, &domain.FileContent{
		ID:          uuid.New(),
		FileID:      fileID,
		Content:     content,
		ProcessedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	s.invalidateContext(ctx, sessionID)
	return file, nil
}

// Get returns a file's metadata if it belongs to the session
func (s *FileService) Get(ctx context.Context, sessionID, fileID uuid.UUID) (*domain.File, error) {
	file, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file == nil || file.SessionID != sessionID {
		return nil, ErrFileNotFound
	}
	return file, nil
}

// List returns the session's files in upload order
func (s *FileService) List(ctx context.Context, sessionID uuid.UUID) ([]domain.File, error) {
	files, err := s.fileRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Download returns the original uploaded bytes
func (s *FileService) Download(ctx context.Context, sessionID, fileID uuid.UUID) (*domain.File, []byte, error) {
	file, err := s.Get(ctx, sessionID, fileID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Get(ctx, file.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return file, data, nil
}

// Content returns the extracted plain text of a file
func (s *FileService) Content(ctx context.Context, sessionID, fileID uuid.UUID) (*domain.FileContent, error) {
	file, err := s.Get(ctx, sessionID, fileID)
	if err != nil {
		return nil, err
	}
	content, err := s.fileRepo.GetContentByFile(ctx, file.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	if content == nil {
		return nil, ErrFileNotFound
	}
	return content, nil
}

// Delete removes a file's record, content and blob
func (s *FileService) Delete(ctx context.Context, sessionID, fileID uuid.UUID) error {
	file, err := s.Get(ctx, sessionID, fileID)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.blobs.Delete(ctx, file.BlobKey); err != nil {
		// The record is gone; an orphaned blob is a cleanup concern, not
		// a failed delete.
		log.Warn().Err(err).Str("blob_key", file.BlobKey).Msg("failed to delete blob")
	}

	s.invalidateContext(ctx, sessionID)
	return nil
}

func (s *FileService) invalidateContext(ctx context.Context, sessionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to invalidate context cache")
	}
}
