package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FileType identifies a supported upload format
type FileType string

const (
	FileTypeTXT FileType = "txt"
	FileTypeCSV FileType = "csv"
	FileTypePDF FileType = "pdf"
)

// File is the metadata record for one uploaded document. The raw bytes live
// in the blob store under BlobKey; the extracted plain text lives in
// FileContent.
type File struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Filename  string    `json:"filename"`
	FileType  FileType  `json:"file_type"`
	BlobKey   string    `json:"blob_key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// FileContent holds the extracted plain text for a file
type FileContent struct {
	ID          uuid.UUID `json:"id"`
	FileID      uuid.UUID `json:"file_id"`
	Content     string    `json:"content"`
	ProcessedAt time.Time `json:"processed_at"`
}

// FileRepository defines the interface for file metadata and content storage
type FileRepository interface {
	Create(ctx context.Context, file *File) error
	Get(ctx context.Context, id uuid.UUID) (*File, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]File, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateContent(ctx context.Context, content *FileContent) error
	GetContentByFile(ctx context.Context, fileID uuid.UUID) (*FileContent, error)
	// ListContentsBySession returns the extracted text of every file in the
	// session ordered by file creation so context assembly is deterministic.
	ListContentsBySession(ctx context.Context, sessionID uuid.UUID) ([]string, error)
}
