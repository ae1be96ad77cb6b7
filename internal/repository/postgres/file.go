package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileRepository implements domain.FileRepository
type FileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{pool: db.Pool}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	query := `
		INSERT INTO files (id, session_id, filename, file_type, blob_key, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.SessionID,
		file.Filename,
		string(file.FileType),
		file.BlobKey,
		file.Size,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

func (r *FileRepository) Get(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	query := `
		SELECT id, session_id, filename, file_type, blob_key, size, created_at
		FROM files
		WHERE id = $1
	`
	var f domain.File
	var fileType string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.SessionID,
		&f.Filename,
		&fileType,
		&f.BlobKey,
		&f.Size,
		&f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	f.FileType = domain.FileType(fileType)
	return &f, nil
}

func (r *FileRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.File, error) {
	query := `
		SELECT id, session_id, filename, file_type, blob_key, size, created_at
		FROM files
		WHERE session_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		var f domain.File
		var fileType string
		if err := rows.Scan(
			&f.ID,
			&f.SessionID,
			&f.Filename,
			&fileType,
			&f.BlobKey,
			&f.Size,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.FileType = domain.FileType(fileType)
		files = append(files, f)
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM files WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (r *FileRepository) CreateContent(ctx context.Context, content *domain.FileContent) error {
	query := `
		INSERT INTO file_contents (id, file_id, content, processed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		content.ID,
		content.FileID,
		content.Content,
		content.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file content: %w", err)
	}
	return nil
}

func (r *FileRepository) GetContentByFile(ctx context.Context, fileID uuid.UUID) (*domain.FileContent, error) {
	query := `
		SELECT id, file_id, content, processed_at
		FROM file_contents
		WHERE file_id = $1
	`
	var c domain.FileContent
	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&c.ID,
		&c.FileID,
		&c.Content,
		&c.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	return &c, nil
}

// ListContentsBySession joins file_contents through files on a single indexed
// query, ordered by file creation for deterministic context assembly.
func (r *FileRepository) ListContentsBySession(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	query := `
		SELECT fc.content
		FROM file_contents fc
		JOIN files f ON f.id = fc.file_id
		WHERE f.session_id = $1
		ORDER BY f.created_at, f.id
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file contents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan file content: %w", err)
		}
		contents = append(contents, c)
	}
	return contents, nil
}
