// Package videos provides the PostgreSQL-backed repository for video
// records: insert, fetch by id, listing, and delete by id.
package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/dbx"
	"github.com/skorolevs/clipvault/internal/server/models"
)

// PostgresRepository implements video record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a video record and returns it with the generated id and
// timestamps populated.
func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {

	query :=
		`INSERT INTO videos
		   (owner_id, title, description, video_url, thumbnail_url, controls, trans_height, trans_width, trans_quality)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	var quality sql.NullInt32
	if video.Transformation.Quality != nil {
		quality = sql.NullInt32{Int32: int32(*video.Transformation.Quality), Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL,
		video.Controls, video.Transformation.Height, video.Transformation.Width, quality,
	).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

// GetByID fetches a single record, translating an absent row to
// common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query :=
		`SELECT id, owner_id, title, description, video_url, thumbnail_url, controls,
		        trans_height, trans_width, trans_quality, created_at, updated_at
		 FROM videos
		 WHERE id = $1
		 `

	video := &models.Video{}
	var quality sql.NullInt32

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoURL, &video.ThumbnailURL, &video.Controls,
		&video.Transformation.Height, &video.Transformation.Width, &quality,
		&video.CreatedAt, &video.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if quality.Valid {
		q := int(quality.Int32)
		video.Transformation.Quality = &q
	}

	return video, nil
}

// List returns all video records, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Video, error) {
	query :=
		`SELECT id, owner_id, title, description, video_url, thumbnail_url, controls,
		        trans_height, trans_width, trans_quality, created_at, updated_at
		 FROM videos
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		var item models.Video
		var quality sql.NullInt32
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description,
			&item.VideoURL, &item.ThumbnailURL, &item.Controls,
			&item.Transformation.Height, &item.Transformation.Width, &quality,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if quality.Valid {
			q := int(quality.Int32)
			item.Transformation.Quality = &q
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a record by id. Deleting an already-absent row yields
// common.ErrorNotFound, which keeps racing deletes idempotent for callers.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM videos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
