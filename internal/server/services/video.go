package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/dbx"
	"github.com/skorolevs/clipvault/internal/logging"
	"github.com/skorolevs/clipvault/internal/server/blob"
	"github.com/skorolevs/clipvault/internal/server/models"
	"github.com/skorolevs/clipvault/internal/server/repositories/repomanager"
)

// UploadRequest carries the validated-at-the-service upload form fields.
// Quality is optional; the file names are only hints for object naming.
type UploadRequest struct {
	Title             string
	Description       string
	Video             []byte
	VideoFileName     string
	Thumbnail         []byte
	ThumbnailFileName string
	Quality           *int
}

// VideoService implements the upload pipeline and the ownership-scoped
// record operations.
type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
}

// NewVideoService constructs a VideoService.
func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, l logging.Logger) *VideoService {
	return &VideoService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "video_service"),
	}
}

// validateUpload rejects the request before any external call is made, so an
// invalid request never produces a blob.
func validateUpload(identity *models.Identity, req *UploadRequest) error {
	if identity == nil || identity.UserID == "" {
		return common.ErrorUnauthorized
	}
	if req.Title == "" {
		return fmt.Errorf("%w: title", common.ErrMissingField)
	}
	if req.Description == "" {
		return fmt.Errorf("%w: description", common.ErrMissingField)
	}
	if len(req.Video) == 0 {
		return fmt.Errorf("%w: video", common.ErrMissingField)
	}
	if len(req.Thumbnail) == 0 {
		return fmt.Errorf("%w: thumbnail", common.ErrMissingField)
	}
	return nil
}

// Upload runs the two-phase pipeline: validate, upload the video blob, upload
// the thumbnail blob, then persist the record. The order is fixed and each
// failure short-circuits. A blob that was already stored when a later step
// fails is left orphaned; the orphan is logged, never silently compensated.
func (s *VideoService) Upload(ctx context.Context, identity *models.Identity, req *UploadRequest) (*models.Video, error) {
	if err := validateUpload(identity, req); err != nil {
		return nil, err
	}

	videoURL, err := s.blobs.Upload(ctx, req.Video, req.VideoFileName, blob.VideosFolder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrVideoUploadFailed, err)
	}

	thumbnailURL, err := s.blobs.Upload(ctx, req.Thumbnail, req.ThumbnailFileName, blob.ThumbnailsFolder)
	if err != nil {
		s.logger.Warn(ctx, "orphaned video blob after thumbnail upload failure", "video_url", videoURL)
		return nil, fmt.Errorf("%w: %v", common.ErrThumbnailUploadFailed, err)
	}

	video := &models.Video{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		OwnerID:      identity.UserID,
		Controls:     true,
		Transformation: models.Transformation{
			Height: models.DefaultVideoHeight,
			Width:  models.DefaultVideoWidth,
		},
	}
	if req.Quality != nil {
		q := models.ClampQuality(*req.Quality)
		video.Transformation.Quality = &q
	}

	repo := s.repomanager.Videos(s.db)
	persisted, err := repo.Create(ctx, video)
	if err != nil {
		s.logger.Warn(ctx, "orphaned blobs after record persist failure",
			"video_url", videoURL, "thumbnail_url", thumbnailURL)
		return nil, fmt.Errorf("%w: %v", common.ErrPersistFailed, err)
	}

	return persisted, nil
}

// Get fetches a record by id. Records are publicly viewable, so no identity
// is required.
func (s *VideoService) Get(ctx context.Context, id string) (*models.Video, error) {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	return video, nil
}

// List returns all records, newest first.
func (s *VideoService) List(ctx context.Context) ([]*models.Video, error) {
	repo := s.repomanager.Videos(s.db)

	items, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	return items, nil
}

// Delete removes a record if and only if the caller owns it. The record is
// re-fetched inside the transaction so the ownership check always runs
// against fresh state; a concurrent delete surfaces as common.ErrorNotFound.
func (s *VideoService) Delete(ctx context.Context, identity *models.Identity, id string) error {
	if identity == nil || identity.UserID == "" {
		return common.ErrorUnauthorized
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Videos(tx)

		video, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if video.OwnerID != identity.UserID {
			return common.ErrForbidden
		}

		return repo.Delete(ctx, id)
	})
}
