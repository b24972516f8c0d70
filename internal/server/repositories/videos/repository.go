package videos

import (
	"context"

	"github.com/skorolevs/clipvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context) ([]*models.Video, error)
	Delete(ctx context.Context, id string) error
}
