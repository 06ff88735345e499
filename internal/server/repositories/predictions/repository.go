package predictions

import (
	"context"

	"wormdetector/internal/server/models"
)

// Repository is the persistence contract for classification history.
type Repository interface {
	Create(ctx context.Context, p *models.Prediction) error

	// ListAll returns every stored prediction, newest first.
	ListAll(ctx context.Context) ([]*models.Prediction, error)
}
