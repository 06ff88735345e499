package predictions

import (
	"context"
	"fmt"

	"wormdetector/internal/dbx"
	"wormdetector/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Prediction) error {

	query :=
		`INSERT INTO predictions (id, predicted_class, confidence, created_at, username)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.PredictedClass, p.Confidence, p.CreatedAt, p.Username)

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Prediction, error) {

	query :=
		`SELECT id, predicted_class, confidence, created_at, username FROM predictions
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		if err := rows.Scan(&p.ID, &p.PredictedClass, &p.Confidence, &p.CreatedAt, &p.Username); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
