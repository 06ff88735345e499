package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"wormdetector/internal/common"
	"wormdetector/internal/logging"
	"wormdetector/internal/server/classifier"
	"wormdetector/internal/server/imagestore"
	"wormdetector/internal/server/mailer"
	"wormdetector/internal/server/models"
	"wormdetector/internal/server/repositories/repomanager"
)

// PredictionService runs the classification pipeline: classify the upload,
// record the result, archive the image, and alert the user on flatworms.
// Archiving and alerting are best effort and never fail a prediction.
type PredictionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	classifier  classifier.Classifier
	store       imagestore.Store
	alerter     mailer.Alerter
	logger      logging.Logger
	now         func() time.Time
}

func NewPredictionService(
	db *sql.DB,
	repomanager repomanager.RepositoryManager,
	cl classifier.Classifier,
	store imagestore.Store,
	alerter mailer.Alerter,
	logger logging.Logger,
) *PredictionService {
	return &PredictionService{
		db:          db,
		repomanager: repomanager,
		classifier:  cl,
		store:       store,
		alerter:     alerter,
		logger:      logger,
		now:         time.Now,
	}
}

// Predict classifies the image bytes and stores the outcome. Username may be
// empty for anonymous uploads.
func (s *PredictionService) Predict(ctx context.Context, imageData []byte, contentType, username string) (*models.Prediction, error) {

	result, err := s.classifier.Classify(ctx, bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}

	p := &models.Prediction{
		ID:             uuid.New().String(),
		PredictedClass: result.Class,
		Confidence:     result.Confidence,
		CreatedAt:      s.now().UTC(),
		Username:       username,
	}

	if err := s.repomanager.Predictions(s.db).Create(ctx, p); err != nil {
		return nil, err
	}

	if s.store != nil {
		if _, err := s.store.Put(ctx, imageData, contentType); err != nil {
			s.logger.Warn(ctx, "image archive failed", "error", err.Error())
		}
	}

	if p.PredictedClass == models.ClassFlatworm && username != "" {
		s.sendAlert(ctx, p)
	}

	return p, nil
}

func (s *PredictionService) sendAlert(ctx context.Context, p *models.Prediction) {

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "flatworm alert skipped, unknown user", "username", p.Username)
		} else {
			s.logger.Error(ctx, "flatworm alert user lookup failed", "error", err.Error())
		}
		return
	}

	if user.Email == "" {
		s.logger.Warn(ctx, "flatworm alert skipped, user has no email", "username", p.Username)
		return
	}

	if err := s.alerter.FlatwormAlert(ctx, p.Username, user.Email, p.Confidence, p.CreatedAt); err != nil {
		s.logger.Error(ctx, "flatworm alert send failed", "error", err.Error())
		return
	}

	s.logger.Info(ctx, "flatworm alert sent", "username", p.Username)
}

// ListAll returns the stored history, newest first.
func (s *PredictionService) ListAll(ctx context.Context) ([]*models.Prediction, error) {
	return s.repomanager.Predictions(s.db).ListAll(ctx)
}
