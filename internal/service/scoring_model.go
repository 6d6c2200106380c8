package service

import (
	"context"
	"log/slog"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
)

// ScoringModelRepository is the data-layer contract ScoringModelService needs.
type ScoringModelRepository interface {
	Create(ctx context.Context, req *model.CreateScoringModelRequest) (*model.ScoringModel, error)
	GetByID(ctx context.Context, id string) (*model.ScoringModel, error)
	GetActive(ctx context.Context) (*model.ScoringModel, error)
	List(ctx context.Context, opts model.ScoringModelsListOptions) ([]*model.ScoringModel, error)
	Activate(ctx context.Context, id string) (*model.ScoringModel, error)
	Archive(ctx context.Context, id string) (*model.ScoringModel, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ScoringModelServiceOptions groups dependencies for ScoringModelService.
type ScoringModelServiceOptions struct {
	Models ScoringModelRepository
	Logger *slog.Logger
}

// ScoringModelService manages the scoring model lifecycle. Lifecycle
// transitions are audit-logged since they change how live traffic scores.
type ScoringModelService struct {
	models ScoringModelRepository
	logger *slog.Logger
}

// NewScoringModelService constructs a new ScoringModelService.
func NewScoringModelService(opts ScoringModelServiceOptions) *ScoringModelService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringModelService{models: opts.Models, logger: logger}
}

// Create registers a new draft model.
func (s *ScoringModelService) Create(ctx context.Context, req *model.CreateScoringModelRequest) (*model.ScoringModel, error) {
	m, err := s.models.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scoring model created", "model_id", m.ID, "name", m.Name, "version", m.Version)
	return m, nil
}

// GetByID retrieves a scoring model by ID.
func (s *ScoringModelService) GetByID(ctx context.Context, id string) (*model.ScoringModel, error) {
	return s.models.GetByID(ctx, id)
}

// GetActive retrieves the currently active model.
func (s *ScoringModelService) GetActive(ctx context.Context) (*model.ScoringModel, error) {
	return s.models.GetActive(ctx)
}

// List returns a page of scoring models using the given filters.
func (s *ScoringModelService) List(ctx context.Context, opts model.ScoringModelsListOptions) ([]*model.ScoringModel, error) {
	return s.models.List(ctx, opts)
}

// Activate promotes a model, archiving the previously active one.
func (s *ScoringModelService) Activate(ctx context.Context, id string) (*model.ScoringModel, error) {
	m, err := s.models.Activate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scoring model activated", "model_id", m.ID, "name", m.Name, "version", m.Version)
	return m, nil
}

// Archive retires a model.
func (s *ScoringModelService) Archive(ctx context.Context, id string) (*model.ScoringModel, error) {
	m, err := s.models.Archive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scoring model archived", "model_id", m.ID, "name", m.Name, "version", m.Version)
	return m, nil
}

// Delete removes a draft model.
func (s *ScoringModelService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.models.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("scoring model deleted", "model_id", id)
	}
	return deleted, nil
}
