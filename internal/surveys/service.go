// Package surveys runs the storefront polls. Votes are anonymous
// counters; the public surface only ever sees active surveys.
package surveys

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/internal/repo"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

// SurveyDTO is the poll payload returned to clients.
type SurveyDTO struct {
	ID        uuid.UUID   `json:"id"`
	Question  string      `json:"question"`
	IsActive  bool        `json:"is_active"`
	Options   []OptionDTO `json:"options"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OptionDTO is one votable answer with its running tally.
type OptionDTO struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Votes int       `json:"votes"`
}

// CreateInput holds the validated payload to create a survey.
type CreateInput struct {
	Question string
	Options  []string
	IsActive bool
}

// UpdateInput mutates the question or active flag; options are fixed
// once created so tallies stay meaningful.
type UpdateInput struct {
	Question *string
	IsActive *bool
}

// Repository handles survey persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(dbConn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(dbConn)}
}

// FindByID loads a survey with its options.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Survey, error) {
	var row models.Survey
	err := r.DB(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("label ASC") }).
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns surveys, optionally only the active ones.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Survey, error) {
	qb := r.DB(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("label ASC") }).
		Order("created_at DESC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Survey
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the survey and its options.
func (r *Repository) Create(ctx context.Context, row *models.Survey) (*models.Survey, error) {
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the survey row without touching options.
func (r *Repository) Update(ctx context.Context, row *models.Survey) (*models.Survey, error) {
	if err := r.DB(ctx).Omit("Options").Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a survey and its options in one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", id).Delete(&models.SurveyOption{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Survey{}).Error
	})
}

// IncrementVote bumps the tally of one option atomically and reports
// whether the option belongs to the survey.
func (r *Repository) IncrementVote(ctx context.Context, surveyID, optionID uuid.UUID) (bool, error) {
	result := r.DB(ctx).
		Model(&models.SurveyOption{}).
		Where("id = ? AND survey_id = ?", optionID, surveyID).
		UpdateColumn("votes", gorm.Expr("votes + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Service exposes survey management and voting.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*SurveyDTO, error)
	Update(ctx context.Context, surveyID uuid.UUID, input UpdateInput) (*SurveyDTO, error)
	Delete(ctx context.Context, surveyID uuid.UUID) error
	Get(ctx context.Context, surveyID uuid.UUID) (*SurveyDTO, error)
	List(ctx context.Context, activeOnly bool) ([]SurveyDTO, error)
	Vote(ctx context.Context, surveyID, optionID uuid.UUID) (*SurveyDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a survey service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "survey repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*SurveyDTO, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	if len(input.Options) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least two options are required")
	}

	seen := make(map[string]struct{}, len(input.Options))
	options := make([]models.SurveyOption, 0, len(input.Options))
	for _, label := range input.Options {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "option labels cannot be empty")
		}
		if _, dup := seen[label]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate option label").
				WithDetails(map[string]any{"label": label})
		}
		seen[label] = struct{}{}
		options = append(options, models.SurveyOption{ID: uuid.New(), Label: label})
	}

	row := &models.Survey{
		ID:       uuid.New(),
		Question: question,
		IsActive: input.IsActive,
		Options:  options,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert survey")
	}
	return s.loadDTO(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, surveyID uuid.UUID, input UpdateInput) (*SurveyDTO, error) {
	row, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	if input.Question != nil {
		question := strings.TrimSpace(*input.Question)
		if question == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "question cannot be empty")
		}
		row.Question = question
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update survey")
	}
	return s.loadDTO(ctx, row.ID)
}

func (s *service) Delete(ctx context.Context, surveyID uuid.UUID) error {
	if _, err := s.load(ctx, surveyID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, surveyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete survey")
	}
	return nil
}

func (s *service) Get(ctx context.Context, surveyID uuid.UUID) (*SurveyDTO, error) {
	return s.loadDTO(ctx, surveyID)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]SurveyDTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list surveys")
	}
	dtos := make([]SurveyDTO, len(rows))
	for i := range rows {
		dtos[i] = *newDTO(&rows[i])
	}
	return dtos, nil
}

// Vote records one anonymous vote. Voting is rejected for inactive
// surveys and for options that belong to a different survey.
func (s *service) Vote(ctx context.Context, surveyID, optionID uuid.UUID) (*SurveyDTO, error) {
	row, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "survey is not active")
	}

	matched, err := s.repo.IncrementVote(ctx, surveyID, optionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment vote")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option not found")
	}
	return s.loadDTO(ctx, surveyID)
}

func (s *service) load(ctx context.Context, surveyID uuid.UUID) (*models.Survey, error) {
	row, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "survey not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load survey")
	}
	return row, nil
}

func (s *service) loadDTO(ctx context.Context, surveyID uuid.UUID) (*SurveyDTO, error) {
	row, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return newDTO(row), nil
}

func newDTO(row *models.Survey) *SurveyDTO {
	dto := &SurveyDTO{
		ID:        row.ID,
		Question:  row.Question,
		IsActive:  row.IsActive,
		Options:   make([]OptionDTO, len(row.Options)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for i, option := range row.Options {
		dto.Options[i] = OptionDTO{ID: option.ID, Label: option.Label, Votes: option.Votes}
	}
	return dto
}
