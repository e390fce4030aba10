package scale

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/platform/forms"
)

type Service struct {
	repo   Repository
	forms  forms.Service
	logger zerolog.Logger
}

func NewService(repo Repository, formsSvc forms.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, forms: formsSvc, logger: logger}
}

// CreateScaleInput carries everything needed to create a scale: the
// form shell and questions go to the catalog service, the
// classification metadata stays local.
type CreateScaleInput struct {
	Nome           string           `json:"nome"`
	Descricao      string           `json:"descricao,omitempty"`
	Perguntas      []forms.Question `json:"perguntas,omitempty"`
	Diagnosticos   StringList       `json:"diagnosticos"`
	Especialidades StringList       `json:"especialidades"`
	Significado    *string          `json:"significado,omitempty"`
}

// CreateScale creates the form shell in the catalog service, upserts
// its questions, then records the association locally. If anything
// fails after the shell exists, a compensating delete is issued against
// the catalog service and the original error is returned. A failed
// compensation is logged but never masks the root cause.
func (s *Service) CreateScale(ctx context.Context, in CreateScaleInput) (*Association, error) {
	if in.Nome == "" {
		return nil, fmt.Errorf("nome is required")
	}

	formID, err := s.forms.CreateForm(ctx, forms.Form{Nome: in.Nome, Descricao: in.Descricao})
	if err != nil {
		return nil, fmt.Errorf("create form shell: %w", err)
	}

	if len(in.Perguntas) > 0 {
		if err := s.forms.UpsertQuestions(ctx, formID, in.Perguntas); err != nil {
			s.compensate(ctx, formID, err)
			return nil, fmt.Errorf("upsert questions: %w", err)
		}
	}

	assoc := &Association{
		FormularioID:   formID,
		Nome:           in.Nome,
		Diagnosticos:   in.Diagnosticos,
		Especialidades: in.Especialidades,
		Significado:    in.Significado,
	}
	if err := s.repo.Create(ctx, assoc); err != nil {
		s.compensate(ctx, formID, err)
		return nil, fmt.Errorf("create association: %w", err)
	}

	return assoc, nil
}

// compensate deletes the orphaned form shell after a later phase
// failed. The caller still returns the original error.
func (s *Service) compensate(ctx context.Context, formID uuid.UUID, cause error) {
	if err := s.forms.DeleteForm(ctx, formID); err != nil {
		s.logger.Error().
			Err(err).
			Str("formulario_id", formID.String()).
			AnErr("original_error", cause).
			Msg("compensating form delete failed, orphaned form shell left in catalog")
		return
	}
	s.logger.Warn().
		Str("formulario_id", formID.String()).
		AnErr("original_error", cause).
		Msg("scale creation rolled back")
}

// DeleteScale removes a scale. The local association delete is best
// effort; the catalog-service delete is the authoritative step and its
// error is the one reported.
func (s *Service) DeleteScale(ctx context.Context, formID uuid.UUID) error {
	if err := s.repo.DeleteByFormID(ctx, formID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("formulario_id", formID.String()).
			Msg("association delete failed, proceeding with catalog delete")
	}

	if err := s.forms.DeleteForm(ctx, formID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return nil
}

func (s *Service) GetAssociation(ctx context.Context, id uuid.UUID) (*Association, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAssociation(ctx context.Context, a *Association) error {
	if a.Nome == "" {
		return fmt.Errorf("nome is required")
	}
	return s.repo.Update(ctx, a)
}

// ListAssociations returns the full catalog. The suggestion engine
// consumes this as its eligibility input.
func (s *Service) ListAssociations(ctx context.Context) ([]*Association, error) {
	return s.repo.List(ctx)
}

// ListForms proxies the catalog service listing for the admin client.
func (s *Service) ListForms(ctx context.Context) ([]forms.Form, error) {
	return s.forms.ListForms(ctx)
}
