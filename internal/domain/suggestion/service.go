package suggestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/appointment"
	"github.com/thmestatistica/apollo-pendencias/internal/domain/patient"
	"github.com/thmestatistica/apollo-pendencias/internal/domain/scale"
)

type Service struct {
	patients  patient.Repository
	appts     appointment.Repository
	scales    scale.Repository
	drafts    *DraftStore
	persister *Persister
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(
	patients patient.Repository,
	appts appointment.Repository,
	scales scale.Repository,
	drafts *DraftStore,
	persister *Persister,
	logger zerolog.Logger,
) *Service {
	return &Service{
		patients:  patients,
		appts:     appts,
		scales:    scales,
		drafts:    drafts,
		persister: persister,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Generate runs the matcher for one patient and stages the resulting
// suggestions as the session's drafts, replacing any previous staging.
func (s *Service) Generate(ctx context.Context, sessionID string, patientID uuid.UUID, refOverride *time.Time) (Evaluation, error) {
	eval, err := s.evaluate(ctx, patientID, refOverride)
	if err != nil {
		return Evaluation{}, err
	}

	if eval.Outcome == OutcomeComSugestoes {
		s.drafts.Replace(sessionID, eval.Sugestoes)
	}
	return eval, nil
}

// Probe answers "would this patient get suggestions?" without staging
// anything. Used by reporting to surface data-quality gaps.
func (s *Service) Probe(ctx context.Context, patientID uuid.UUID) (Evaluation, error) {
	eval, err := s.evaluate(ctx, patientID, nil)
	if err != nil {
		return Evaluation{}, err
	}
	eval.Sugestoes = nil
	return eval, nil
}

// ProbeResult is one row of the all-patients report.
type ProbeResult struct {
	PacienteID   uuid.UUID `json:"pacienteId"`
	PacienteNome string    `json:"pacienteNome"`
	Resultado    Outcome   `json:"resultado"`
	Quantidade   int       `json:"quantidade"`
}

// ProbeAll evaluates every active patient. A per-patient failure is
// logged and skipped so one bad record does not sink the report.
func (s *Service) ProbeAll(ctx context.Context) ([]ProbeResult, error) {
	patients, _, err := s.patients.List(ctx, true, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	results := make([]ProbeResult, 0, len(patients))
	for _, pat := range patients {
		eval, err := s.evaluate(ctx, pat.ID, nil)
		if err != nil {
			s.logger.Warn().Err(err).Str("paciente_id", pat.ID.String()).Msg("probe skipped")
			continue
		}
		results = append(results, ProbeResult{
			PacienteID:   pat.ID,
			PacienteNome: pat.Nome,
			Resultado:    eval.Outcome,
			Quantidade:   eval.Quantidade,
		})
	}
	return results, nil
}

func (s *Service) evaluate(ctx context.Context, patientID uuid.UUID, refOverride *time.Time) (Evaluation, error) {
	pat, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("patient not found: %w", err)
	}

	history, err := s.appts.ListByPatient(ctx, patientID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("list appointments: %w", err)
	}

	catalog, err := s.scales.List(ctx)
	if err != nil {
		return Evaluation{}, fmt.Errorf("list scale catalog: %w", err)
	}

	return Evaluate(pat, appointment.ExtractSpecialtyHistory(history), catalog, refOverride, s.now()), nil
}

// Drafts returns the session's staged suggestions.
func (s *Service) Drafts(sessionID string) []Suggestion {
	return s.drafts.List(sessionID)
}

func (s *Service) UpdateDraft(sessionID string, draft Suggestion) error {
	return s.drafts.Update(sessionID, draft)
}

func (s *Service) RemoveDraft(sessionID string, id uuid.UUID) error {
	return s.drafts.Remove(sessionID, id)
}

func (s *Service) DiscardDrafts(sessionID string) {
	s.drafts.Clear(sessionID)
}

// SaveBatch persists the session's staged drafts. Drafts are cleared
// only when every one was accepted (created or already existing); on
// any failure they stay staged so the user can retry.
func (s *Service) SaveBatch(ctx context.Context, sessionID string) (BatchResult, error) {
	drafts := s.drafts.List(sessionID)
	if len(drafts) == 0 {
		return BatchResult{}, fmt.Errorf("no drafts staged")
	}

	result := s.persister.Persist(ctx, drafts)
	if result.Accepted() {
		s.drafts.Clear(sessionID)
	} else {
		s.logger.Warn().
			Int("falhas", result.Falhas).
			Int("criadas", result.Criadas).
			Msg("batch save incomplete, drafts retained for retry")
	}
	return result, nil
}
