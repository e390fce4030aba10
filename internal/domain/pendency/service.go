package pendency

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/appointment"
	"github.com/thmestatistica/apollo-pendencias/internal/platform/overlay"
)

type Service struct {
	repo    Repository
	appts   appointment.Repository
	overlay overlay.Store
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, appts appointment.Repository, overlayStore overlay.Store, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		appts:   appts,
		overlay: overlayStore,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreatePendency(ctx context.Context, p *Pendency) error {
	if p.PacienteID == uuid.Nil {
		return fmt.Errorf("pacienteId is required")
	}
	if p.FormularioID == uuid.Nil {
		return fmt.Errorf("formularioId is required")
	}
	if p.Status == "" {
		p.Status = StatusAberta
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}
	if p.DataReferencia != nil {
		normalized := NormalizeReferenceDate(*p.DataReferencia)
		p.DataReferencia = &normalized
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPendency(ctx context.Context, id uuid.UUID) (*Pendency, error) {
	return s.repo.GetByID(ctx, id)
}

// Fill marks the pendency as filled after its form was completed.
// Terminal outcome: clears the session overlay so stale local state
// cannot mask the server truth.
func (s *Service) Fill(ctx context.Context, sessionID string, id uuid.UUID) (*Pendency, error) {
	return s.resolve(ctx, sessionID, id, StatusPreenchida)
}

// MarkNotApplicable records that the scale does not apply. Only legal
// against an existing record: the id check runs before any I/O.
func (s *Service) MarkNotApplicable(ctx context.Context, sessionID string, id uuid.UUID) (*Pendency, error) {
	if id == uuid.Nil {
		return nil, ErrMissingServerID
	}
	return s.resolve(ctx, sessionID, id, StatusNaoSeAplica)
}

// MarkAppliedNotRecorded records that the scale was applied but its
// result never documented. Requires the caller to have confirmed
// explicitly; the gate runs before any I/O.
func (s *Service) MarkAppliedNotRecorded(ctx context.Context, sessionID string, id uuid.UUID, confirmed bool) (*Pendency, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	return s.resolve(ctx, sessionID, id, StatusAplicadaNaoRegistrada)
}

func (s *Service) resolve(ctx context.Context, sessionID string, id uuid.UUID, target Status) (*Pendency, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pendency not found: %w", err)
	}
	if p.Status.Terminal() {
		return nil, ErrLocked
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, target, &now); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	p.Status = target
	p.ResolvidaEm = &now

	if err := s.overlay.Delete(ctx, sessionID, id.String()); err != nil {
		s.logger.Warn().
			Err(err).
			Str("pendencia_id", id.String()).
			Msg("overlay cleanup failed after terminal transition")
	}
	return p, nil
}

// MarkNotDone flags the pendency as skipped for this session only.
// Nothing is persisted; the marker lives in the overlay until a real
// transition replaces it or the session expires.
func (s *Service) MarkNotDone(ctx context.Context, sessionID string, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("pendency not found: %w", err)
	}
	if p.Status.Terminal() {
		return ErrLocked
	}

	entry := overlay.Entry{Status: string(StatusNaoRealizada), UpdatedAt: s.now()}
	if err := s.overlay.Set(ctx, sessionID, id.String(), entry); err != nil {
		return fmt.Errorf("set overlay: %w", err)
	}
	return nil
}

// EffectiveView resolves the status a session should see for one
// pendency, dropping any overlay that a terminal server status has
// since invalidated.
func (s *Service) EffectiveView(ctx context.Context, sessionID string, p *Pendency) (PendencyView, error) {
	entry, hasOverlay, err := s.overlay.Get(ctx, sessionID, p.ID.String())
	if err != nil {
		return PendencyView{}, fmt.Errorf("read overlay: %w", err)
	}
	if hasOverlay && p.Status.Terminal() {
		// server truth won; discard the stale overlay
		if err := s.overlay.Delete(ctx, sessionID, p.ID.String()); err != nil {
			s.logger.Warn().Err(err).Str("pendencia_id", p.ID.String()).Msg("stale overlay delete failed")
		}
		hasOverlay = false
	}

	effective := EffectiveStatus(p.Status, Status(entry.Status), hasOverlay)
	return PendencyView{
		Pendency:      *p,
		StatusEfetivo: effective,
		Acionavel:     effective.Actionable(),
	}, nil
}

// Worklist lists pendencies decorated with effective status and
// urgency tier, most urgent first. Items whose appointment end time
// cannot be resolved get the placeholder tier and sort last.
func (s *Service) Worklist(ctx context.Context, sessionID string, filter ListFilter, limit, offset int) ([]PendencyView, int, error) {
	pendencies, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	views := make([]PendencyView, 0, len(pendencies))
	for _, p := range pendencies {
		view, err := s.EffectiveView(ctx, sessionID, p)
		if err != nil {
			return nil, 0, err
		}
		view.Urgencia = s.classify(ctx, p, now)
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Urgencia.Rank() < views[j].Urgencia.Rank()
	})
	return views, total, nil
}

func (s *Service) classify(ctx context.Context, p *Pendency, now time.Time) UrgencyTier {
	if p.AgendamentoID == nil {
		return TierSemDados
	}
	appt, err := s.appts.GetByID(ctx, *p.AgendamentoID)
	if err != nil || appt.Fim == nil {
		return TierSemDados
	}
	return ClassifyEndTime(*appt.Fim, now)
}

// DeletePendency is the admin escape hatch; clinical surfaces never
// call it.
func (s *Service) DeletePendency(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
