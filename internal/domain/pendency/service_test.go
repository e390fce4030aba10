package pendency

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/appointment"
	"github.com/thmestatistica/apollo-pendencias/internal/platform/overlay"
)

// -- Mock Repository --

type mockRepo struct {
	pendencies map[uuid.UUID]*Pendency
	getCalls   int
	listErr    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{pendencies: make(map[uuid.UUID]*Pendency)}
}

func (m *mockRepo) Create(_ context.Context, p *Pendency) error {
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = StatusAberta
	}
	if p.CriadaEm.IsZero() {
		p.CriadaEm = time.Now().UTC()
	}
	m.pendencies[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Pendency, error) {
	m.getCalls++
	p, ok := m.pendencies[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status, resolvedAt *time.Time) error {
	p, ok := m.pendencies[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.Status = status
	p.ResolvidaEm = resolvedAt
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Pendency, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*Pendency
	for _, p := range m.pendencies {
		if filter.PacienteID != uuid.Nil && p.PacienteID != filter.PacienteID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.pendencies, id)
	return nil
}

// -- Mock appointment repository --

type mockApptRepo struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockApptRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range m.appts {
		if a.PacienteID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

// -- Helpers --

type fixture struct {
	svc     *Service
	repo    *mockRepo
	appts   *mockApptRepo
	overlay *overlay.MemoryStore
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    newMockRepo(),
		appts:   newMockApptRepo(),
		overlay: overlay.NewMemoryStore(),
		now:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, f.appts, f.overlay, zerolog.Nop())
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) openPendency(t *testing.T) *Pendency {
	t.Helper()
	p := &Pendency{PacienteID: uuid.New(), FormularioID: uuid.New()}
	if err := f.svc.CreatePendency(context.Background(), p); err != nil {
		t.Fatalf("CreatePendency: %v", err)
	}
	return p
}

// -- Tests --

func TestCreatePendency_Defaults(t *testing.T) {
	f := newFixture(t)
	ref := time.Date(2026, 8, 29, 23, 45, 0, 0, time.UTC)
	p := &Pendency{PacienteID: uuid.New(), FormularioID: uuid.New(), DataReferencia: &ref}

	if err := f.svc.CreatePendency(context.Background(), p); err != nil {
		t.Fatalf("CreatePendency: %v", err)
	}
	if p.Status != StatusAberta {
		t.Errorf("expected default ABERTA, got %s", p.Status)
	}
	want := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	if !p.DataReferencia.Equal(want) {
		t.Errorf("reference date not normalized: %s", p.DataReferencia)
	}
}

func TestCreatePendency_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	p := &Pendency{PacienteID: uuid.New(), FormularioID: uuid.New(), Status: "PENDENTE"}
	if err := f.svc.CreatePendency(context.Background(), p); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMarkNotApplicable_WithoutIDNoIO(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.MarkNotApplicable(context.Background(), "sess-1", uuid.Nil)
	if !errors.Is(err, ErrMissingServerID) {
		t.Fatalf("expected ErrMissingServerID, got %v", err)
	}
	if f.repo.getCalls != 0 {
		t.Errorf("validation must run before any repository access, got %d calls", f.repo.getCalls)
	}
}

func TestFill_ClearsOverlay(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)
	ctx := context.Background()

	if err := f.svc.MarkNotDone(ctx, "sess-1", p.ID); err != nil {
		t.Fatalf("MarkNotDone: %v", err)
	}

	if _, err := f.svc.Fill(ctx, "sess-1", p.ID); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	stored, _ := f.repo.GetByID(ctx, p.ID)
	view, err := f.svc.EffectiveView(ctx, "sess-1", stored)
	if err != nil {
		t.Fatalf("EffectiveView: %v", err)
	}
	if view.StatusEfetivo != StatusPreenchida {
		t.Errorf("overlay must not mask the terminal status, got %s", view.StatusEfetivo)
	}
	if _, ok, _ := f.overlay.Get(ctx, "sess-1", p.ID.String()); ok {
		t.Error("overlay entry must be deleted after a terminal transition")
	}
}

func TestFill_SetsResolvedTimestamp(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)

	got, err := f.svc.Fill(context.Background(), "sess-1", p.ID)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got.ResolvidaEm == nil || !got.ResolvidaEm.Equal(f.now) {
		t.Errorf("resolvidaEm not stamped with clock time: %v", got.ResolvidaEm)
	}
}

func TestTransitions_LockedAfterTerminal(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)
	ctx := context.Background()

	if _, err := f.svc.Fill(ctx, "sess-1", p.ID); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if _, err := f.svc.MarkNotApplicable(ctx, "sess-1", p.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
	if err := f.svc.MarkNotDone(ctx, "sess-1", p.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked for nao-realizada, got %v", err)
	}
}

func TestMarkAppliedNotRecorded_RequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)

	_, err := f.svc.MarkAppliedNotRecorded(context.Background(), "sess-1", p.ID, false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if f.repo.getCalls != 0 {
		t.Errorf("confirmation gate must run before any repository access")
	}

	got, err := f.svc.MarkAppliedNotRecorded(context.Background(), "sess-1", p.ID, true)
	if err != nil {
		t.Fatalf("confirmed transition: %v", err)
	}
	if got.Status != StatusAplicadaNaoRegistrada {
		t.Errorf("got %s", got.Status)
	}
}

func TestMarkNotDone_OverlayOnly(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)
	ctx := context.Background()

	if err := f.svc.MarkNotDone(ctx, "sess-1", p.ID); err != nil {
		t.Fatalf("MarkNotDone: %v", err)
	}

	stored, _ := f.repo.GetByID(ctx, p.ID)
	if stored.Status != StatusAberta {
		t.Errorf("nao-realizada must never persist, record shows %s", stored.Status)
	}

	view, _ := f.svc.EffectiveView(ctx, "sess-1", stored)
	if view.StatusEfetivo != StatusNaoRealizada {
		t.Errorf("session should see NAO_REALIZADA, got %s", view.StatusEfetivo)
	}
	if !view.Acionavel {
		t.Error("nao-realizada items stay actionable")
	}

	otherView, _ := f.svc.EffectiveView(ctx, "sess-2", stored)
	if otherView.StatusEfetivo != StatusAberta {
		t.Errorf("other sessions must see ABERTA, got %s", otherView.StatusEfetivo)
	}
}

func TestWorklist_SortsByUrgency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patientID := uuid.New()

	addWithEnd := func(end *string) uuid.UUID {
		appt := &appointment.Appointment{PacienteID: patientID, Fim: end, StatusAtendimento: "presente"}
		f.appts.Create(ctx, appt)
		p := &Pendency{PacienteID: patientID, FormularioID: uuid.New(), AgendamentoID: &appt.ID}
		if err := f.svc.CreatePendency(ctx, p); err != nil {
			t.Fatalf("CreatePendency: %v", err)
		}
		return p.ID
	}

	recent := "2026-08-30T10:00:00Z" // 2h, normal
	ancient := "2026-08-20T12:00:00Z" // 240h, critico
	normalID := addWithEnd(&recent)
	criticalID := addWithEnd(&ancient)
	noEndID := addWithEnd(nil)

	views, total, err := f.svc.Worklist(ctx, "sess-1", ListFilter{PacienteID: patientID}, 20, 0)
	if err != nil {
		t.Fatalf("Worklist: %v", err)
	}
	if total != 3 || len(views) != 3 {
		t.Fatalf("expected 3 items, got %d/%d", len(views), total)
	}
	if views[0].ID != criticalID || views[0].Urgencia != TierCritico {
		t.Errorf("most urgent first: got %s (%s)", views[0].ID, views[0].Urgencia)
	}
	if views[1].ID != normalID {
		t.Errorf("normal item second, got %s", views[1].ID)
	}
	if views[2].ID != noEndID || views[2].Urgencia != TierSemDados {
		t.Errorf("item without end time must sort last with placeholder tier, got %s (%s)", views[2].ID, views[2].Urgencia)
	}
}

func TestEffectiveView_DiscardsStaleOverlay(t *testing.T) {
	f := newFixture(t)
	p := f.openPendency(t)
	ctx := context.Background()

	// overlay set while open, then the record reaches a terminal state
	// through another path
	f.overlay.Set(ctx, "sess-1", p.ID.String(), overlay.Entry{Status: string(StatusNaoRealizada), UpdatedAt: f.now})
	f.repo.UpdateStatus(ctx, p.ID, StatusConcluida, &f.now)

	stored, _ := f.repo.GetByID(ctx, p.ID)
	view, err := f.svc.EffectiveView(ctx, "sess-1", stored)
	if err != nil {
		t.Fatalf("EffectiveView: %v", err)
	}
	if view.StatusEfetivo != StatusConcluida {
		t.Errorf("terminal server status must win, got %s", view.StatusEfetivo)
	}
	if _, ok, _ := f.overlay.Get(ctx, "sess-1", p.ID.String()); ok {
		t.Error("stale overlay must be deleted, not just ignored")
	}
}
