package scale

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/platform/forms"
)

// -- Mock Repository --

type mockRepo struct {
	assocs    map[uuid.UUID]*Association
	createErr error
	deleteErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{assocs: make(map[uuid.UUID]*Association)}
}

func (m *mockRepo) Create(_ context.Context, a *Association) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = uuid.New()
	m.assocs[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Association, error) {
	a, ok := m.assocs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) GetByFormID(_ context.Context, formID uuid.UUID) (*Association, error) {
	for _, a := range m.assocs {
		if a.FormularioID == formID {
			return a, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, a *Association) error {
	m.assocs[a.ID] = a
	return nil
}

func (m *mockRepo) DeleteByFormID(_ context.Context, formID uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for id, a := range m.assocs {
		if a.FormularioID == formID {
			delete(m.assocs, id)
		}
	}
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Association, error) {
	var out []*Association
	for _, a := range m.assocs {
		out = append(out, a)
	}
	return out, nil
}

// -- Mock forms service --

type mockForms struct {
	createdID   uuid.UUID
	createErr   error
	questionErr error
	deleteErr   error
	deleteCalls []uuid.UUID
}

func newMockForms() *mockForms {
	return &mockForms{createdID: uuid.New()}
}

func (m *mockForms) ListForms(_ context.Context) ([]forms.Form, error) { return nil, nil }

func (m *mockForms) CreateForm(_ context.Context, f forms.Form) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.Nil, m.createErr
	}
	return m.createdID, nil
}

func (m *mockForms) UpsertQuestions(_ context.Context, formID uuid.UUID, qs []forms.Question) error {
	return m.questionErr
}

func (m *mockForms) DeleteForm(_ context.Context, formID uuid.UUID) error {
	m.deleteCalls = append(m.deleteCalls, formID)
	return m.deleteErr
}

func newTestService(repo Repository, formsSvc forms.Service) *Service {
	return NewService(repo, formsSvc, zerolog.Nop())
}

// -- Tests --

func TestCreateScale_Success(t *testing.T) {
	repo := newMockRepo()
	formsSvc := newMockForms()
	svc := newTestService(repo, formsSvc)

	in := CreateScaleInput{
		Nome:           "Escala de Berg",
		Perguntas:      []forms.Question{{Texto: "Sentado para em pé", Tipo: "escolha", Ordem: 1}},
		Diagnosticos:   StringList{"AVC"},
		Especialidades: StringList{"Fisioterapia"},
	}
	assoc, err := svc.CreateScale(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateScale: %v", err)
	}
	if assoc.FormularioID != formsSvc.createdID {
		t.Errorf("association not stamped with generated form id")
	}
	if len(formsSvc.deleteCalls) != 0 {
		t.Errorf("no compensation should run on success, got %d delete calls", len(formsSvc.deleteCalls))
	}
}

func TestCreateScale_QuestionFailureCompensates(t *testing.T) {
	repo := newMockRepo()
	formsSvc := newMockForms()
	formsSvc.questionErr = fmt.Errorf("catalog timeout")
	svc := newTestService(repo, formsSvc)

	in := CreateScaleInput{
		Nome:      "MRC",
		Perguntas: []forms.Question{{Texto: "Flexão de quadril", Tipo: "escolha", Ordem: 1}},
	}
	_, err := svc.CreateScale(context.Background(), in)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(formsSvc.deleteCalls) != 1 {
		t.Fatalf("compensating delete must be issued exactly once, got %d", len(formsSvc.deleteCalls))
	}
	if formsSvc.deleteCalls[0] != formsSvc.createdID {
		t.Errorf("compensation targeted wrong form id")
	}
	if len(repo.assocs) != 0 {
		t.Errorf("no association should be persisted after rollback")
	}
}

func TestCreateScale_AssociationFailureCompensates(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = fmt.Errorf("db down")
	formsSvc := newMockForms()
	svc := newTestService(repo, formsSvc)

	_, err := svc.CreateScale(context.Background(), CreateScaleInput{Nome: "MRC"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(formsSvc.deleteCalls) != 1 {
		t.Fatalf("compensating delete must be issued exactly once, got %d", len(formsSvc.deleteCalls))
	}
}

func TestCreateScale_CompensationFailureKeepsOriginalError(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = fmt.Errorf("db down")
	formsSvc := newMockForms()
	formsSvc.deleteErr = fmt.Errorf("catalog also down")
	svc := newTestService(repo, formsSvc)

	_, err := svc.CreateScale(context.Background(), CreateScaleInput{Nome: "MRC"})
	if err == nil {
		t.Fatal("expected error")
	}
	// root cause, not the compensation failure, reaches the caller
	if got := err.Error(); got != "create association: db down" {
		t.Errorf("expected original error, got %q", got)
	}
}

func TestCreateScale_ShellFailureNoCompensation(t *testing.T) {
	repo := newMockRepo()
	formsSvc := newMockForms()
	formsSvc.createErr = fmt.Errorf("catalog down")
	svc := newTestService(repo, formsSvc)

	_, err := svc.CreateScale(context.Background(), CreateScaleInput{Nome: "MRC"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(formsSvc.deleteCalls) != 0 {
		t.Errorf("nothing to compensate when the shell was never created")
	}
}

func TestCreateScale_NoQuestionsSkipsUpsert(t *testing.T) {
	repo := newMockRepo()
	formsSvc := newMockForms()
	formsSvc.questionErr = fmt.Errorf("should not be called")
	svc := newTestService(repo, formsSvc)

	if _, err := svc.CreateScale(context.Background(), CreateScaleInput{Nome: "MRC"}); err != nil {
		t.Fatalf("CreateScale without questions: %v", err)
	}
}

func TestDeleteScale_AssociationFailureDoesNotBlock(t *testing.T) {
	repo := newMockRepo()
	repo.deleteErr = fmt.Errorf("db hiccup")
	formsSvc := newMockForms()
	svc := newTestService(repo, formsSvc)

	formID := uuid.New()
	if err := svc.DeleteScale(context.Background(), formID); err != nil {
		t.Fatalf("DeleteScale should tolerate association delete failure: %v", err)
	}
	if len(formsSvc.deleteCalls) != 1 {
		t.Errorf("catalog delete must still run")
	}
}

func TestDeleteScale_CatalogFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	formsSvc := newMockForms()
	formsSvc.deleteErr = fmt.Errorf("catalog down")
	svc := newTestService(repo, formsSvc)

	if err := svc.DeleteScale(context.Background(), uuid.New()); err == nil {
		t.Error("catalog delete failure must surface")
	}
}
