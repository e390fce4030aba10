package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop()), srv
}

func TestClient_CreateForm(t *testing.T) {
	wantID := uuid.New()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/formularios" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body Form
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Nome != "Escala de Berg" {
			t.Errorf("expected nome Escala de Berg, got %q", body.Nome)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Form{ID: wantID, Nome: body.Nome})
	}))

	got, err := client.CreateForm(context.Background(), Form{Nome: "Escala de Berg"})
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	if got != wantID {
		t.Errorf("expected id %s, got %s", wantID, got)
	}
}

func TestClient_CreateForm_MissingID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nome":"Escala de Berg"}`))
	}))

	if _, err := client.CreateForm(context.Background(), Form{Nome: "Escala de Berg"}); err == nil {
		t.Fatal("expected error when forms service omits the id")
	}
}

func TestClient_CreateForm_ServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.CreateForm(context.Background(), Form{Nome: "Escala de Berg"})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestClient_UpsertQuestions(t *testing.T) {
	formID := uuid.New()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/formularios/" + formID.String() + "/perguntas"
		if r.Method != http.MethodPut || r.URL.Path != wantPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Perguntas []Question `json:"perguntas"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Perguntas) != 2 {
			t.Errorf("expected 2 questions, got %d", len(body.Perguntas))
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	questions := []Question{
		{Texto: "Sentado para em pé", Tipo: "escolha", Ordem: 1},
		{Texto: "Em pé sem apoio", Tipo: "escolha", Ordem: 2},
	}
	if err := client.UpsertQuestions(context.Background(), formID, questions); err != nil {
		t.Fatalf("UpsertQuestions: %v", err)
	}
}

func TestClient_DeleteForm_NotFoundTolerated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	if err := client.DeleteForm(context.Background(), uuid.New()); err != nil {
		t.Fatalf("DeleteForm should tolerate 404, got %v", err)
	}
}

func TestClient_ListForms(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/formularios" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Form{
			{ID: uuid.New(), Nome: "Escala de Berg"},
			{ID: uuid.New(), Nome: "MRC"},
		})
	}))

	got, err := client.ListForms(context.Background())
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(got))
	}
}
