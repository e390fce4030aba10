// Package forms is the HTTP client for the forms/scale catalog service,
// the system that owns form shells and their questions. Association
// metadata and pendencies stay local; only form content lives there.
package forms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Form is a scale/form shell as represented by the forms service.
type Form struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao,omitempty"`
}

// Question is a single form question. Order is the position within the form.
type Question struct {
	ID     *uuid.UUID `json:"id,omitempty"`
	Texto  string     `json:"texto"`
	Tipo   string     `json:"tipo"`
	Ordem  int        `json:"ordem"`
	Opcoes []string   `json:"opcoes,omitempty"`
}

// APIError is a non-2xx response from the forms service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forms service returned status %d: %s", e.StatusCode, e.Body)
}

// Service abstracts the forms backend so the two-phase orchestrator can be
// tested without a live server.
type Service interface {
	ListForms(ctx context.Context) ([]Form, error)
	CreateForm(ctx context.Context, f Form) (uuid.UUID, error)
	UpsertQuestions(ctx context.Context, formID uuid.UUID, questions []Question) error
	DeleteForm(ctx context.Context, formID uuid.UUID) error
}

// Client talks to the forms service over HTTP.
type Client struct {
	httpClient *resty.Client
	logger     zerolog.Logger
}

// NewClient creates a forms service client.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, logger: logger}
}

func (c *Client) ListForms(ctx context.Context) ([]Form, error) {
	var result []Form
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/formularios")
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return result, nil
}

func (c *Client) CreateForm(ctx context.Context, f Form) (uuid.UUID, error) {
	var created Form
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(f).
		SetResult(&created).
		Post("/formularios")
	if err != nil {
		return uuid.Nil, fmt.Errorf("create form: %w", err)
	}
	if resp.IsError() {
		return uuid.Nil, &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	if created.ID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("forms service returned no id for created form %q", f.Nome)
	}

	c.logger.Info().
		Str("form_id", created.ID.String()).
		Str("nome", f.Nome).
		Msg("form shell created")

	return created.ID, nil
}

func (c *Client) UpsertQuestions(ctx context.Context, formID uuid.UUID, questions []Question) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"perguntas": questions}).
		Put("/formularios/" + formID.String() + "/perguntas")
	if err != nil {
		return fmt.Errorf("upsert questions for form %s: %w", formID, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}

func (c *Client) DeleteForm(ctx context.Context, formID uuid.UUID) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/formularios/" + formID.String())
	if err != nil {
		return fmt.Errorf("delete form %s: %w", formID, err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}
