package pendency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows pendency listings. Zero values mean no filter.
type ListFilter struct {
	PacienteID uuid.UUID
	Status     Status
}

type Repository interface {
	Create(ctx context.Context, p *Pendency) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pendency, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, resolvedAt *time.Time) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Pendency, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
