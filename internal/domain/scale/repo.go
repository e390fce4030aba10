package scale

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Association) error
	GetByID(ctx context.Context, id uuid.UUID) (*Association, error)
	GetByFormID(ctx context.Context, formID uuid.UUID) (*Association, error)
	Update(ctx context.Context, a *Association) error
	DeleteByFormID(ctx context.Context, formID uuid.UUID) error
	List(ctx context.Context) ([]*Association, error)
}
