package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PacienteID == uuid.Nil {
		return fmt.Errorf("pacienteId is required")
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// PatientHistory returns the full appointment history for a patient,
// most recent first.
func (s *Service) PatientHistory(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// PatientSpecialtyHistory builds the attended-specialty map used by
// suggestion generation.
func (s *Service) PatientSpecialtyHistory(ctx context.Context, patientID uuid.UUID) (SpecialtyHistory, error) {
	history, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return SpecialtyHistory{}, fmt.Errorf("list appointments: %w", err)
	}
	return ExtractSpecialtyHistory(history), nil
}
