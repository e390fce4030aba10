package pendency

import (
	"time"

	"github.com/google/uuid"
)

// Pendency maps to the pendencias table: one outstanding documentation
// obligation for a patient, optionally tied to a specific appointment
// and scale. Records are never hard-deleted by the clinical surfaces;
// deletion is an admin operation.
type Pendency struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PacienteID       uuid.UUID  `db:"paciente_id" json:"pacienteId"`
	FormularioID     uuid.UUID  `db:"formulario_id" json:"formularioId"`
	AgendamentoID    *uuid.UUID `db:"agendamento_id" json:"agendamentoId,omitempty"`
	DiagnosticoMacro string     `db:"diagnostico_macro" json:"diagnosticoMacro"`
	Especialidade    string     `db:"especialidade" json:"especialidade"`
	Status           Status     `db:"status" json:"status"`
	CriadaEm         time.Time  `db:"criada_em" json:"criadaEm"`
	ResolvidaEm      *time.Time `db:"resolvida_em" json:"resolvidaEm,omitempty"`
	DataReferencia   *time.Time `db:"data_referencia" json:"data_referencia,omitempty"`
}

// PendencyView is a Pendency decorated with the session-effective
// status and the urgency tier for the worklist.
type PendencyView struct {
	Pendency
	StatusEfetivo Status      `json:"statusEfetivo"`
	Urgencia      UrgencyTier `json:"urgencia"`
	Acionavel     bool        `json:"acionavel"`
}

// NormalizeReferenceDate pins a reference date to noon UTC. Storing a
// fixed instant instead of a bare calendar date keeps the date stable
// across timezone boundaries.
func NormalizeReferenceDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 12, 0, 0, 0, time.UTC)
}
