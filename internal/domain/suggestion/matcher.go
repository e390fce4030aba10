package suggestion

import (
	"time"

	"github.com/google/uuid"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/appointment"
	"github.com/thmestatistica/apollo-pendencias/internal/domain/patient"
	"github.com/thmestatistica/apollo-pendencias/internal/domain/pendency"
	"github.com/thmestatistica/apollo-pendencias/internal/domain/scale"
)

// Suggestion is a candidate pendency staged for review. The id is
// ephemeral, minted for list operations only; the server assigns its
// own on persistence.
type Suggestion struct {
	ID               uuid.UUID       `json:"id"`
	PacienteID       uuid.UUID       `json:"pacienteId"`
	PacienteNome     string          `json:"pacienteNome"`
	FormularioID     uuid.UUID       `json:"formularioId"`
	EscalaNome       string          `json:"escalaNome"`
	DiagnosticoMacro string          `json:"diagnosticoMacro"`
	Especialidade    string          `json:"especialidade"`
	AgendamentoID    *uuid.UUID      `json:"agendamentoId,omitempty"`
	DataReferencia   time.Time       `json:"data_referencia"`
	Status           pendency.Status `json:"status"`
}

// Outcome classifies what suggestion generation produced for one
// patient. Exactly one applies, checked in this order: missing
// diagnosis beats missing attendance beats the catch-all bucket beats
// an empty match.
type Outcome string

const (
	OutcomeSemDiagnostico    Outcome = "sem_diagnostico"
	OutcomeSemAtendimento    Outcome = "sem_atendimento"
	OutcomeDiagnosticoOutros Outcome = "diagnostico_outros"
	OutcomeSemEscalas        Outcome = "sem_escalas"
	OutcomeComSugestoes      Outcome = "com_sugestoes"
)

// Evaluation is the result of running the matcher for one patient.
type Evaluation struct {
	Outcome    Outcome      `json:"resultado"`
	Quantidade int          `json:"quantidade"`
	Sugestoes  []Suggestion `json:"sugestoes,omitempty"`
}

// Evaluate cross-references the scale catalog against the patient's
// expanded diagnosis and attended-specialty history. One suggestion is
// emitted per (scale, attended specialty) pair: a scale applicable to
// two attended specialties yields two independently actionable
// suggestions, each stamped with its own appointment id.
func Evaluate(
	pat *patient.Patient,
	history appointment.SpecialtyHistory,
	catalog []*scale.Association,
	refOverride *time.Time,
	now time.Time,
) Evaluation {
	diag := ExpandDiagnosis(pat.DiagnosticoMacro.String())
	if diag.None() {
		return Evaluation{Outcome: OutcomeSemDiagnostico}
	}
	if !history.HasAttendance() {
		return Evaluation{Outcome: OutcomeSemAtendimento}
	}
	if diag.CatchAll() {
		return Evaluation{Outcome: OutcomeDiagnosticoOutros}
	}

	refDate := referenceDate(pat, refOverride, now)

	var suggestions []Suggestion
	for _, assoc := range catalog {
		if !assoc.Diagnosticos.Intersects(diag.Values) {
			continue
		}
		for _, esp := range assoc.Especialidades {
			apptID, attended := history.ByEspecialidade[esp]
			if !attended {
				continue
			}
			appt := apptID
			suggestions = append(suggestions, Suggestion{
				ID:               uuid.New(),
				PacienteID:       pat.ID,
				PacienteNome:     pat.Nome,
				FormularioID:     assoc.FormularioID,
				EscalaNome:       assoc.Nome,
				DiagnosticoMacro: diag.Original,
				Especialidade:    esp,
				AgendamentoID:    &appt,
				DataReferencia:   refDate,
				Status:           pendency.StatusAberta,
			})
		}
	}

	if len(suggestions) == 0 {
		return Evaluation{Outcome: OutcomeSemEscalas}
	}
	return Evaluation{Outcome: OutcomeComSugestoes, Quantidade: len(suggestions), Sugestoes: suggestions}
}

// referenceDate resolves the target date: explicit override, else the
// patient's stored reference date, else today. Always pinned to noon
// UTC.
func referenceDate(pat *patient.Patient, override *time.Time, now time.Time) time.Time {
	switch {
	case override != nil:
		return pendency.NormalizeReferenceDate(*override)
	case pat.DataReferencia != nil:
		return pendency.NormalizeReferenceDate(*pat.DataReferencia)
	default:
		return pendency.NormalizeReferenceDate(now)
	}
}
