package appointment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Appointment maps to the agendamentos table. Start/end timestamps are
// kept as the raw upstream text because source systems emit several
// ISO-ish shapes; parsing happens defensively at the point of use.
type Appointment struct {
	ID                         uuid.UUID   `db:"id" json:"id"`
	Seq                        int64       `db:"seq" json:"seq"`
	PacienteID                 uuid.UUID   `db:"paciente_id" json:"pacienteId"`
	Inicio                     *string     `db:"inicio" json:"inicio,omitempty"`
	Fim                        *string     `db:"fim" json:"fim,omitempty"`
	StatusAtendimento          string      `db:"status_atendimento" json:"statusAtendimento"`
	EspecialidadeSlot          *string     `db:"especialidade_slot" json:"especialidadeSlot,omitempty"`
	EspecialidadesProfissional FlexStrings `db:"especialidades_profissional" json:"especialidadesProfissional,omitempty"`
	CreatedAt                  time.Time   `db:"created_at" json:"created_at"`
}

// FlexStrings accepts either a JSON string or a string array on the
// wire. Professional specialty fields arrive both ways upstream.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = nil
			return nil
		}
		*f = FlexStrings{s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or string array, got %s", data)
	}
	*f = FlexStrings(list)
	return nil
}

// attendedStatuses is the synonym set upstream systems use to mark an
// appointment as actually held, compared after normalization.
var attendedStatuses = map[string]bool{
	"presente":   true,
	"realizado":  true,
	"confirmado": true,
	"ok":         true,
	"atendido":   true,
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeStatus lowercases, trims and strips diacritics so that
// "Realizádo " and "realizado" compare equal.
func normalizeStatus(raw string) string {
	folded, _, err := transform.String(foldTransformer, raw)
	if err != nil {
		folded = raw
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Attended reports whether the raw attendance status marks the
// appointment as actually held.
func (a *Appointment) Attended() bool {
	return attendedStatuses[normalizeStatus(a.StatusAtendimento)]
}

// Specialties returns every specialty attached to the appointment, from
// the slot and from the professional, in declaration order.
func (a *Appointment) Specialties() []string {
	var out []string
	if a.EspecialidadeSlot != nil && *a.EspecialidadeSlot != "" {
		out = append(out, *a.EspecialidadeSlot)
	}
	for _, esp := range a.EspecialidadesProfissional {
		if esp != "" {
			out = append(out, esp)
		}
	}
	return out
}
