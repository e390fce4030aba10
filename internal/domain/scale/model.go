package scale

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Association maps to the escala_associacoes table: the classification
// metadata that ties a form in the catalog service to the diagnoses and
// specialties it applies to. The form content itself lives in the
// catalog service.
type Association struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	FormularioID   uuid.UUID  `db:"formulario_id" json:"formularioId"`
	Nome           string     `db:"nome" json:"nome"`
	Diagnosticos   StringList `db:"diagnosticos" json:"diagnosticos"`
	Especialidades StringList `db:"especialidades" json:"especialidades"`
	Significado    *string    `db:"significado" json:"significado,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// StringList accepts either a JSON array or a comma-joined string on
// the wire. Catalog rows arrive both ways upstream; normalization
// happens once here, at ingest, with elements trimmed and empties
// dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = splitTrim(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string array or comma-joined string, got %s", data)
	}

	var out StringList
	for _, item := range list {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*l = out
	return nil
}

func splitTrim(s string) StringList {
	var out StringList
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Contains reports whether the list holds the exact value.
func (l StringList) Contains(v string) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}

// Intersects reports whether the list shares at least one value with
// the given set.
func (l StringList) Intersects(set map[string]bool) bool {
	for _, item := range l {
		if set[item] {
			return true
		}
	}
	return false
}
