package patient

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the pacientes table. Read-mostly input for the
// suggestion engine; the write surface exists for the admin client.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Nome             string     `db:"nome" json:"nome"`
	Ativo            bool       `db:"ativo" json:"ativo"`
	DiagnosticoMacro FlexString `db:"diagnostico_macro" json:"diagnosticoMacro"`
	DataReferencia   *time.Time `db:"data_referencia" json:"data_referencia,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// FlexString accepts either a JSON string or a single-element string
// array on the wire. Upstream sources historically sent the macro
// diagnosis both ways; it collapses to the scalar on ingest.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or string array, got %s", data)
	}
	if len(list) == 0 {
		*f = ""
		return nil
	}
	*f = FlexString(list[0])
	return nil
}

func (f FlexString) String() string { return string(f) }
