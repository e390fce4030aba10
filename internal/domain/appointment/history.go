package appointment

import (
	"sort"

	"github.com/google/uuid"
)

// SpecialtyHistory maps each specialty the patient actually attended to
// the id of the most recent attended appointment in that specialty.
type SpecialtyHistory struct {
	ByEspecialidade map[string]uuid.UUID
	Especialidades  []string
}

// ExtractSpecialtyHistory scans the appointment history in any order.
// Sequence numbers stand in for recency because upstream timestamps are
// not reliable: after sorting descending by seq, the first occurrence
// of a specialty is its most recent attended appointment. Appointments
// not marked attended are skipped entirely.
func ExtractSpecialtyHistory(history []*Appointment) SpecialtyHistory {
	sorted := make([]*Appointment, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq > sorted[j].Seq })

	out := SpecialtyHistory{ByEspecialidade: make(map[string]uuid.UUID)}
	for _, appt := range sorted {
		if !appt.Attended() {
			continue
		}
		for _, esp := range appt.Specialties() {
			if _, seen := out.ByEspecialidade[esp]; seen {
				continue
			}
			out.ByEspecialidade[esp] = appt.ID
			out.Especialidades = append(out.Especialidades, esp)
		}
	}
	return out
}

// HasAttendance reports whether any attended appointment contributed a
// specialty.
func (h SpecialtyHistory) HasAttendance() bool {
	return len(h.ByEspecialidade) > 0
}
