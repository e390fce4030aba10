package pendency

import (
	"strings"
	"time"
)

// UrgencyTier ranks how overdue an unresolved pendency is, from the
// elapsed time since its appointment ended.
type UrgencyTier string

const (
	TierNormal   UrgencyTier = "normal"
	TierAtencao  UrgencyTier = "atencao"
	TierAlerta   UrgencyTier = "alerta"
	TierUrgente  UrgencyTier = "urgente"
	TierCritico  UrgencyTier = "critico"
	TierSemDados UrgencyTier = "sem_dados"
)

// layouts the upstream systems have been observed to emit. Fractional
// seconds are accepted by the parser on any of them; the zoneless
// forms come from legacy exports.
var endTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEndTime parses an appointment end timestamp defensively. Raw
// values without a zone marker are taken as UTC. Returns ok=false
// instead of an error: a missing or garbled end time is expected data,
// not a failure.
func ParseEndTime(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClassifyHours maps elapsed hours to a tier over half-open intervals:
// [0,24) normal, [24,36) atencao, [36,48) alerta, [48,120) urgente,
// [120,inf) critico. Boundary values belong to the higher tier.
// Negative input (future end time) clamps to zero.
func ClassifyHours(hours float64) UrgencyTier {
	if hours < 0 {
		hours = 0
	}
	switch {
	case hours < 24:
		return TierNormal
	case hours < 36:
		return TierAtencao
	case hours < 48:
		return TierAlerta
	case hours < 120:
		return TierUrgente
	default:
		return TierCritico
	}
}

// ClassifyEndTime is the full classifier: raw end timestamp and a fixed
// now to elapsed-hours tier. Unparseable input yields TierSemDados so
// the item is rendered with a placeholder and sorted last.
func ClassifyEndTime(raw string, now time.Time) UrgencyTier {
	end, ok := ParseEndTime(raw)
	if !ok {
		return TierSemDados
	}
	return ClassifyHours(now.Sub(end).Hours())
}

// tierRank orders tiers for worklist sorting, most urgent first.
// TierSemDados always sorts last.
var tierRank = map[UrgencyTier]int{
	TierCritico:  0,
	TierUrgente:  1,
	TierAlerta:   2,
	TierAtencao:  3,
	TierNormal:   4,
	TierSemDados: 5,
}

func (t UrgencyTier) Rank() int {
	r, ok := tierRank[t]
	if !ok {
		return len(tierRank)
	}
	return r
}
