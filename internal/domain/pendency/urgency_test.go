package pendency

import (
	"testing"
	"time"
)

func TestClassifyHours_Boundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  UrgencyTier
	}{
		{0, TierNormal},
		{12, TierNormal},
		{23.99, TierNormal},
		{24, TierAtencao}, // boundary belongs to the higher tier
		{30, TierAtencao},
		{35.99, TierAtencao},
		{36, TierAlerta},
		{47.99, TierAlerta},
		{48, TierUrgente},
		{100, TierUrgente},
		{119.99, TierUrgente},
		{120, TierCritico},
		{500, TierCritico},
		{-5, TierNormal}, // future end time clamps to zero
	}
	for _, tc := range cases {
		if got := ClassifyHours(tc.hours); got != tc.want {
			t.Errorf("ClassifyHours(%v) = %s, want %s", tc.hours, got, tc.want)
		}
	}
}

func TestParseEndTime_Formats(t *testing.T) {
	valid := []string{
		"2026-08-30T14:00:00Z",
		"2026-08-30T14:00:00.123Z",
		"2026-08-30T14:00:00-03:00",
		"2026-08-30T14:00:00",
		"2026-08-30T14:00:00.500",
		"2026-08-30 14:00:00",
		"2026-08-30",
	}
	for _, raw := range valid {
		if _, ok := ParseEndTime(raw); !ok {
			t.Errorf("ParseEndTime(%q) should parse", raw)
		}
	}

	invalid := []string{"", "   ", "nunca", "30/08/2026", "2026-13-45T99:00:00"}
	for _, raw := range invalid {
		if _, ok := ParseEndTime(raw); ok {
			t.Errorf("ParseEndTime(%q) should fail", raw)
		}
	}
}

func TestClassifyEndTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		raw  string
		want UrgencyTier
	}{
		{"2026-08-30T10:00:00Z", TierNormal},   // 2h
		{"2026-08-29T12:00:00Z", TierAtencao},  // 24h exactly
		{"2026-08-28T20:00:00Z", TierAlerta},   // 40h
		{"2026-08-27T12:00:00Z", TierUrgente},  // 72h
		{"2026-08-20T12:00:00Z", TierCritico},  // 240h
		{"2026-08-31T12:00:00Z", TierNormal},   // future, clamped
		{"sem data", TierSemDados},
		{"", TierSemDados},
	}
	for _, tc := range cases {
		if got := ClassifyEndTime(tc.raw, now); got != tc.want {
			t.Errorf("ClassifyEndTime(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestClassifyEndTime_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	raw := "2026-08-28T12:00:00Z"
	first := ClassifyEndTime(raw, now)
	for i := 0; i < 10; i++ {
		if got := ClassifyEndTime(raw, now); got != first {
			t.Fatalf("classifier not deterministic: %s then %s", first, got)
		}
	}
}

func TestTierRank_PlaceholderSortsLast(t *testing.T) {
	if TierSemDados.Rank() <= TierNormal.Rank() {
		t.Error("sem_dados must rank after every real tier")
	}
	if TierCritico.Rank() >= TierNormal.Rank() {
		t.Error("critico must rank before normal")
	}
}
