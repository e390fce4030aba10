package pendency

import "errors"

// Status is the lifecycle state of a pendency. NAO_REALIZADA lives only
// in the session overlay and is never written to the record.
type Status string

const (
	StatusAberta                Status = "ABERTA"
	StatusPreenchida            Status = "PREENCHIDA"
	StatusNaoSeAplica           Status = "NAO_SE_APLICA"
	StatusAplicadaNaoRegistrada Status = "APLICADA_NAO_REGISTRADA"
	StatusNaoRealizada          Status = "NAO_REALIZADA"
	StatusConcluida             Status = "CONCLUIDA"
)

var (
	// ErrMissingServerID guards the NAO_SE_APLICA path: marking a
	// pendency as not applicable is only ever an update to an existing
	// record, never a creation. Raised before any I/O.
	ErrMissingServerID = errors.New("nao-se-aplica requires an existing pendency id")

	// ErrLocked means the pendency already reached a terminal persisted
	// state and accepts no further transitions from this surface.
	ErrLocked = errors.New("pendency is locked in a terminal status")

	// ErrConfirmationRequired gates the APLICADA_NAO_REGISTRADA path
	// behind an explicit user confirmation.
	ErrConfirmationRequired = errors.New("transition requires explicit confirmation")

	// ErrInvalidStatus rejects unknown status literals at the boundary.
	ErrInvalidStatus = errors.New("invalid status")
)

var validStatuses = map[Status]bool{
	StatusAberta:                true,
	StatusPreenchida:            true,
	StatusNaoSeAplica:           true,
	StatusAplicadaNaoRegistrada: true,
	StatusNaoRealizada:          true,
	StatusConcluida:             true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// Terminal reports whether the status is a persisted terminal outcome.
// A terminal status locks the pendency and invalidates any session
// overlay for it.
func (s Status) Terminal() bool {
	switch s {
	case StatusPreenchida, StatusNaoSeAplica, StatusAplicadaNaoRegistrada, StatusConcluida:
		return true
	}
	return false
}

// Actionable reports whether status-changing actions are still offered
// for an item showing this effective status.
func (s Status) Actionable() bool {
	return s == StatusAberta || s == StatusNaoRealizada
}

// EffectiveStatus merges the session overlay with the server record:
// overlay wins when present, absent everything the item reads ABERTA.
func EffectiveStatus(server Status, overlay Status, hasOverlay bool) Status {
	if hasOverlay {
		return overlay
	}
	if server != "" {
		return server
	}
	return StatusAberta
}
