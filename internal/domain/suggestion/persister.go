package suggestion

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/pendency"
)

// PendencyCreator is the single write path into the pendency store.
type PendencyCreator interface {
	Create(ctx context.Context, p *pendency.Pendency) error
}

// BatchResult aggregates one batch save. A duplicate is accepted, not
// failed: the obligation already exists, which is what the user wanted.
type BatchResult struct {
	Criadas    int `json:"criadas"`
	JaExistiam int `json:"jaExistiam"`
	Falhas     int `json:"falhas"`
}

// Accepted reports whether every draft ended as created or
// already-exists.
func (r BatchResult) Accepted() bool { return r.Falhas == 0 }

// Persister submits staged drafts, each independently and all
// concurrently, so batch latency is bounded by the slowest request
// rather than the sum. A failure on one draft never affects siblings
// and nothing is rolled back.
type Persister struct {
	creator     PendencyCreator
	isDuplicate pendency.ConflictClassifier
	logger      zerolog.Logger
	now         func() time.Time
}

func NewPersister(creator PendencyCreator, classifier pendency.ConflictClassifier, logger zerolog.Logger) *Persister {
	if classifier == nil {
		classifier = pendency.DefaultConflictClassifier
	}
	return &Persister{
		creator:     creator,
		isDuplicate: classifier,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source, for tests.
func (p *Persister) SetClock(now func() time.Time) { p.now = now }

func (p *Persister) Persist(ctx context.Context, drafts []Suggestion) BatchResult {
	var (
		mu     sync.Mutex
		result BatchResult
		wg     sync.WaitGroup
	)

	createdAt := p.now()
	for _, draft := range drafts {
		wg.Add(1)
		go func(d Suggestion) {
			defer wg.Done()

			ref := pendency.NormalizeReferenceDate(d.DataReferencia)
			record := &pendency.Pendency{
				PacienteID:       d.PacienteID,
				FormularioID:     d.FormularioID,
				AgendamentoID:    d.AgendamentoID,
				DiagnosticoMacro: d.DiagnosticoMacro,
				Especialidade:    d.Especialidade,
				Status:           pendency.StatusAberta,
				CriadaEm:         createdAt,
				DataReferencia:   &ref,
			}

			err := p.creator.Create(ctx, record)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Criadas++
			case p.isDuplicate(err):
				result.JaExistiam++
			default:
				result.Falhas++
				p.logger.Error().
					Err(err).
					Str("paciente_id", d.PacienteID.String()).
					Str("formulario_id", d.FormularioID.String()).
					Msg("pendency creation failed")
			}
		}(draft)
	}
	wg.Wait()

	return result
}
