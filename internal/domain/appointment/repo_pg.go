package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thmestatistica/apollo-pendencias/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, seq, paciente_id, inicio, fim, status_atendimento,
	especialidade_slot, especialidades_profissional, created_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO agendamentos (
			id, paciente_id, inicio, fim, status_atendimento,
			especialidade_slot, especialidades_profissional
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING seq`,
		a.ID, a.PacienteID, a.Inicio, a.Fim, a.StatusAtendimento,
		a.EspecialidadeSlot, []string(a.EspecialidadesProfissional),
	).Scan(&a.Seq)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM agendamentos WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM agendamentos WHERE paciente_id = $1 ORDER BY seq DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		var esps []string
		err := rows.Scan(&a.ID, &a.Seq, &a.PacienteID, &a.Inicio, &a.Fim, &a.StatusAtendimento,
			&a.EspecialidadeSlot, &esps, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		a.EspecialidadesProfissional = FlexStrings(esps)
		appts = append(appts, &a)
	}
	return appts, nil
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var esps []string
	err := row.Scan(&a.ID, &a.Seq, &a.PacienteID, &a.Inicio, &a.Fim, &a.StatusAtendimento,
		&a.EspecialidadeSlot, &esps, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.EspecialidadesProfissional = FlexStrings(esps)
	return &a, nil
}
