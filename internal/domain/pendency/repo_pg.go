package pendency

import (
	"context"
	"fmt"
	"time"

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

const pendencyCols = `id, paciente_id, formulario_id, agendamento_id, diagnostico_macro,
	especialidade, status, criada_em, resolvida_em, data_referencia`

// Create inserts a pendency. A unique index over
// (paciente_id, formulario_id, agendamento_id) makes repeated creation
// attempts surface as SQLSTATE 23505, which the conflict classifier
// turns into an already-exists outcome.
func (r *repoPG) Create(ctx context.Context, p *Pendency) error {
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = StatusAberta
	}
	if p.CriadaEm.IsZero() {
		p.CriadaEm = time.Now().UTC()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pendencias (
			id, paciente_id, formulario_id, agendamento_id, diagnostico_macro,
			especialidade, status, criada_em, resolvida_em, data_referencia
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.PacienteID, p.FormularioID, p.AgendamentoID, p.DiagnosticoMacro,
		p.Especialidade, p.Status, p.CriadaEm, p.ResolvidaEm, p.DataReferencia,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Pendency, error) {
	return scanPendency(r.conn(ctx).QueryRow(ctx, `SELECT `+pendencyCols+` FROM pendencias WHERE id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, resolvedAt *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE pendencias SET status=$2, resolvida_em=$3 WHERE id = $1`,
		id, status, resolvedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pendency %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Pendency, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.PacienteID != uuid.Nil {
		args = append(args, filter.PacienteID)
		where += fmt.Sprintf(" AND paciente_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM pendencias`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+pendencyCols+` FROM pendencias`+where+
			fmt.Sprintf(` ORDER BY criada_em DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var pendencies []*Pendency
	for rows.Next() {
		var p Pendency
		err := rows.Scan(&p.ID, &p.PacienteID, &p.FormularioID, &p.AgendamentoID, &p.DiagnosticoMacro,
			&p.Especialidade, &p.Status, &p.CriadaEm, &p.ResolvidaEm, &p.DataReferencia)
		if err != nil {
			return nil, 0, err
		}
		pendencies = append(pendencies, &p)
	}
	return pendencies, total, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM pendencias WHERE id = $1`, id)
	return err
}

func scanPendency(row pgx.Row) (*Pendency, error) {
	var p Pendency
	err := row.Scan(&p.ID, &p.PacienteID, &p.FormularioID, &p.AgendamentoID, &p.DiagnosticoMacro,
		&p.Especialidade, &p.Status, &p.CriadaEm, &p.ResolvidaEm, &p.DataReferencia)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
