package patient

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

const patientCols = `id, nome, ativo, diagnostico_macro, data_referencia, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pacientes (id, nome, ativo, diagnostico_macro, data_referencia)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Nome, p.Ativo, p.DiagnosticoMacro.String(), p.DataReferencia,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM pacientes WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE pacientes SET
			nome=$2, ativo=$3, diagnostico_macro=$4, data_referencia=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Nome, p.Ativo, p.DiagnosticoMacro.String(), p.DataReferencia,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Patient, int, error) {
	where := ""
	if activeOnly {
		where = " WHERE ativo"
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM pacientes`+where+` ORDER BY nome LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		var diag string
		if err := rows.Scan(&p.ID, &p.Nome, &p.Ativo, &diag, &p.DataReferencia, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		p.DiagnosticoMacro = FlexString(diag)
		patients = append(patients, &p)
	}
	return patients, total, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var diag string
	err := row.Scan(&p.ID, &p.Nome, &p.Ativo, &diag, &p.DataReferencia, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.DiagnosticoMacro = FlexString(diag)
	return &p, nil
}
