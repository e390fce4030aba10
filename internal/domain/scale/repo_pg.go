package scale

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

const assocCols = `id, formulario_id, nome, diagnosticos, especialidades, significado, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Association) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO escala_associacoes (id, formulario_id, nome, diagnosticos, especialidades, significado)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.FormularioID, a.Nome, []string(a.Diagnosticos), []string(a.Especialidades), a.Significado,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Association, error) {
	return scanAssoc(r.conn(ctx).QueryRow(ctx, `SELECT `+assocCols+` FROM escala_associacoes WHERE id = $1`, id))
}

func (r *repoPG) GetByFormID(ctx context.Context, formID uuid.UUID) (*Association, error) {
	return scanAssoc(r.conn(ctx).QueryRow(ctx, `SELECT `+assocCols+` FROM escala_associacoes WHERE formulario_id = $1`, formID))
}

func (r *repoPG) Update(ctx context.Context, a *Association) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE escala_associacoes SET
			nome=$2, diagnosticos=$3, especialidades=$4, significado=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Nome, []string(a.Diagnosticos), []string(a.Especialidades), a.Significado,
	)
	return err
}

func (r *repoPG) DeleteByFormID(ctx context.Context, formID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM escala_associacoes WHERE formulario_id = $1`, formID)
	return err
}

func (r *repoPG) List(ctx context.Context) ([]*Association, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+assocCols+` FROM escala_associacoes ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []*Association
	for rows.Next() {
		var a Association
		var diags, esps []string
		if err := rows.Scan(&a.ID, &a.FormularioID, &a.Nome, &diags, &esps, &a.Significado, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Diagnosticos = StringList(diags)
		a.Especialidades = StringList(esps)
		assocs = append(assocs, &a)
	}
	return assocs, nil
}

func scanAssoc(row pgx.Row) (*Association, error) {
	var a Association
	var diags, esps []string
	err := row.Scan(&a.ID, &a.FormularioID, &a.Nome, &diags, &esps, &a.Significado, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Diagnosticos = StringList(diags)
	a.Especialidades = StringList(esps)
	return &a, nil
}
