package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cybaemtech/licensedesk/internal/sales/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

const saleCols = `id, client_id, license_id, amount, sold_at, notes, created_at`

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	var notes pgtype.Text
	err := row.Scan(&s.ID, &s.ClientID, &s.LicenseID, &s.Amount, &s.SoldAt, &notes, &s.CreatedAt)
	if err != nil {
		return domain.Sale{}, err
	}
	s.Notes = notes.String
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s domain.Sale) error {
	notes := pgtype.Text{String: s.Notes, Valid: s.Notes != ""}
	_, err := r.pg.Exec(ctx,
		`INSERT INTO sales (id, client_id, license_id, amount, sold_at, notes)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.ClientID, s.LicenseID, s.Amount, s.SoldAt, notes)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Sale, error) {
	s, err := scanSale(r.pg.QueryRow(ctx, `SELECT `+saleCols+` FROM sales WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Sale{}, domain.ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Sale, error) {
	rows, err := r.pg.Query(ctx, `SELECT `+saleCols+` FROM sales WHERE client_id = $1 ORDER BY sold_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list sales by client: %w", err)
	}
	defer rows.Close()

	var items []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]domain.Sale, int64, error) {
	var total int64
	if err := r.pg.QueryRow(ctx, `SELECT count(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.pg.Query(ctx, `SELECT `+saleCols+` FROM sales ORDER BY sold_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var items []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
