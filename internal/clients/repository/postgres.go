package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cybaemtech/licensedesk/internal/clients/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

func toPgText(s string) pgtype.Text { return pgtype.Text{String: s, Valid: s != ""} }

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	var contact, email, phone pgtype.Text
	err := row.Scan(&c.ID, &c.Name, &contact, &email, &phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Client{}, err
	}
	c.ContactName = contact.String
	c.Email = email.String
	c.Phone = phone.String
	return c, nil
}

const clientCols = `id, name, contact_name, email, phone, is_active, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, c domain.Client) error {
	_, err := r.pg.Exec(ctx,
		`INSERT INTO clients (id, name, contact_name, email, phone, is_active)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, toPgText(c.ContactName), toPgText(c.Email), toPgText(c.Phone), c.IsActive)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	row := r.pg.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Client{}, domain.ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Update(ctx context.Context, c domain.Client) error {
	tag, err := r.pg.Exec(ctx,
		`UPDATE clients SET name = $2, contact_name = $3, email = $4, phone = $5, is_active = $6, updated_at = now()
         WHERE id = $1`,
		c.ID, c.Name, toPgText(c.ContactName), toPgText(c.Email), toPgText(c.Phone), c.IsActive)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pg.Exec(ctx, `UPDATE clients SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, query string, active int, limit, offset int32) ([]domain.Client, int64, error) {
	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = -1 OR is_active = ($2 = 1))`

	var total int64
	if err := r.pg.QueryRow(ctx, `SELECT count(*) FROM clients `+where, query, active).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	rows, err := r.pg.Query(ctx,
		`SELECT `+clientCols+` FROM clients `+where+` ORDER BY name LIMIT $3 OFFSET $4`,
		query, active, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var items []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
