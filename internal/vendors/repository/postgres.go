package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cybaemtech/licensedesk/internal/vendors/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

const vendorCols = `id, name, website, support_email, is_active, created_at, updated_at`

func toPgText(s string) pgtype.Text { return pgtype.Text{String: s, Valid: s != ""} }

func scanVendor(row pgx.Row) (domain.Vendor, error) {
	var v domain.Vendor
	var website, supportEmail pgtype.Text
	err := row.Scan(&v.ID, &v.Name, &website, &supportEmail, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Vendor{}, err
	}
	v.Website = website.String
	v.SupportEmail = supportEmail.String
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v domain.Vendor) error {
	_, err := r.pg.Exec(ctx,
		`INSERT INTO vendors (id, name, website, support_email, is_active)
         VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.Name, toPgText(v.Website), toPgText(v.SupportEmail), v.IsActive)
	if err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error) {
	v, err := scanVendor(r.pg.QueryRow(ctx, `SELECT `+vendorCols+` FROM vendors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return v, err
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (domain.Vendor, error) {
	v, err := scanVendor(r.pg.QueryRow(ctx, `SELECT `+vendorCols+` FROM vendors WHERE lower(name) = lower($1)`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return v, err
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pg.Exec(ctx, `UPDATE vendors SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := r.pg.Query(ctx, `SELECT `+vendorCols+` FROM vendors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var items []domain.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
