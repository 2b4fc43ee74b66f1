package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cybaemtech/licensedesk/internal/licenses/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

const licenseCols = `id, client_id, vendor_id, tool_name, license_key, seats, expires_at, is_active, created_at, updated_at`

func toPgUUIDPtr(u *uuid.UUID) pgtype.UUID {
	if u == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *u, Valid: true}
}

func toPgText(s string) pgtype.Text { return pgtype.Text{String: s, Valid: s != ""} }

func toPgInt4Ptr(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func scanLicense(row pgx.Row) (domain.License, error) {
	var l domain.License
	var vendorID pgtype.UUID
	var key pgtype.Text
	var seats pgtype.Int4
	var expires pgtype.Date
	err := row.Scan(&l.ID, &l.ClientID, &vendorID, &l.ToolName, &key, &seats, &expires, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.License{}, err
	}
	if vendorID.Valid {
		v := uuid.UUID(vendorID.Bytes)
		l.VendorID = &v
	}
	l.LicenseKey = key.String
	if seats.Valid {
		n := int(seats.Int32)
		l.Seats = &n
	}
	if expires.Valid {
		t := expires.Time
		l.ExpiresAt = &t
	}
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l domain.License) error {
	var expires pgtype.Date
	if l.ExpiresAt != nil {
		expires = pgtype.Date{Time: *l.ExpiresAt, Valid: true}
	}
	_, err := r.pg.Exec(ctx,
		`INSERT INTO licenses (id, client_id, vendor_id, tool_name, license_key, seats, expires_at, is_active)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.ClientID, toPgUUIDPtr(l.VendorID), l.ToolName, toPgText(l.LicenseKey), toPgInt4Ptr(l.Seats), expires, l.IsActive)
	if err != nil {
		return fmt.Errorf("create license: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.License, error) {
	l, err := scanLicense(r.pg.QueryRow(ctx, `SELECT `+licenseCols+` FROM licenses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.License{}, domain.ErrNotFound
	}
	return l, err
}

func (r *PostgresRepository) Update(ctx context.Context, l domain.License) error {
	var expires pgtype.Date
	if l.ExpiresAt != nil {
		expires = pgtype.Date{Time: *l.ExpiresAt, Valid: true}
	}
	tag, err := r.pg.Exec(ctx,
		`UPDATE licenses
         SET client_id = $2, vendor_id = $3, tool_name = $4, license_key = $5,
             seats = $6, expires_at = $7, is_active = $8, updated_at = now()
         WHERE id = $1`,
		l.ID, l.ClientID, toPgUUIDPtr(l.VendorID), l.ToolName, toPgText(l.LicenseKey), toPgInt4Ptr(l.Seats), expires, l.IsActive)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pg.Exec(ctx, `UPDATE licenses SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.License, int64, error) {
	where := `WHERE ($1::uuid IS NULL OR client_id = $1)
          AND ($2::uuid IS NULL OR vendor_id = $2)
          AND ($3 = -1 OR is_active = ($3 = 1))`
	limit := int32(opts.PageSize)
	offset := int32((opts.Page - 1) * opts.PageSize)

	var total int64
	if err := r.pg.QueryRow(ctx, `SELECT count(*) FROM licenses `+where,
		toPgUUIDPtr(opts.ClientID), toPgUUIDPtr(opts.VendorID), opts.Active).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count licenses: %w", err)
	}

	rows, err := r.pg.Query(ctx,
		`SELECT `+licenseCols+` FROM licenses `+where+` ORDER BY expires_at NULLS LAST, tool_name LIMIT $4 OFFSET $5`,
		toPgUUIDPtr(opts.ClientID), toPgUUIDPtr(opts.VendorID), opts.Active, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var items []domain.License
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}
