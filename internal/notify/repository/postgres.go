package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cybaemtech/licensedesk/internal/notify/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

// ListActive returns active licenses that carry an expiration date,
// joined to their owning clients. Licenses without a date can never be
// due and are filtered at the query.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]domain.ExpiringLicense, error) {
	rows, err := r.pg.Query(ctx, `
        SELECT l.id, l.tool_name, COALESCE(v.name, ''), l.expires_at,
               c.id, c.name, COALESCE(c.email, '')
        FROM licenses l
        JOIN clients c ON c.id = l.client_id
        LEFT JOIN vendors v ON v.id = l.vendor_id
        WHERE l.is_active AND l.expires_at IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query active licenses: %w", err)
	}
	defer rows.Close()

	var out []domain.ExpiringLicense
	for rows.Next() {
		var el domain.ExpiringLicense
		var expires pgtype.Date
		if err := rows.Scan(&el.LicenseID, &el.ToolName, &el.Vendor, &expires,
			&el.ClientID, &el.ClientName, &el.ClientEmail); err != nil {
			return nil, err
		}
		el.ExpiresAt = expires.Time
		out = append(out, el)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AlreadyNotified(ctx context.Context, licenseID uuid.UUID, daysUntilExpiry int) (bool, error) {
	var exists bool
	err := r.pg.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM license_notifications
            WHERE license_id = $1 AND days_until_expiry = $2
        )`, licenseID, daysUntilExpiry).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query send ledger: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Record(ctx context.Context, rec domain.SendRecord) error {
	_, err := r.pg.Exec(ctx, `
        INSERT INTO license_notifications (id, license_id, recipient, days_until_expiry, sent_at)
        VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.LicenseID, rec.Recipient, rec.DaysUntilExpiry, rec.SentAt)
	if err != nil {
		return fmt.Errorf("insert send ledger row: %w", err)
	}
	return nil
}
