package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

// PostgresRepository persists the configuration as one row with a boolean
// column per offset. The column-per-offset shape stays inside this adapter;
// callers only ever see Config.Offsets.
type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

// offsetColumns mirrors domain.KnownOffsets, most distant first.
var offsetColumns = []string{
	"expiry_alert_45",
	"expiry_alert_30",
	"expiry_alert_15",
	"expiry_alert_7",
	"expiry_alert_5",
	"expiry_alert_1",
	"expiry_alert_0",
}

// flagsToOffsets maps column booleans (in offsetColumns order) to the
// enabled offset set.
func flagsToOffsets(flags []bool) []int {
	var offsets []int
	for i, on := range flags {
		if on {
			offsets = append(offsets, domain.KnownOffsets[i])
		}
	}
	return offsets
}

// offsetsToFlags is the reverse mapping.
func offsetsToFlags(offsets []int) []bool {
	flags := make([]bool, len(domain.KnownOffsets))
	for _, o := range offsets {
		for i, k := range domain.KnownOffsets {
			if k == o {
				flags[i] = true
			}
		}
	}
	return flags
}

func (r *PostgresRepository) Latest(ctx context.Context) (domain.Config, bool, error) {
	row := r.pg.QueryRow(ctx, `
        SELECT expiry_alert_45, expiry_alert_30, expiry_alert_15, expiry_alert_7,
               expiry_alert_5, expiry_alert_1, expiry_alert_0,
               is_enabled, notification_time, timezone, updated_at
        FROM notification_settings
        ORDER BY created_at DESC
        LIMIT 1`)

	flags := make([]bool, len(offsetColumns))
	var c domain.Config
	err := row.Scan(&flags[0], &flags[1], &flags[2], &flags[3], &flags[4], &flags[5], &flags[6],
		&c.Enabled, &c.NotifyAt, &c.Timezone, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Config{}, false, nil
	}
	if err != nil {
		return domain.Config{}, false, fmt.Errorf("load notification settings row: %w", err)
	}
	c.Offsets = flagsToOffsets(flags)
	return c, true, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c domain.Config) error {
	flags := offsetsToFlags(c.Offsets)

	tag, err := r.pg.Exec(ctx, `
        UPDATE notification_settings
        SET expiry_alert_45 = $1, expiry_alert_30 = $2, expiry_alert_15 = $3,
            expiry_alert_7 = $4, expiry_alert_5 = $5, expiry_alert_1 = $6, expiry_alert_0 = $7,
            is_enabled = $8, notification_time = $9, timezone = $10, updated_at = now()
        WHERE id = (SELECT id FROM notification_settings ORDER BY created_at DESC LIMIT 1)`,
		flags[0], flags[1], flags[2], flags[3], flags[4], flags[5], flags[6],
		c.Enabled, c.NotifyAt, c.Timezone)
	if err != nil {
		return fmt.Errorf("update notification settings: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	_, err = r.pg.Exec(ctx, `
        INSERT INTO notification_settings
            (id, expiry_alert_45, expiry_alert_30, expiry_alert_15, expiry_alert_7,
             expiry_alert_5, expiry_alert_1, expiry_alert_0, is_enabled, notification_time, timezone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.New(),
		flags[0], flags[1], flags[2], flags[3], flags[4], flags[5], flags[6],
		c.Enabled, c.NotifyAt, c.Timezone)
	if err != nil {
		return fmt.Errorf("insert notification settings: %w", err)
	}
	return nil
}
