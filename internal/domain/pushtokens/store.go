package pushtokens

import (
	"context"
	"fmt"
	"time"

	"bazaar/internal/infra/dbx"
)

// DeviceToken is an Expo push token for an admin device. New enquiries are
// announced to every active token.
type DeviceToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Register(ctx context.Context, token, platform string) (*DeviceToken, error)
	Deactivate(ctx context.Context, token string) error
	ListActive(ctx context.Context) ([]string, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// Register upserts by token value so re-registering a device is harmless.
func (r *Repository) Register(ctx context.Context, token, platform string) (*DeviceToken, error) {
	t := &DeviceToken{}
	row := r.db.QueryRow(ctx, `
		INSERT INTO admin_device_tokens (token, platform, active)
		VALUES ($1, $2, true)
		ON CONFLICT (token) DO UPDATE SET platform = EXCLUDED.platform, active = true
		RETURNING id, token, platform, active, created_at;
	`, token, platform)
	if err := row.Scan(&t.ID, &t.Token, &t.Platform, &t.Active, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("register device token: %w", err)
	}
	return t, nil
}

func (r *Repository) Deactivate(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE admin_device_tokens SET active = false WHERE token = $1`, token); err != nil {
		return fmt.Errorf("deactivate device token: %w", err)
	}
	return nil
}

func (r *Repository) ListActive(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT token FROM admin_device_tokens WHERE active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tokens, nil
}
