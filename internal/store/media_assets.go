package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MediaAsset is one uploaded object: the bucket (cloudinary folder) it went
// to, its public id, byte size and the public URL stored back on rows.
type MediaAsset struct {
	ID           int64     `json:"id"`
	Bucket       string    `json:"bucket"`
	PublicID     string    `json:"public_id"`
	URL          string    `json:"url"`
	ResourceType string    `json:"resource_type"` // image or video
	Bytes        int64     `json:"bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// BucketUsage is the per-bucket aggregation shown on the storage dashboard.
type BucketUsage struct {
	Bucket     string `json:"bucket"`
	FileCount  int    `json:"file_count"`
	TotalBytes int64  `json:"total_bytes"`
}

type UsageSummary struct {
	FileCount  int   `json:"file_count"`
	TotalBytes int64 `json:"total_bytes"`
}

type MediaAssetsStore struct {
	db *sql.DB
}

func (s *MediaAssetsStore) Record(ctx context.Context, a *MediaAsset) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO media_assets (bucket, public_id, url, resource_type, bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	err := s.db.QueryRowContext(ctx, query,
		a.Bucket, a.PublicID, a.URL, a.ResourceType, a.Bytes,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("record media asset: %w", err)
	}
	return nil
}

func (s *MediaAssetsStore) Remove(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM media_assets WHERE public_id = $1`, publicID)
	if err != nil {
		return fmt.Errorf("remove media asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MediaAssetsStore) GetByPublicID(ctx context.Context, publicID string) (*MediaAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	a := &MediaAsset{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, bucket, public_id, url, resource_type, bytes, created_at
		FROM media_assets WHERE public_id = $1`, publicID,
	).Scan(&a.ID, &a.Bucket, &a.PublicID, &a.URL, &a.ResourceType, &a.Bytes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get media asset: %w", err)
	}
	return a, nil
}

func (s *MediaAssetsStore) UsageByBucket(ctx context.Context) ([]BucketUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT bucket, COUNT(*), COALESCE(SUM(bytes), 0)
		FROM media_assets
		GROUP BY bucket
		ORDER BY bucket;
	`)
	if err != nil {
		return nil, fmt.Errorf("usage by bucket: %w", err)
	}
	defer rows.Close()

	var usage []BucketUsage
	for rows.Next() {
		var u BucketUsage
		if err := rows.Scan(&u.Bucket, &u.FileCount, &u.TotalBytes); err != nil {
			return nil, fmt.Errorf("scan bucket usage: %w", err)
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return usage, nil
}

func (s *MediaAssetsStore) TotalUsage(ctx context.Context) (*UsageSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u := &UsageSummary{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(bytes), 0) FROM media_assets`,
	).Scan(&u.FileCount, &u.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("total usage: %w", err)
	}
	return u, nil
}
