package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

// Storage is the legacy-style database/sql store. The media-asset ledger
// lives here: every cloudinary upload is recorded so storage usage can be
// aggregated without round-tripping the object-storage admin API.
type Storage struct {
	MediaAssets interface {
		Record(context.Context, *MediaAsset) error
		Remove(context.Context, string) error
		GetByPublicID(context.Context, string) (*MediaAsset, error)
		UsageByBucket(context.Context) ([]BucketUsage, error)
		TotalUsage(context.Context) (*UsageSummary, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		MediaAssets: &MediaAssetsStore{db},
	}
}
