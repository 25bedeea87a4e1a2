package storage

import (
	"bazaar/internal/domain/catalog"
	"bazaar/internal/domain/enquiries"
	"bazaar/internal/domain/printrequests"
	"bazaar/internal/domain/pushtokens"
	"bazaar/internal/refcode"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container aggregates the pgx-backed domain repositories behind their
// Store interfaces so handlers depend on behavior, not on pgx.
type Container struct {
	Catalog       catalog.Store
	Enquiries     enquiries.Store
	PrintRequests printrequests.Store
	PushTokens    pushtokens.Store
}

func NewContainer(db *pgxpool.Pool, codes *refcode.Codec) *Container {
	return &Container{
		Catalog:       catalog.NewRepository(db),
		Enquiries:     enquiries.NewRepository(db, codes),
		PrintRequests: printrequests.NewRepository(db, codes),
		PushTokens:    pushtokens.NewRepository(db),
	}
}
