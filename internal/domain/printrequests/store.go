package printrequests

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/infra/dbx"
	"bazaar/internal/refcode"

	"github.com/jackc/pgx/v5"
)

var ErrRequestNotFound = errors.New("print request not found")

const refPrefix = "PRQ"

type Store interface {
	Create(ctx context.Context, p *PrintRequest) (*PrintRequest, error)
	GetByID(ctx context.Context, id int64) (*PrintRequest, error)
	GetByReference(ctx context.Context, reference string) (*PrintRequest, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*PrintRequest, int, error)
	Quote(ctx context.Context, id int64, amountCents int64) (*PrintRequest, error)
	SetStatus(ctx context.Context, id int64, status Status) (*PrintRequest, error)
}

type Repository struct {
	db    dbx.Querier
	codes *refcode.Codec
}

func NewRepository(q dbx.Querier, codes *refcode.Codec) Store {
	return &Repository{db: q, codes: codes}
}

const requestColumns = `id, reference, customer_name, email, description, artwork_url,
	quantity, status, quote_cents, quoted_at, created_at, updated_at`

func scanRequest(row pgx.Row, p *PrintRequest) error {
	return row.Scan(&p.ID, &p.Reference, &p.CustomerName, &p.Email, &p.Description,
		&p.ArtworkURL, &p.Quantity, &p.Status, &p.QuoteCents, &p.QuotedAt,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) Create(ctx context.Context, p *PrintRequest) (*PrintRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created := &PrintRequest{}
	row := tx.QueryRow(ctx, `
		INSERT INTO print_requests (reference, customer_name, email, description, artwork_url, quantity, status)
		VALUES ('', $1, $2, $3, $4, $5, 'pending')
		RETURNING `+requestColumns+`;
	`, p.CustomerName, p.Email, p.Description, p.ArtworkURL, p.Quantity)
	if err := scanRequest(row, created); err != nil {
		return nil, fmt.Errorf("create print request: %w", err)
	}

	reference, err := r.codes.Encode(refPrefix, created.ID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE print_requests SET reference = $1 WHERE id = $2`, reference, created.ID); err != nil {
		return nil, fmt.Errorf("set reference: %w", err)
	}
	created.Reference = reference

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*PrintRequest, error) {
	p := &PrintRequest{}
	err := scanRequest(r.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM print_requests WHERE id = $1;`, id), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get print request: %w", err)
	}
	return p, nil
}

func (r *Repository) GetByReference(ctx context.Context, reference string) (*PrintRequest, error) {
	id, err := r.codes.Decode(refPrefix, reference)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]*PrintRequest, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + requestColumns + `, COUNT(*) OVER() AS total_count
		FROM print_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list print requests: %w", err)
	}
	defer rows.Close()

	var list []*PrintRequest
	var totalCount int
	for rows.Next() {
		var p PrintRequest
		if err := rows.Scan(&p.ID, &p.Reference, &p.CustomerName, &p.Email, &p.Description,
			&p.ArtworkURL, &p.Quantity, &p.Status, &p.QuoteCents, &p.QuotedAt,
			&p.CreatedAt, &p.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan print request: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return list, totalCount, nil
}

// Quote validates the transition in Go (ApplyQuote) and persists the result.
func (r *Repository) Quote(ctx context.Context, id int64, amountCents int64) (*PrintRequest, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyQuote(amountCents); err != nil {
		return nil, err
	}

	updated := &PrintRequest{}
	row := r.db.QueryRow(ctx, `
		UPDATE print_requests
		SET status = $1, quote_cents = $2, quoted_at = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+requestColumns+`;
	`, p.Status, p.QuoteCents, p.QuotedAt, id)
	if err := scanRequest(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("quote print request: %w", err)
	}
	return updated, nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) (*PrintRequest, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Transition(status); err != nil {
		return nil, err
	}

	updated := &PrintRequest{}
	row := r.db.QueryRow(ctx, `
		UPDATE print_requests
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+requestColumns+`;
	`, p.Status, id)
	if err := scanRequest(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("update print request status: %w", err)
	}
	return updated, nil
}
