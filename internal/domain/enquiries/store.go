package enquiries

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/infra/dbx"
	"bazaar/internal/refcode"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrEnquiryClosed   = errors.New("enquiry is closed")
)

const refPrefix = "ENQ"

type Store interface {
	Create(ctx context.Context, e *Enquiry, firstMessage string) (*Enquiry, error)
	GetByID(ctx context.Context, id int64) (*Enquiry, error)
	GetByReference(ctx context.Context, reference string) (*Enquiry, error)
	GetThread(ctx context.Context, id int64) (*Thread, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*Enquiry, int, error)
	AddMessage(ctx context.Context, enquiryID int64, sender Sender, body string) (*Message, error)
	SetStatus(ctx context.Context, id int64, status Status) error
}

type Repository struct {
	db    dbx.Querier
	codes *refcode.Codec
}

func NewRepository(q dbx.Querier, codes *refcode.Codec) Store {
	return &Repository{db: q, codes: codes}
}

const enquiryColumns = `id, reference, customer_name, email, phone, subject, status, created_at, updated_at`

func scanEnquiry(row pgx.Row, e *Enquiry) error {
	return row.Scan(&e.ID, &e.Reference, &e.CustomerName, &e.Email, &e.Phone,
		&e.Subject, &e.Status, &e.CreatedAt, &e.UpdatedAt)
}

// Create inserts the enquiry, derives its public reference from the new row
// id and stores the opening message, all inside one transaction.
func (r *Repository) Create(ctx context.Context, e *Enquiry, firstMessage string) (*Enquiry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created := &Enquiry{}
	row := tx.QueryRow(ctx, `
		INSERT INTO enquiries (reference, customer_name, email, phone, subject, status)
		VALUES ('', $1, $2, $3, $4, 'open')
		RETURNING `+enquiryColumns+`;
	`, e.CustomerName, e.Email, e.Phone, e.Subject)
	if err := scanEnquiry(row, created); err != nil {
		return nil, fmt.Errorf("create enquiry: %w", err)
	}

	reference, err := r.codes.Encode(refPrefix, created.ID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE enquiries SET reference = $1 WHERE id = $2`, reference, created.ID); err != nil {
		return nil, fmt.Errorf("set reference: %w", err)
	}
	created.Reference = reference

	if firstMessage != "" {
		if _, err := tx.Exec(ctx, `
			INSERT INTO enquiry_messages (enquiry_id, sender, body)
			VALUES ($1, 'customer', $2)`, created.ID, firstMessage); err != nil {
			return nil, fmt.Errorf("create opening message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Enquiry, error) {
	e := &Enquiry{}
	err := scanEnquiry(r.db.QueryRow(ctx,
		`SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1;`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("get enquiry: %w", err)
	}
	return e, nil
}

func (r *Repository) GetByReference(ctx context.Context, reference string) (*Enquiry, error) {
	id, err := r.codes.Decode(refPrefix, reference)
	if err != nil {
		return nil, ErrEnquiryNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetThread(ctx context.Context, id int64) (*Thread, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, enquiry_id, sender, body, created_at
		FROM enquiry_messages
		WHERE enquiry_id = $1
		ORDER BY created_at ASC, id ASC;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.EnquiryID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &Thread{Enquiry: e, Messages: messages}, nil
}

func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]*Enquiry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + enquiryColumns + `, COUNT(*) OVER() AS total_count
		FROM enquiries
		WHERE ($1 = '' OR status = $1)
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	var list []*Enquiry
	var totalCount int
	for rows.Next() {
		var e Enquiry
		if err := rows.Scan(&e.ID, &e.Reference, &e.CustomerName, &e.Email, &e.Phone,
			&e.Subject, &e.Status, &e.CreatedAt, &e.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan enquiry: %w", err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return list, totalCount, nil
}

func (r *Repository) AddMessage(ctx context.Context, enquiryID int64, sender Sender, body string) (*Message, error) {
	e, err := r.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if e.Status == StatusClosed {
		return nil, ErrEnquiryClosed
	}

	m := &Message{}
	row := r.db.QueryRow(ctx, `
		INSERT INTO enquiry_messages (enquiry_id, sender, body)
		VALUES ($1, $2, $3)
		RETURNING id, enquiry_id, sender, body, created_at;
	`, enquiryID, sender, body)
	if err := row.Scan(&m.ID, &m.EnquiryID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`UPDATE enquiries SET updated_at = now() WHERE id = $1`, enquiryID); err != nil {
		return nil, fmt.Errorf("touch enquiry: %w", err)
	}

	return m, nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE enquiries SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set enquiry status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}
