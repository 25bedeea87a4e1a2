package enquiries

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAdmin    Sender = "admin"
)

// Enquiry is one customer thread. Reference is the public code customers
// quote back (ENQ-…); it is derived from the row id after insert.
type Enquiry struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Subject      string    `json:"subject"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	EnquiryID int64     `json:"enquiry_id"`
	Sender    Sender    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread bundles an enquiry with its full message history for the admin
// chat view.
type Thread struct {
	Enquiry  *Enquiry   `json:"enquiry"`
	Messages []*Message `json:"messages"`
}
