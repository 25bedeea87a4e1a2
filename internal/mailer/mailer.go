package mailer

import "embed"

const (
	FromName                = "Bazaar"
	maxRetires              = 3
	EnquiryReceivedTemplate = "enquiry_received.tmpl"
	QuoteReadyTemplate      = "quote_ready.tmpl"
	PrintRequestAckTemplate = "print_request_ack.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
