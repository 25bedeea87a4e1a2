package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bazaar/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

// NotifyNewEnquiry - alert every registered admin device that a customer enquiry landed.
func NotifyNewEnquiry(ctx context.Context, push PushSender, store *storage.Container, enquiryID int64, reference, customerName string) error {
	tokens, err := store.PushTokens.ListActive(ctx)
	if err != nil {
		return err
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	title := "New customer enquiry"
	body := fmt.Sprintf("%s opened enquiry %s", customerName, reference)
	screen := fmt.Sprintf("enquiries/%s", strconv.FormatInt(enquiryID, 10))
	for _, t := range tokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       "new_enquiry",
				"enquiry_id": strconv.FormatInt(enquiryID, 10),
				"screen":     screen,
				//admin app does router.push(`/${data.screen}`)
			},
		}
		msgs = append(msgs, msg)
	}
	if _, err := push.Publish(ctx, msgs); err != nil {
		return err
	}
	return nil
}

// NotifyEnquiryReply - alert admin devices that a customer replied on an open thread.
func NotifyEnquiryReply(ctx context.Context, push PushSender, store *storage.Container, enquiryID int64, reference string) error {
	tokens, err := store.PushTokens.ListActive(ctx)
	if err != nil {
		return err
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	title := "Enquiry reply"
	body := fmt.Sprintf("New message on enquiry %s", reference)
	screen := fmt.Sprintf("enquiries/%s", strconv.FormatInt(enquiryID, 10))
	for _, t := range tokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       "enquiry_reply",
				"enquiry_id": strconv.FormatInt(enquiryID, 10),
				"screen":     screen,
			},
		}
		msgs = append(msgs, msg)
	}
	if _, err := push.Publish(ctx, msgs); err != nil {
		return err
	}
	return nil
}

// NotifyNewPrintRequest - alert admin devices that a print request needs quoting.
func NotifyNewPrintRequest(ctx context.Context, push PushSender, store *storage.Container, requestID int64, reference string) error {
	tokens, err := store.PushTokens.ListActive(ctx)
	if err != nil {
		return err
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	title := "Print request awaiting quote"
	body := fmt.Sprintf("Request %s is pending", reference)
	screen := fmt.Sprintf("print-requests/%s", strconv.FormatInt(requestID, 10))
	for _, t := range tokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       "new_print_request",
				"request_id": strconv.FormatInt(requestID, 10),
				"screen":     screen,
			},
		}
		msgs = append(msgs, msg)
	}
	if _, err := push.Publish(ctx, msgs); err != nil {
		return err
	}
	return nil
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
