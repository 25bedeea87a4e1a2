package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender abstracts the push delivery backend. The exponent SDK types
// leak through on purpose: the admin app is Expo-based and nothing else
// consumes these messages.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}
