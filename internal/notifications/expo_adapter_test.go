package notifications

import (
	"testing"

	"github.com/9ssi7/exponent"
)

// NewExpoAdapter must accept the client exactly as exponent hands it out;
// this pins the constructor signature the API wiring relies on.
func TestNewExpoAdapterWrapsClient(t *testing.T) {
	adapter := NewExpoAdapter(exponent.NewClient())
	if adapter == nil {
		t.Fatal("expected an adapter")
	}
	if adapter.client == nil {
		t.Fatal("adapter holds no client")
	}
}

var _ PushSender = (*ExpoAdapter)(nil)
