package refcode

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New("test-salt")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	for _, id := range []int64{1, 42, 7_000_000} {
		code, err := c.Encode("ENQ", id)
		if err != nil {
			t.Fatalf("encode %d: %v", id, err)
		}
		if !strings.HasPrefix(code, "ENQ-") {
			t.Fatalf("code %q missing prefix", code)
		}
		got, err := c.Decode("ENQ", code)
		if err != nil {
			t.Fatalf("decode %q: %v", code, err)
		}
		if got != id {
			t.Fatalf("round trip: got %d, want %d", got, id)
		}
	}
}

func TestDecodeRejectsWrongPrefix(t *testing.T) {
	c, _ := New("test-salt")
	code, _ := c.Encode("PRQ", 9)
	if _, err := c.Decode("ENQ", code); err == nil {
		t.Fatal("want error for mismatched prefix")
	}
}

func TestCodesDifferAcrossIDs(t *testing.T) {
	c, _ := New("test-salt")
	a, _ := c.Encode("ENQ", 10)
	b, _ := c.Encode("ENQ", 11)
	if a == b {
		t.Fatalf("ids 10 and 11 produced the same code %q", a)
	}
}

func TestEmptySaltRejected(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("want error for empty salt")
	}
}
