package refcode

import (
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

// Codec turns row ids into short public reference codes like ENQ-7K2M9XQA.
// Codes are stable for a given salt, so the same id always yields the same
// code, and decode recovers the id for lookups.
type Codec struct {
	h *hashids.HashID
}

// Alphabet skips 0/O/1/I to keep codes readable over the phone.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func New(salt string) (*Codec, error) {
	if salt == "" {
		return nil, fmt.Errorf("refcode salt must not be empty")
	}

	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 8
	data.Alphabet = alphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("init hashids: %w", err)
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(prefix string, id int64) (string, error) {
	code, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("encode reference: %w", err)
	}
	return prefix + "-" + code, nil
}

func (c *Codec) Decode(prefix, code string) (int64, error) {
	raw, ok := strings.CutPrefix(code, prefix+"-")
	if !ok {
		return 0, fmt.Errorf("reference %q does not carry prefix %s", code, prefix)
	}
	ids, err := c.h.DecodeInt64WithError(raw)
	if err != nil {
		return 0, fmt.Errorf("decode reference: %w", err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("reference %q is malformed", code)
	}
	return ids[0], nil
}
