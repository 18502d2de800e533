// Package pagination defines the opaque cursor used to page through metrics
// rows and deal previews.
package pagination

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cursor is the canonical, opaque pagination token (pre-encoding) with short
// field names to minimize payload size. It is serialized to minified JSON and
// encoded with URL-safe base64.
//
// Fields:
//   - v:   version of the cursor schema
//   - did: dataset ID
//   - vh:  view hash binding the cursor to a group-key list and filter set
//   - off: row offset from the start of the view
//   - ps:  page size in rows
//   - iat: issued-at timestamp (unix seconds)
type Cursor struct {
	V   int    `json:"v"`
	Did string `json:"did"`
	Vh  string `json:"vh"`
	Off int    `json:"off"`
	Ps  int    `json:"ps"`
	Iat int64  `json:"iat"`
}

// ViewHash derives a short stable digest of the parameters that define a
// view. A cursor is only valid for the exact view it was issued against.
func ViewHash(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:8])
}

// EncodeCursor serializes and encodes the cursor as URL-safe base64 (without
// padding).
func EncodeCursor(c Cursor) (string, error) {
	if err := validate(&c); err != nil {
		return "", err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor decodes a URL-safe base64 token and parses the JSON cursor.
func DecodeCursor(token string) (*Cursor, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return nil, errors.New("cursor: empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(t)
	if err != nil {
		return nil, fmt.Errorf("cursor: invalid base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cursor: invalid json: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate performs structural checks and defaulting.
func validate(c *Cursor) error {
	if c.V <= 0 {
		c.V = 1
	}
	if c.Iat == 0 {
		c.Iat = time.Now().Unix()
	}
	if strings.TrimSpace(c.Did) == "" {
		return errors.New("cursor: did (dataset id) required")
	}
	if strings.TrimSpace(c.Vh) == "" {
		return errors.New("cursor: vh (view hash) required")
	}
	if c.Off < 0 {
		return errors.New("cursor: off must be >= 0")
	}
	if c.Ps <= 0 {
		return errors.New("cursor: ps must be > 0")
	}
	return nil
}

// NextOffset computes the next offset after returning n rows.
func NextOffset(curr, n int) int {
	if curr < 0 {
		curr = 0
	}
	if n <= 0 {
		return curr
	}
	return curr + n
}
