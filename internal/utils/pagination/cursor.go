// Package pagination encodes keyset cursors as opaque, URL-safe tokens.
//
// A cursor names the last row of the previous page by (timestamp, id); the
// next page is everything strictly older in (timestamp DESC, id DESC) order.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// MaxTokenLen bounds accepted tokens; real ones are around 30 bytes so they
// fit in a 64-byte button payload next to a prefix.
const MaxTokenLen = 48

// ErrInvalidToken is returned for tokens this package did not produce.
var ErrInvalidToken = errors.New("invalid pagination token")

// Cursor points just past the last row of a page.
type Cursor struct {
	Millis int64  `json:"t"`
	ID     uint64 `json:"p"`
}

// At builds the cursor for a row.
func At(ts time.Time, id uint64) Cursor {
	return Cursor{Millis: ts.UnixMilli(), ID: id}
}

// IsZero reports whether c points at the first page.
func (c Cursor) IsZero() bool { return c.Millis == 0 && c.ID == 0 }

// Time is the cursor timestamp in UTC.
func (c Cursor) Time() time.Time { return time.UnixMilli(c.Millis).UTC() }

// Encode converts a Cursor into an unpadded base64url token.
func (c Cursor) Encode() string {
	b, _ := json.Marshal(c) // two integers always marshal
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a token. Empty token → zero cursor (first page).
func Decode(token string) (Cursor, error) {
	var c Cursor
	if token == "" {
		return c, nil
	}
	if len(token) > MaxTokenLen {
		return c, ErrInvalidToken
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, ErrInvalidToken
	}
	if err := json.Unmarshal(b, &c); err != nil || c.IsZero() {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}

// Trim cuts a limit+1 result set down to one page and returns the token for
// the next page, or "" when rows was the last page.
//
// Example:
//
//	rows = fetch(limit + 1)
//	page, next := pagination.Trim(rows, limit, func(m Match) Cursor { return At(m.MatchedAt, m.PeerID) })
func Trim[T any](rows []T, limit int, cursorOf func(T) Cursor) ([]T, string) {
	if limit <= 0 || len(rows) <= limit {
		return rows, ""
	}
	return rows[:limit], cursorOf(rows[limit-1]).Encode()
}
