package session

import (
	"context"
	"fmt"
)

type key int

const (
	SessionKey key = 1
)

// CookieName carries the opaque session identifier. Clients treat the value
// as a black box; only the server ever resolves it.
const CookieName = "aura_session"

type Session struct {
	User      *User
	SessionID string
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(SessionKey).(*Session)
	if !ok {
		return nil, fmt.Errorf("session not found")
	}

	return sess, nil
}
