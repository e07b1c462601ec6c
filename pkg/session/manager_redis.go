package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const TTL = 24 * time.Hour

var ErrNoSession = errors.New("no session")

type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, u *User, sessID string) (*Session, error)
	Check(ctx context.Context, r *http.Request) (*Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	DestroyAll(ctx context.Context, user *User) error
}

type Cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// SessionManagerRedis issues opaque uuid cookies and resolves them against
// redis. Nothing about the user leaks into the cookie itself.
type SessionManagerRedis struct {
	rdb Cmdable
}

func NewSessionManagerRedis(rdb Cmdable) *SessionManagerRedis {
	return &SessionManagerRedis{rdb: rdb}
}

// Create stores the user behind a fresh opaque identifier and sets the
// session cookie. Callers generate sessID (a uuid) so that issuance stays
// in one place per request.
func (sm *SessionManagerRedis) Create(ctx context.Context, w http.ResponseWriter, u *User, sessID string) (*Session, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}

	err = sm.rdb.Set(ctx, sessID, payload, TTL).Err()
	if err != nil {
		return nil, err
	}

	err = sm.rdb.SAdd(ctx, strconv.FormatInt(u.ID, 10), sessID).Err()
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessID,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		HttpOnly: true,
	})

	return &Session{User: u, SessionID: sessID}, nil
}

func (sm *SessionManagerRedis) Check(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	payload, err := sm.rdb.Get(ctx, cookie.Value).Result()
	if err != nil {
		return nil, ErrNoSession
	}

	u := &User{}
	if err := json.Unmarshal([]byte(payload), u); err != nil {
		return nil, err
	}

	return &Session{User: u, SessionID: cookie.Value}, nil
}

func (sm *SessionManagerRedis) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		return err
	}

	err = sm.rdb.Del(ctx, sess.SessionID).Err()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	return nil
}

func (sm *SessionManagerRedis) DestroyAll(ctx context.Context, user *User) error {
	sessionIDs, err := sm.rdb.SMembers(ctx, strconv.FormatInt(user.ID, 10)).Result()
	if err != nil {
		return err
	}

	err = sm.rdb.Del(ctx, sessionIDs...).Err()
	if err != nil {
		return err
	}

	return nil
}
