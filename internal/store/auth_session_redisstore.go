package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const authSessionKeyPrefix = "resourcehub:session:"

// AuthSessionRedisStore keeps sessions in redis with a TTL matching the
// session expiry. A missing key is reported as sql.ErrNoRows so callers can
// treat both session stores alike.
type AuthSessionRedisStore struct {
	client *redis.Client
}

func NewAuthSessionRedisStore(client *redis.Client) *AuthSessionRedisStore {
	return &AuthSessionRedisStore{client: client}
}

func authSessionKey(sessionID string) string {
	return authSessionKeyPrefix + sessionID
}

func (store *AuthSessionRedisStore) CreateAuthSession(
	ctx context.Context,
	as *AuthSession,
) error {
	ttl := time.Until(as.AuthSessionExpires)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	b, err := json.Marshal(as)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, authSessionKey(as.AuthSessionID), b, ttl).Err()
}

func (store *AuthSessionRedisStore) ReadAuthSession(
	ctx context.Context,
	sessionID string,
) (*AuthSession, error) {
	b, err := store.client.Get(ctx, authSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	as := new(AuthSession)
	if err := json.Unmarshal(b, as); err != nil {
		return nil, err
	}
	return as, nil
}

func (store *AuthSessionRedisStore) DeleteAuthSession(ctx context.Context, sessionID string) error {
	return store.client.Del(ctx, authSessionKey(sessionID)).Err()
}

// DeleteExpiredAuthSessions is a no-op, redis expires keys on its own.
func (store *AuthSessionRedisStore) DeleteExpiredAuthSessions(
	context.Context,
	time.Time,
) (int64, error) {
	return 0, nil
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
