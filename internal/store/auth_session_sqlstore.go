package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type AuthSessionSQLStore struct {
	rdb  *sql.DB
	rwdb *sql.DB
}

func NewAuthSessionSQLStore(rdb, rwdb *sql.DB) *AuthSessionSQLStore {
	return &AuthSessionSQLStore{rdb, rwdb}
}

func (store *AuthSessionSQLStore) CreateAuthSession(
	ctx context.Context,
	as *AuthSession,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`
		insert into auth_sessions (
			auth_session_id,
			auth_session_user_id,
			auth_session_username,
			auth_session_level,
			auth_session_role_id,
			auth_session_expires
		)
		values ($1, $2, $3, $4, $5, $6)
		`,
		as.AuthSessionID,
		as.AuthSessionUserID,
		as.Username,
		string(as.Level),
		as.RoleID,
		as.AuthSessionExpires.UTC(),
	)
	return err
}

func (store *AuthSessionSQLStore) ReadAuthSession(
	ctx context.Context,
	sessionID string,
) (*AuthSession, error) {
	as := new(AuthSession)
	err := sqlscan.Get(
		ctx, store.rdb, as,
		`select
			auth_session_id,
			auth_session_user_id,
			auth_session_username,
			auth_session_level,
			auth_session_role_id,
			auth_session_expires
		from auth_sessions
		where auth_session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	return as, nil
}

func (store *AuthSessionSQLStore) DeleteAuthSession(ctx context.Context, sessionID string) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`delete from auth_sessions where auth_session_id = $1`,
		sessionID,
	)
	return err
}

func (store *AuthSessionSQLStore) DeleteExpiredAuthSessions(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	res, err := store.rwdb.ExecContext(
		ctx,
		`delete from auth_sessions where auth_session_expires < $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
