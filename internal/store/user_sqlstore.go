package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type UserSQLStore struct {
	rdb  *sql.DB
	rwdb *sql.DB
}

func NewUserSQLStore(rdb, rwdb *sql.DB) *UserSQLStore {
	return &UserSQLStore{rdb, rwdb}
}

// CreateUser inserts the user and, when a resource named defaultPinName
// exists, pins it for the new user within the same transaction.
func (store *UserSQLStore) CreateUser(
	ctx context.Context,
	u *User,
	defaultPinName string,
) (*User, error) {
	user := *u
	err := withTx(ctx, store.rwdb, func(tx *sql.Tx) error {
		if err := sqlscan.Get(
			ctx, tx, &user,
			`
			insert into users (
				username,
				password_hash,
				email,
				phone,
				level,
				roleid
			)
			values ($1, $2, $3, $4, $5, coalesce($6, 3))
			returning userid, roleid
			`,
			user.Username,
			user.PasswordHash,
			user.Email,
			user.Phone,
			string(user.Level),
			user.RoleID,
		); err != nil {
			return err
		}

		if defaultPinName == "" {
			return nil
		}
		var resourceID int64
		err := sqlscan.Get(
			ctx, tx, &resourceID,
			`select resourceid from resources
			where resourcename = $1
			order by resourceid
			limit 1`,
			defaultPinName,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`insert into user_resource (userid, resourceid, numviewed, favoritestatus, rating)
			values ($1, $2, 0, $3, null)`,
			user.UserID, resourceID, true,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (store *UserSQLStore) ReadUserByID(ctx context.Context, userID int64) (*User, error) {
	user := new(User)
	err := sqlscan.Get(
		ctx, store.rdb, user,
		`select userid, username, password_hash, email, phone, level, roleid
		from users where userid = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (store *UserSQLStore) ReadUserByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	user := new(User)
	err := sqlscan.Get(
		ctx, store.rdb, user,
		`select userid, username, password_hash, email, phone, level, roleid
		from users where username = $1`,
		username,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (store *UserSQLStore) UpdateUserProfile(
	ctx context.Context,
	userID int64,
	email, phone string,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`update users
		set email = $1,
			phone = $2
		where userid = $3`,
		email, phone, userID,
	)
	return err
}

func (store *UserSQLStore) UpdateUserRole(
	ctx context.Context,
	userID int64,
	level Level,
	roleID *int64,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`update users
		set level = $1,
			roleid = $2
		where userid = $3`,
		string(level), roleID, userID,
	)
	return err
}

func (store *UserSQLStore) ListUsersWithRoles(ctx context.Context) ([]*UserWithRole, error) {
	users := make([]*UserWithRole, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &users,
		`select
			u.userid,
			u.username,
			u.email,
			u.level,
			u.phone,
			u.roleid,
			r.rolename
		from users u
		left join roles r
		on u.roleid = r.roleid
		order by u.userid`,
	)
	return users, err
}

func (store *UserSQLStore) ListRoles(ctx context.Context) ([]*Role, error) {
	roles := make([]*Role, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &roles,
		`select roleid, rolename from roles order by roleid`,
	)
	return roles, err
}

func (store *UserSQLStore) ListManagers(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &users,
		`select userid, username, password_hash, email, phone, level, roleid
		from users
		where level = $1 and roleid = $2
		order by userid`,
		string(LevelManager), RoleManager,
	)
	return users, err
}
