package store

import "time"

type User struct {
	UserID       int64  `db:"userid"        json:"userId"`
	Username     string `db:"username"      json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Email        string `db:"email"         json:"email"`
	Phone        string `db:"phone"         json:"phone"`
	Level        Level  `db:"level"         json:"level"`
	RoleID       *int64 `db:"roleid"        json:"roleId"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Level == LevelManager
}

func (u *User) IsManagerOnly() bool {
	return u.IsManager() && u.RoleID != nil && *u.RoleID == RoleManager
}

type UserWithRole struct {
	User
	RoleName *string `db:"rolename" json:"roleName"`
}

// AuthSession is the server side session state. Username, Level and RoleID
// are a snapshot taken at login and are the only input to authorization
// decisions while the session lives.
type AuthSession struct {
	AuthSessionID      string    `db:"auth_session_id"       json:"id"`
	AuthSessionUserID  int64     `db:"auth_session_user_id"  json:"userId"`
	Username           string    `db:"auth_session_username" json:"username"`
	Level              Level     `db:"auth_session_level"    json:"level"`
	RoleID             *int64    `db:"auth_session_role_id"  json:"roleId"`
	AuthSessionExpires time.Time `db:"auth_session_expires"  json:"expires"`
}

func (s *AuthSession) IsExpired(now time.Time) bool {
	return s.AuthSessionExpires.Before(now)
}

func (s *AuthSession) IsManager() bool {
	return s != nil && s.Level == LevelManager
}

func (s *AuthSession) IsManagerOnly() bool {
	return s.IsManager() && s.RoleID != nil && *s.RoleID == RoleManager
}
