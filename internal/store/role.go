package store

type Level string

const (
	LevelManager Level = "M"
	LevelUser    Level = "U"
)

func (l Level) IsValid() bool {
	return l == LevelManager || l == LevelUser
}

func (l Level) ToString() string {
	switch l {
	case LevelManager:
		return "manager"
	default:
		return "user"
	}
}

const (
	RoleAdmin   int64 = 1
	RoleManager int64 = 2
	RoleUser    int64 = 3
)

type Role struct {
	RoleID   int64  `db:"roleid"   json:"roleId"`
	RoleName string `db:"rolename" json:"roleName"`
}
