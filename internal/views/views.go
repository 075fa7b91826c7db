package views

import (
	"fmt"
	"net/http"

	"github.com/haatos/resource-hub/internal/store"
)

//go:generate templ generate

// Nav is the part of the session every page shows.
type Nav struct {
	LoggedIn      bool
	Username      string
	IsManager     bool
	IsManagerOnly bool
}

func NewNav(as *store.AuthSession) Nav {
	if as == nil {
		return Nav{}
	}
	return Nav{
		LoggedIn:      true,
		Username:      as.Username,
		IsManager:     as.IsManager(),
		IsManagerOnly: as.IsManagerOnly(),
	}
}

// RegisterForm holds the submitted registration values so a failed attempt
// can be shown again without retyping.
type RegisterForm struct {
	Username string
	Email    string
	Phone    string
	Level    string
}

func (f RegisterForm) IsManager() bool {
	return store.Level(f.Level) == store.LevelManager
}

func errorTitle(status int) string {
	return fmt.Sprintf("%d - %s", status, http.StatusText(status))
}

func cardClass(pinned bool) string {
	if pinned {
		return "card pinned"
	}
	return "card"
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isSelected(current *int64, id int64) bool {
	return current != nil && *current == id
}

func roleName(name *string) string {
	if name == nil || *name == "" {
		return "-"
	}
	return *name
}
