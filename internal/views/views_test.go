package views

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/stretchr/testify/assert"
)

func renderString(t *testing.T, c interface {
	Render(context.Context, io.Writer) error
}) string {
	t.Helper()
	buf := new(bytes.Buffer)
	assert.NoError(t, c.Render(context.Background(), buf))
	return buf.String()
}

func TestNewNav(t *testing.T) {
	t.Run("success - anonymous", func(t *testing.T) {
		assert.Equal(t, Nav{}, NewNav(nil))
	})
	t.Run("success - manager only", func(t *testing.T) {
		roleID := store.RoleManager
		nav := NewNav(&store.AuthSession{Username: "boss", Level: store.LevelManager, RoleID: &roleID})
		assert.True(t, nav.LoggedIn)
		assert.True(t, nav.IsManager)
		assert.True(t, nav.IsManagerOnly)
	})
}

func TestPages(t *testing.T) {
	roleID := store.RoleUser
	session := &store.AuthSession{Username: "alice", Level: store.LevelUser, RoleID: &roleID}

	t.Run("success - login page has form fields and error", func(t *testing.T) {
		// act
		body := renderString(t, LoginPage("alice", "Invalid username or password"))

		// assert
		assert.Contains(t, body, "<html")
		assert.Contains(t, body, "<main")
		assert.Contains(t, body, `name="username"`)
		assert.Contains(t, body, `name="password"`)
		assert.Contains(t, body, "Invalid username or password")
	})
	t.Run("success - register page keeps entered values", func(t *testing.T) {
		// act
		body := renderString(t, RegisterPage(RegisterForm{Username: "bob", Level: "M"}, ""))

		// assert
		assert.Contains(t, body, `value="bob"`)
		assert.Contains(t, body, `name="level"`)
		assert.Contains(t, body, `<option value="M" selected>Manager</option>`)
		assert.Contains(t, body, `<option value="U">User</option>`)
	})
	t.Run("success - dashboard groups and pins", func(t *testing.T) {
		// arrange
		url := "https://988lifeline.org"
		category := "Crisis Support"
		r := &store.Resource{
			ResourceID:   1,
			ResourceName: "988 Suicide & Crisis Lifeline",
			ResourceURL:  &url,
			CategoryName: &category,
		}
		d := &service.Dashboard{
			Pinned:    []*store.Resource{r},
			All:       []*store.Resource{r},
			PinnedIDs: map[int64]bool{1: true},
			Groups: []service.CategoryGroup{{
				Name:      category,
				Slug:      "crisis-support",
				Resources: []service.DashboardEntry{{Resource: r, IsPinned: true}},
			}},
		}

		// act
		body := renderString(t, DashboardPage(session, d))

		// assert
		assert.Contains(t, body, `id="crisis-support"`)
		assert.Contains(t, body, "988 Suicide &amp; Crisis Lifeline")
		assert.Contains(t, body, `href="https://988lifeline.org"`)
		assert.Contains(t, body, "Unpin")
		assert.NotContains(t, body, `href="/admin"`)
	})
	t.Run("success - admin page marks selected category", func(t *testing.T) {
		// arrange
		managerRole := store.RoleAdmin
		admin := &store.AuthSession{Username: "root", Level: store.LevelManager, RoleID: &managerRole}
		var categoryID int64 = 2
		resources := []*store.Resource{{ResourceID: 5, ResourceName: "Line", CategoryID: &categoryID}}
		categories := []*store.Category{
			{CategoryID: 1, CategoryName: "One"},
			{CategoryID: 2, CategoryName: "Two"},
		}

		// act
		body := renderString(t, AdminPage(admin, resources, categories))

		// assert
		assert.Contains(t, body, `<option value="2" selected>Two</option>`)
		assert.Contains(t, body, `href="/admin"`)
		assert.NotContains(t, body, `href="/manager"`)
	})
	t.Run("success - dashboard buttons reflect pin state", func(t *testing.T) {
		// arrange
		url := "https://example.com/mine"
		custom := &store.Resource{ResourceID: 7, ResourceName: "Mine", ResourceURL: &url}
		phone := "741741"
		vetted := &store.Resource{ResourceID: 8, ResourceName: "Text Line", ResourcePhone: &phone, IsVetted: true}
		d := &service.Dashboard{
			Custom:    []*store.Resource{custom},
			PinnedIDs: map[int64]bool{},
			Groups: []service.CategoryGroup{{
				Name:      "Crisis Services",
				Slug:      "crisis-services",
				Resources: []service.DashboardEntry{{Resource: vetted}},
			}},
		}

		// act
		body := renderString(t, DashboardPage(session, d))

		// assert
		assert.Contains(t, body, "Nothing pinned yet.")
		assert.Contains(t, body, `<div class="card">`)
		assert.Contains(t, body, `data-resource-id="7">Pin</button>`)
		assert.Contains(t, body, `data-resource-id="8">Pin</button>`)
		assert.Contains(t, body, `data-action="delete-resource" data-resource-id="7"`)
		assert.NotContains(t, body, `data-action="delete-resource" data-resource-id="8"`)
		assert.Contains(t, body, `<a href="#crisis-services">Crisis Services</a>`)
		assert.Contains(t, body, "<span>741741</span>")
	})
	t.Run("success - profile shows level and manager badge", func(t *testing.T) {
		// arrange
		managerRole := store.RoleManager
		u := &store.User{
			Username: "carol",
			Email:    "carol@example.com",
			Phone:    "555-0100",
			Level:    store.LevelManager,
			RoleID:   &managerRole,
		}

		// act
		body := renderString(t, ProfilePage(session, u, "Profile updated successfully!", ""))

		// assert
		assert.Contains(t, body, "<strong>carol</strong> (manager)")
		assert.Contains(t, body, `class="badge"`)
		assert.Contains(t, body, `<a href="/manager">user roles</a>`)
		assert.Contains(t, body, `value="carol@example.com"`)
		assert.Contains(t, body, "Profile updated successfully!")
	})
	t.Run("success - profile of manager without manager role links admin only", func(t *testing.T) {
		// arrange
		adminRole := store.RoleAdmin
		u := &store.User{Username: "root", Level: store.LevelManager, RoleID: &adminRole}

		// act
		body := renderString(t, ProfilePage(session, u, "", ""))

		// assert
		assert.Contains(t, body, "(manager)")
		assert.Contains(t, body, `<a href="/admin">vetted resources</a>.`)
		assert.NotContains(t, body, `<a href="/manager">user roles</a>`)
	})
	t.Run("success - profile of regular user has no badge", func(t *testing.T) {
		// arrange
		u := &store.User{Username: "alice", Level: store.LevelUser, RoleID: &roleID}

		// act
		body := renderString(t, ProfilePage(session, u, "", "Invalid email"))

		// assert
		assert.Contains(t, body, "<strong>alice</strong> (user)")
		assert.NotContains(t, body, `class="badge"`)
		assert.Contains(t, body, `<p class="error">Invalid email</p>`)
	})
	t.Run("success - manager page selects level and role", func(t *testing.T) {
		// arrange
		managerRole := store.RoleManager
		boss := &store.AuthSession{Username: "boss", Level: store.LevelManager, RoleID: &managerRole}
		managerRoleName := "Manager"
		users := []*store.UserWithRole{
			{User: store.User{UserID: 3, Username: "dave", Level: store.LevelManager, RoleID: &managerRole}, RoleName: &managerRoleName},
			{User: store.User{UserID: 4, Username: "erin", Level: store.LevelUser}},
		}
		roles := []*store.Role{
			{RoleID: store.RoleAdmin, RoleName: "Admin"},
			{RoleID: store.RoleManager, RoleName: "Manager"},
		}

		// act
		body := renderString(t, ManagerPage(boss, users, roles))

		// assert
		assert.Contains(t, body, `<option value="M" selected>Manager</option>`)
		assert.Contains(t, body, `<option value="2" selected>Manager</option>`)
		assert.Contains(t, body, `<option value="U" selected>User</option>`)
		assert.Contains(t, body, "<td>-</td>")
		assert.Contains(t, body, `href="/manager"`)
	})
	t.Run("success - index greets a logged in user", func(t *testing.T) {
		// act
		body := renderString(t, IndexPage(session))

		// assert
		assert.Contains(t, body, "Welcome back, alice.")
		assert.NotContains(t, body, `href="/register"`)
	})
	t.Run("success - index for anonymous visitors", func(t *testing.T) {
		// act
		body := renderString(t, IndexPage(nil))

		// assert
		assert.Contains(t, body, `<a href="/register">create an account</a>`)
		assert.Contains(t, body, `<a href="/login">Log in</a>`)
	})
	t.Run("success - error page", func(t *testing.T) {
		// act
		body := renderString(t, ErrorPage(nil, 403, "Access denied. Manager privileges required."))

		// assert
		assert.Contains(t, body, "<title>403 - Forbidden | Resource Hub</title>")
		assert.Contains(t, body, "403 - Forbidden")
		assert.Contains(t, body, "Access denied. Manager privileges required.")
	})
}
