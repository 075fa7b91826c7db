package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/haatos/resource-hub/internal/views"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type UserReader interface {
	GetUserByID(ctx context.Context, userID int64) (*store.User, error)
	ListUsersWithRoles(ctx context.Context) ([]*store.UserWithRole, error)
	ListRoles(ctx context.Context) ([]*store.Role, error)
}

type UserWriter interface {
	UpdateProfile(ctx context.Context, userID int64, email, phone string) (*store.User, error)
	UpdateUserRole(ctx context.Context, userID int64, level store.Level, roleID *int64) error
}

type UserServicer interface {
	UserReader
	UserWriter
}

type UserHandler struct {
	userService UserServicer
}

func NewUserHandler(userService UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfilePage(c echo.Context) error {
	as := getCtxSession(c)
	u, err := h.userService.GetUserByID(c.Request().Context(), as.AuthSessionUserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return newError(c, err, http.StatusInternalServerError, "Error loading profile")
	}
	return render(c, views.ProfilePage(as, u, "", ""))
}

func (h *UserHandler) PostProfile(c echo.Context) error {
	as := getCtxSession(c)
	ctx := c.Request().Context()

	pp := new(ProfileParams)
	bindErr := c.Bind(pp)

	var err error
	if bindErr != nil {
		err = service.NewValidationError("Please fill in all fields.")
	} else {
		var u *store.User
		u, err = h.userService.UpdateProfile(ctx, as.AuthSessionUserID, pp.Email, pp.Phone)
		if err == nil {
			return render(c, views.ProfilePage(as, u, "Profile updated successfully!", ""))
		}
	}

	status, message := http.StatusInternalServerError, "Failed to update profile. Please try again."
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		status, message = http.StatusBadRequest, ve.Message
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		return c.Redirect(http.StatusSeeOther, "/login")
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("error updating profile")
	}

	u, readErr := h.userService.GetUserByID(ctx, as.AuthSessionUserID)
	if readErr != nil {
		return newError(c, errors.Join(err, readErr), http.StatusInternalServerError, message)
	}
	return renderStatus(c, status, views.ProfilePage(as, u, "", message))
}

func (h *UserHandler) GetManagerPage(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.userService.ListUsersWithRoles(ctx)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "Error loading manager page")
	}
	roles, err := h.userService.ListRoles(ctx)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "Error loading manager page")
	}
	return render(c, views.ManagerPage(getCtxSession(c), users, roles))
}

func (h *UserHandler) PostUpdateRole(c echo.Context) error {
	rp := new(UpdateRoleParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Invalid user role data")
	}

	var roleID *int64
	if rp.RoleID > 0 {
		roleID = &rp.RoleID
	}
	if err := h.userService.UpdateUserRole(
		c.Request().Context(),
		rp.UserID,
		store.Level(rp.Level),
		roleID,
	); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return newError(c, err, http.StatusBadRequest, ve.Message)
		}
		return newError(c, err, http.StatusInternalServerError, "Failed to update user role")
	}

	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "User role updated successfully!",
	})
}
