package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/haatos/resource-hub/internal/views"
	"github.com/labstack/echo/v4"
)

type ResourceServicer interface {
	Dashboard(ctx context.Context, userID int64) (*service.Dashboard, error)
	TogglePin(ctx context.Context, userID, resourceID int64) (bool, error)
	AddCustomResource(ctx context.Context, userID int64, name, url, desc string) (*store.Resource, error)
	EditCustomResource(ctx context.Context, userID, resourceID int64, name, url, desc string) error
	DeleteCustomResource(ctx context.Context, userID, resourceID int64) error
}

type UserLookup interface {
	GetUserByID(ctx context.Context, userID int64) (*store.User, error)
}

type ResourceHandler struct {
	resourceService ResourceServicer
	userService     UserLookup
}

func NewResourceHandler(resourceService ResourceServicer, userService UserLookup) *ResourceHandler {
	return &ResourceHandler{resourceService, userService}
}

// currentUserID confirms that the session's user still exists.
func (h *ResourceHandler) currentUserID(c echo.Context) (int64, error) {
	as := getCtxSession(c)
	u, err := h.userService.GetUserByID(c.Request().Context(), as.AuthSessionUserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return 0, newError(c, err, http.StatusUnauthorized, "User not found")
		}
		return 0, newError(c, err, http.StatusInternalServerError, "Failed to load user")
	}
	return u.UserID, nil
}

func (h *ResourceHandler) GetDashboardPage(c echo.Context) error {
	as := getCtxSession(c)
	ctx := c.Request().Context()
	if _, err := h.userService.GetUserByID(ctx, as.AuthSessionUserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return newError(c, err, http.StatusInternalServerError, "Error loading dashboard")
	}

	d, err := h.resourceService.Dashboard(ctx, as.AuthSessionUserID)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "Error loading dashboard")
	}
	return render(c, views.DashboardPage(as, d))
}

func (h *ResourceHandler) PostTogglePin(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil || rp.ResourceID <= 0 {
		return newError(c, err, http.StatusBadRequest, "Resource ID is required")
	}
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	pinned, err := h.resourceService.TogglePin(c.Request().Context(), userID, rp.ResourceID)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return newError(c, err, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrNotFound):
			return newError(c, err, http.StatusNotFound, "Resource not found")
		default:
			return newError(c, err, http.StatusInternalServerError, "Failed to toggle pin")
		}
	}

	return c.JSON(http.StatusOK, togglePinResponse{Success: true, IsPinned: pinned})
}

func (h *ResourceHandler) PostAddResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Resource name and URL are required")
	}
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	r, err := h.resourceService.AddCustomResource(
		c.Request().Context(),
		userID,
		rp.ResourceName,
		rp.ResourceURL,
		rp.ResourceDesc,
	)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return newError(c, err, http.StatusBadRequest, ve.Message)
		}
		return newError(c, err, http.StatusInternalServerError, "Failed to add resource")
	}

	return c.JSON(http.StatusOK, successResponse{
		Success:    true,
		Message:    "Resource added and pinned successfully!",
		ResourceID: r.ResourceID,
	})
}

func (h *ResourceHandler) PostEditResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Resource ID, name, and URL are required")
	}
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.resourceService.EditCustomResource(
		c.Request().Context(),
		userID,
		rp.ResourceID,
		rp.ResourceName,
		rp.ResourceURL,
		rp.ResourceDesc,
	); err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return newError(c, err, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrForbidden):
			return newError(c, err, http.StatusForbidden, "You can only edit resources you created")
		default:
			return newError(c, err, http.StatusInternalServerError, "Failed to edit resource")
		}
	}

	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Resource updated successfully!",
	})
}

func (h *ResourceHandler) PostDeleteResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Resource ID is required")
	}
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.resourceService.DeleteCustomResource(
		c.Request().Context(),
		userID,
		rp.ResourceID,
	); err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return newError(c, err, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrForbidden):
			return newError(c, err, http.StatusForbidden, "You can only delete resources you created")
		default:
			return newError(c, err, http.StatusInternalServerError, "Failed to delete resource")
		}
	}

	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Resource deleted successfully!",
	})
}
