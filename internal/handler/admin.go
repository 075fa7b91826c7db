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

type AdminServicer interface {
	ListVettedResources(ctx context.Context) ([]*store.Resource, error)
	ListCategories(ctx context.Context) ([]*store.Category, error)
	AddVettedResource(ctx context.Context, vr service.VettedResource) (*store.Resource, error)
	EditVettedResource(ctx context.Context, vr service.VettedResource) error
	DeleteVettedResource(ctx context.Context, resourceID int64) error
}

type AdminHandler struct {
	resourceService AdminServicer
}

func NewAdminHandler(resourceService AdminServicer) *AdminHandler {
	return &AdminHandler{resourceService: resourceService}
}

func (rp *ResourceParams) vetted() service.VettedResource {
	return service.VettedResource{
		ResourceID: rp.ResourceID,
		Name:       rp.ResourceName,
		URL:        rp.ResourceURL,
		Phone:      rp.ResourcePhone,
		Desc:       rp.ResourceDesc,
		CategoryID: rp.CategoryID,
	}
}

func (h *AdminHandler) GetAdminPage(c echo.Context) error {
	ctx := c.Request().Context()
	resources, err := h.resourceService.ListVettedResources(ctx)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "Error loading admin page")
	}
	categories, err := h.resourceService.ListCategories(ctx)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "Error loading admin page")
	}
	return render(c, views.AdminPage(getCtxSession(c), resources, categories))
}

func (h *AdminHandler) PostAddResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Invalid resource data")
	}

	r, err := h.resourceService.AddVettedResource(c.Request().Context(), rp.vetted())
	if err != nil {
		return adminError(c, err, "Failed to add resource")
	}
	return c.JSON(http.StatusOK, successResponse{
		Success:    true,
		Message:    "Resource added successfully!",
		ResourceID: r.ResourceID,
	})
}

func (h *AdminHandler) PostEditResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Invalid resource data")
	}

	if err := h.resourceService.EditVettedResource(c.Request().Context(), rp.vetted()); err != nil {
		return adminError(c, err, "Failed to edit resource")
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Resource updated successfully!",
	})
}

func (h *AdminHandler) PostDeleteResource(c echo.Context) error {
	rp := new(ResourceParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "Invalid resource data")
	}

	if err := h.resourceService.DeleteVettedResource(c.Request().Context(), rp.ResourceID); err != nil {
		return adminError(c, err, "Failed to delete resource")
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Resource deleted successfully!",
	})
}

func adminError(c echo.Context, err error, message string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return newError(c, err, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrNotFound):
		return newError(c, err, http.StatusNotFound, "Resource not found")
	default:
		return newError(c, err, http.StatusInternalServerError, message)
	}
}
