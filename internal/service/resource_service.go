package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/haatos/resource-hub/internal"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/rs/zerolog"
)

type ResourceReader interface {
	ListVettedResources(context.Context) ([]*store.Resource, error)
	ListVettedResourcesByID(context.Context) ([]*store.Resource, error)
	ListResourcesSubmittedBy(context.Context, int64) ([]*store.Resource, error)
	ListPinnedResourceIDs(context.Context, int64) ([]int64, error)
	ListCategories(context.Context) ([]*store.Category, error)
}

type ResourceWriter interface {
	TogglePin(context.Context, int64, int64) (bool, error)
	CreateCustomResource(context.Context, int64, string, string, string) (*store.Resource, error)
	UpdateCustomResource(context.Context, int64, int64, string, string, string) (bool, error)
	DeleteCustomResource(context.Context, int64, int64) (bool, error)
	CreateVettedResource(context.Context, *store.Resource) (*store.Resource, error)
	UpdateVettedResource(context.Context, *store.Resource) (bool, error)
	DeleteVettedResource(context.Context, int64) (bool, error)
}

type ResourceStore interface {
	ResourceReader
	ResourceWriter
}

type ResourceService struct {
	resourceStore ResourceStore
}

func NewResourceService(s ResourceStore) *ResourceService {
	return &ResourceService{resourceStore: s}
}

type DashboardEntry struct {
	*store.Resource
	IsPinned bool
}

type CategoryGroup struct {
	Name      string
	Slug      string
	Resources []DashboardEntry
}

type Dashboard struct {
	Pinned    []*store.Resource
	Unpinned  []*store.Resource
	Custom    []*store.Resource
	All       []*store.Resource
	PinnedIDs map[int64]bool
	Groups    []CategoryGroup
}

func (d *Dashboard) IsPinned(resourceID int64) bool {
	return d.PinnedIDs[resourceID]
}

// Dashboard collects the vetted catalog, the user's own submissions and the
// user's pins. Groups keep the order of the vetted listing.
func (s *ResourceService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	all, err := s.resourceStore.ListVettedResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vetted resources: %w", err)
	}
	custom, err := s.resourceStore.ListResourcesSubmittedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list custom resources: %w", err)
	}
	pinnedIDs, err := s.resourceStore.ListPinnedResourceIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pinned resources: %w", err)
	}

	d := &Dashboard{
		Pinned:    []*store.Resource{},
		Unpinned:  []*store.Resource{},
		Custom:    custom,
		All:       all,
		PinnedIDs: make(map[int64]bool, len(pinnedIDs)),
		Groups:    []CategoryGroup{},
	}
	for _, id := range pinnedIDs {
		d.PinnedIDs[id] = true
	}

	groupIndex := make(map[string]int)
	for _, r := range all {
		pinned := d.PinnedIDs[r.ResourceID]
		if pinned {
			d.Pinned = append(d.Pinned, r)
		} else {
			d.Unpinned = append(d.Unpinned, r)
		}

		name := r.CategoryLabel()
		idx, ok := groupIndex[name]
		if !ok {
			idx = len(d.Groups)
			groupIndex[name] = idx
			d.Groups = append(d.Groups, CategoryGroup{Name: name, Slug: slug.Make(name)})
		}
		d.Groups[idx].Resources = append(
			d.Groups[idx].Resources,
			DashboardEntry{Resource: r, IsPinned: pinned},
		)
	}
	return d, nil
}

// TogglePin flips the user's pin on a resource and returns the new state.
func (s *ResourceService) TogglePin(
	ctx context.Context,
	userID, resourceID int64,
) (bool, error) {
	if resourceID <= 0 {
		return false, NewValidationError("Resource ID is required")
	}
	pinned, err := s.resourceStore.TogglePin(ctx, userID, resourceID)
	if err != nil {
		if store.IsForeignKeyConstraintError(err) {
			return false, ErrNotFound
		}
		return false, err
	}
	zerolog.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Int64("resource_id", resourceID).
		Bool("pinned", pinned).
		Msg("pin toggled")
	return pinned, nil
}

func (s *ResourceService) AddCustomResource(
	ctx context.Context,
	userID int64,
	name, url, desc string,
) (*store.Resource, error) {
	name, url = strings.TrimSpace(name), strings.TrimSpace(url)
	if name == "" || url == "" {
		return nil, NewValidationError("Resource name and URL are required")
	}
	if desc == "" {
		desc = internal.CustomResourceDesc
	}
	return s.resourceStore.CreateCustomResource(ctx, userID, name, url, desc)
}

func (s *ResourceService) EditCustomResource(
	ctx context.Context,
	userID, resourceID int64,
	name, url, desc string,
) error {
	name, url = strings.TrimSpace(name), strings.TrimSpace(url)
	if resourceID <= 0 || name == "" || url == "" {
		return NewValidationError("Resource ID, name, and URL are required")
	}
	if desc == "" {
		desc = "Custom resource: " + name
	}
	ok, err := s.resourceStore.UpdateCustomResource(ctx, userID, resourceID, name, url, desc)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *ResourceService) DeleteCustomResource(
	ctx context.Context,
	userID, resourceID int64,
) error {
	if resourceID <= 0 {
		return NewValidationError("Resource ID is required")
	}
	ok, err := s.resourceStore.DeleteCustomResource(ctx, userID, resourceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *ResourceService) ListVettedResources(ctx context.Context) ([]*store.Resource, error) {
	return s.resourceStore.ListVettedResourcesByID(ctx)
}

func (s *ResourceService) ListCategories(ctx context.Context) ([]*store.Category, error) {
	categories, err := s.resourceStore.ListCategories(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return categories, nil
}

// VettedResource is the admin form for a catalog entry. Empty URL and phone
// and a zero category are stored as null.
type VettedResource struct {
	ResourceID int64
	Name       string
	URL        string
	Phone      string
	Desc       string
	CategoryID int64
}

func (vr VettedResource) toResource() *store.Resource {
	r := &store.Resource{
		ResourceID:   vr.ResourceID,
		ResourceName: strings.TrimSpace(vr.Name),
		ResourceDesc: vr.Desc,
		IsVetted:     true,
	}
	if url := strings.TrimSpace(vr.URL); url != "" {
		r.ResourceURL = &url
	}
	if phone := strings.TrimSpace(vr.Phone); phone != "" {
		r.ResourcePhone = &phone
	}
	if vr.CategoryID > 0 {
		categoryID := vr.CategoryID
		r.CategoryID = &categoryID
	}
	return r
}

func (s *ResourceService) AddVettedResource(
	ctx context.Context,
	vr VettedResource,
) (*store.Resource, error) {
	r := vr.toResource()
	if r.ResourceName == "" {
		return nil, NewValidationError("Resource name is required")
	}
	created, err := s.resourceStore.CreateVettedResource(ctx, r)
	if err != nil {
		if store.IsForeignKeyConstraintError(err) {
			return nil, NewValidationError("Unknown category")
		}
		return nil, err
	}
	return created, nil
}

func (s *ResourceService) EditVettedResource(ctx context.Context, vr VettedResource) error {
	r := vr.toResource()
	if r.ResourceID <= 0 || r.ResourceName == "" {
		return NewValidationError("Resource ID and name are required")
	}
	ok, err := s.resourceStore.UpdateVettedResource(ctx, r)
	if err != nil {
		if store.IsForeignKeyConstraintError(err) {
			return NewValidationError("Unknown category")
		}
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ResourceService) DeleteVettedResource(ctx context.Context, resourceID int64) error {
	if resourceID <= 0 {
		return NewValidationError("Resource ID is required")
	}
	ok, err := s.resourceStore.DeleteVettedResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
