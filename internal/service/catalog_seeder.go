package service

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/rs/zerolog"
)

type CatalogStore interface {
	CountCategories(context.Context) (int64, error)
	CreateCategory(context.Context, string, string) (*store.Category, error)
	CreateVettedResource(context.Context, *store.Resource) (*store.Resource, error)
}

type Catalog struct {
	Categories []CatalogCategory `yaml:"categories"`
}

type CatalogCategory struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Resources   []CatalogResource `yaml:"resources"`
}

type CatalogResource struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Phone       string `yaml:"phone"`
	Description string `yaml:"description"`
}

func ParseCatalog(b []byte) (*Catalog, error) {
	catalog := new(Catalog)
	if err := yaml.Unmarshal(b, catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return catalog, nil
}

// CatalogSeeder loads the vetted catalog into an empty database.
type CatalogSeeder struct {
	store CatalogStore
}

func NewCatalogSeeder(s CatalogStore) *CatalogSeeder {
	return &CatalogSeeder{store: s}
}

// Seed is a no-op when any category exists. It returns the number of
// resources created.
func (cs *CatalogSeeder) Seed(ctx context.Context, catalog *Catalog) (int, error) {
	count, err := cs.store.CountCategories(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		zerolog.Ctx(ctx).Debug().Int64("categories", count).Msg("catalog already seeded")
		return 0, nil
	}

	created := 0
	for _, cc := range catalog.Categories {
		c, err := cs.store.CreateCategory(ctx, cc.Name, cc.Description)
		if err != nil {
			return created, fmt.Errorf("create category %q: %w", cc.Name, err)
		}
		for _, cr := range cc.Resources {
			vr := VettedResource{
				Name:       cr.Name,
				URL:        cr.URL,
				Phone:      cr.Phone,
				Desc:       cr.Description,
				CategoryID: c.CategoryID,
			}
			if _, err := cs.store.CreateVettedResource(ctx, vr.toResource()); err != nil {
				return created, fmt.Errorf("create resource %q: %w", cr.Name, err)
			}
			created++
		}
	}
	zerolog.Ctx(ctx).Info().Int("resources", created).Msg("catalog seeded")
	return created, nil
}
