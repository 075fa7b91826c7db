package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"slices"
	"testing"
	"time"

	"github.com/haatos/resource-hub/internal/settings"
	"github.com/stretchr/testify/suite"
)

type resourceSQLStoreSuite struct {
	resourceStore *ResourceSQLStore
	userStore     *UserSQLStore
	db            *sql.DB
	category      *Category
	owner         *User
	other         *User
	suite.Suite
}

func TestResourceSQLStore(t *testing.T) {
	suite.Run(t, new(resourceSQLStoreSuite))
}

func (suite *resourceSQLStoreSuite) SetupSuite() {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	suite.db = db
	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		log.Fatal(err)
	}
	if err := RunMigrations(db, settings.DriverSQLite); err != nil {
		log.Fatal(err)
	}

	suite.resourceStore = NewResourceSQLStore(db, db)
	suite.userStore = NewUserSQLStore(db, db)

	c, err := suite.resourceStore.CreateCategory(
		context.Background(),
		"Crisis Support",
		"Immediate help",
	)
	if err != nil {
		log.Fatal(err)
	}
	suite.category = c

	suite.owner = suite.newUser()
	suite.other = suite.newUser()
}

func (suite *resourceSQLStoreSuite) TearDownSuite() {
	suite.db.Close()
}

func (suite *resourceSQLStoreSuite) newUser() *User {
	n := time.Now().UnixNano()
	u, err := suite.userStore.CreateUser(context.Background(), &User{
		Username:     fmt.Sprintf("resourceuser%d", n),
		PasswordHash: "hash",
		Email:        fmt.Sprintf("resourceuser%d@example.com", n),
		Phone:        "555-0100",
		Level:        LevelUser,
	}, "")
	if err != nil {
		log.Fatal(err)
	}
	return u
}

func (suite *resourceSQLStoreSuite) newVetted(name string, categoryID *int64) *Resource {
	url := "https://example.com/" + name
	r, err := suite.resourceStore.CreateVettedResource(context.Background(), &Resource{
		ResourceName: name,
		ResourceURL:  &url,
		ResourceDesc: "desc",
		CategoryID:   categoryID,
	})
	suite.NoError(err)
	return r
}

func (suite *resourceSQLStoreSuite) TestCreateVettedResource() {
	suite.Run("success - vetted resource has no submitter", func() {
		// act
		r := suite.newVetted("Vetted A", &suite.category.CategoryID)

		// assert
		stored, err := suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.NoError(err)
		suite.True(stored.IsVetted)
		suite.Nil(stored.SubmittedByUserID)
		suite.Equal("Crisis Support", stored.CategoryLabel())
	})
	suite.Run("failure - category does not exist", func() {
		// arrange
		var categoryID int64 = 999_999

		// act
		_, err := suite.resourceStore.CreateVettedResource(context.Background(), &Resource{
			ResourceName: "Broken",
			CategoryID:   &categoryID,
		})

		// assert
		suite.Error(err)
		suite.True(IsForeignKeyConstraintError(err))
	})
}

func (suite *resourceSQLStoreSuite) TestListVettedResources() {
	suite.Run("success - categorized first then by name", func() {
		// arrange
		uncategorized := suite.newVetted("AAA uncategorized", nil)
		b := suite.newVetted("Zeta line", &suite.category.CategoryID)
		a := suite.newVetted("Alpha line", &suite.category.CategoryID)
		custom, err := suite.resourceStore.CreateCustomResource(
			context.Background(), suite.owner.UserID, "Mine", "https://example.com/mine", "mine",
		)
		suite.NoError(err)

		// act
		resources, err := suite.resourceStore.ListVettedResources(context.Background())

		// assert
		suite.NoError(err)
		idx := func(id int64) int {
			return slices.IndexFunc(resources, func(r *Resource) bool { return r.ResourceID == id })
		}
		suite.Less(idx(a.ResourceID), idx(b.ResourceID))
		suite.Less(idx(b.ResourceID), idx(uncategorized.ResourceID))
		suite.Equal(-1, idx(custom.ResourceID))
		suite.Equal(Uncategorized, resources[idx(uncategorized.ResourceID)].CategoryLabel())
	})
}

func (suite *resourceSQLStoreSuite) TestListVettedResourcesByID() {
	suite.Run("success - ordered by id", func() {
		// arrange
		suite.newVetted("Zulu", nil)
		suite.newVetted("Alpha", nil)

		// act
		resources, err := suite.resourceStore.ListVettedResourcesByID(context.Background())

		// assert
		suite.NoError(err)
		suite.True(slices.IsSortedFunc(resources, func(a, b *Resource) int {
			return int(a.ResourceID - b.ResourceID)
		}))
	})
}

func (suite *resourceSQLStoreSuite) TestTogglePin() {
	suite.Run("success - absent row is created pinned and toggles back", func() {
		// arrange
		r := suite.newVetted("Toggle target", &suite.category.CategoryID)

		// act
		first, err1 := suite.resourceStore.TogglePin(context.Background(), suite.other.UserID, r.ResourceID)
		second, err2 := suite.resourceStore.TogglePin(context.Background(), suite.other.UserID, r.ResourceID)
		third, err3 := suite.resourceStore.TogglePin(context.Background(), suite.other.UserID, r.ResourceID)

		// assert
		suite.NoError(err1)
		suite.NoError(err2)
		suite.NoError(err3)
		suite.True(first)
		suite.False(second)
		suite.True(third)

		ur, err := suite.resourceStore.ReadUserResource(context.Background(), suite.other.UserID, r.ResourceID)
		suite.NoError(err)
		suite.Equal(int64(0), ur.NumViewed)
		suite.Nil(ur.Rating)

		ids, err := suite.resourceStore.ListPinnedResourceIDs(context.Background(), suite.other.UserID)
		suite.NoError(err)
		suite.Contains(ids, r.ResourceID)
	})
	suite.Run("failure - resource does not exist", func() {
		// act
		_, err := suite.resourceStore.TogglePin(context.Background(), suite.other.UserID, 987_654)

		// assert
		suite.Error(err)
		suite.True(IsForeignKeyConstraintError(err))
	})
}

func (suite *resourceSQLStoreSuite) TestCreateCustomResource() {
	suite.Run("success - resource is owned, unvetted and pinned", func() {
		// act
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(),
			suite.owner.UserID,
			"My therapist",
			"https://example.com/therapist",
			"Custom resource added by user",
		)

		// assert
		suite.NoError(err)
		stored, err := suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.NoError(err)
		suite.False(stored.IsVetted)
		suite.True(stored.IsSubmittedBy(suite.owner.UserID))
		suite.Nil(stored.CategoryID)

		ids, err := suite.resourceStore.ListPinnedResourceIDs(context.Background(), suite.owner.UserID)
		suite.NoError(err)
		suite.Contains(ids, r.ResourceID)

		submitted, err := suite.resourceStore.ListResourcesSubmittedBy(context.Background(), suite.owner.UserID)
		suite.NoError(err)
		suite.True(slices.ContainsFunc(submitted, func(s *Resource) bool {
			return s.ResourceID == r.ResourceID
		}))
	})
	suite.Run("failure - unknown user leaves no resource behind", func() {
		// arrange
		before, err := suite.resourceStore.ListResourcesSubmittedBy(context.Background(), 424_242)
		suite.NoError(err)

		// act
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(), 424_242, "Ghost", "https://example.com/ghost", "",
		)

		// assert
		suite.Error(err)
		suite.Nil(r)
		after, err := suite.resourceStore.ListResourcesSubmittedBy(context.Background(), 424_242)
		suite.NoError(err)
		suite.Equal(len(before), len(after))
	})
}

func (suite *resourceSQLStoreSuite) TestUpdateCustomResource() {
	suite.Run("success - owner updates", func() {
		// arrange
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(), suite.owner.UserID, "Old", "https://example.com/old", "old",
		)
		suite.NoError(err)

		// act
		ok, err := suite.resourceStore.UpdateCustomResource(
			context.Background(), suite.owner.UserID, r.ResourceID,
			"New", "https://example.com/new", "Custom resource: New",
		)

		// assert
		suite.NoError(err)
		suite.True(ok)
		stored, err := suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.NoError(err)
		suite.Equal("New", stored.ResourceName)
		suite.Equal("https://example.com/new", *stored.ResourceURL)
		suite.False(stored.IsVetted)
	})
	suite.Run("failure - other user matches nothing", func() {
		// arrange
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(), suite.owner.UserID, "Keep", "https://example.com/keep", "keep",
		)
		suite.NoError(err)

		// act
		ok, err := suite.resourceStore.UpdateCustomResource(
			context.Background(), suite.other.UserID, r.ResourceID,
			"Hijacked", "https://example.com/x", "x",
		)

		// assert
		suite.NoError(err)
		suite.False(ok)
		stored, err := suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.NoError(err)
		suite.Equal("Keep", stored.ResourceName)
	})
}

func (suite *resourceSQLStoreSuite) TestDeleteCustomResource() {
	suite.Run("success - owner deletes", func() {
		// arrange
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(), suite.owner.UserID, "Gone", "https://example.com/gone", "gone",
		)
		suite.NoError(err)

		// act
		ok, err := suite.resourceStore.DeleteCustomResource(context.Background(), suite.owner.UserID, r.ResourceID)

		// assert
		suite.NoError(err)
		suite.True(ok)
		_, err = suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.True(errors.Is(err, sql.ErrNoRows))
		_, err = suite.resourceStore.ReadUserResource(context.Background(), suite.owner.UserID, r.ResourceID)
		suite.True(errors.Is(err, sql.ErrNoRows))
	})
	suite.Run("failure - vetted resource is not a custom resource", func() {
		// arrange
		r := suite.newVetted("Not custom", nil)

		// act
		ok, err := suite.resourceStore.DeleteCustomResource(context.Background(), suite.owner.UserID, r.ResourceID)

		// assert
		suite.NoError(err)
		suite.False(ok)
	})
}

func (suite *resourceSQLStoreSuite) TestUpdateVettedResource() {
	suite.Run("success - fields update", func() {
		// arrange
		r := suite.newVetted("Before", nil)
		phone := "741741"
		r.ResourceName = "After"
		r.ResourcePhone = &phone
		r.CategoryID = &suite.category.CategoryID

		// act
		ok, err := suite.resourceStore.UpdateVettedResource(context.Background(), r)

		// assert
		suite.NoError(err)
		suite.True(ok)
		stored, err := suite.resourceStore.ReadResourceByID(context.Background(), r.ResourceID)
		suite.NoError(err)
		suite.Equal("After", stored.ResourceName)
		suite.Equal(phone, *stored.ResourcePhone)
		suite.Equal(suite.category.CategoryID, *stored.CategoryID)
	})
	suite.Run("failure - custom resource is not touched", func() {
		// arrange
		r, err := suite.resourceStore.CreateCustomResource(
			context.Background(), suite.owner.UserID, "Private", "https://example.com/p", "p",
		)
		suite.NoError(err)
		r.ResourceName = "Renamed"

		// act
		ok, err := suite.resourceStore.UpdateVettedResource(context.Background(), r)

		// assert
		suite.NoError(err)
		suite.False(ok)
	})
}

func (suite *resourceSQLStoreSuite) TestDeleteVettedResource() {
	suite.Run("success - vetted resource is deleted", func() {
		// arrange
		r := suite.newVetted("Delete me", nil)

		// act
		ok, err := suite.resourceStore.DeleteVettedResource(context.Background(), r.ResourceID)

		// assert
		suite.NoError(err)
		suite.True(ok)
	})
	suite.Run("failure - missing resource", func() {
		// act
		ok, err := suite.resourceStore.DeleteVettedResource(context.Background(), 765_432)

		// assert
		suite.NoError(err)
		suite.False(ok)
	})
}

func (suite *resourceSQLStoreSuite) TestCategories() {
	suite.Run("success - categories listed and counted", func() {
		// arrange
		_, err := suite.resourceStore.CreateCategory(context.Background(), "Peer Support", "")
		suite.NoError(err)

		// act
		categories, listErr := suite.resourceStore.ListCategories(context.Background())
		count, countErr := suite.resourceStore.CountCategories(context.Background())

		// assert
		suite.NoError(listErr)
		suite.NoError(countErr)
		suite.Equal(int64(len(categories)), count)
		suite.True(slices.ContainsFunc(categories, func(c *Category) bool {
			return c.CategoryName == "Peer Support"
		}))
	})
	suite.Run("failure - duplicate category name", func() {
		// act
		_, err := suite.resourceStore.CreateCategory(context.Background(), "Crisis Support", "")

		// assert
		suite.Error(err)
		suite.True(IsUniqueConstraintError(err))
	})
}
