package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

const resourceColumns = `
	r.resourceid,
	r.resourcename,
	r.resourceurl,
	r.resourcephone,
	r.resourcedesc,
	r.categoryid,
	r.isvetted,
	r.submittedby_userid,
	c.categoryname,
	c.categorydescription
`

const resourceFrom = `
	from resources r
	left join categories c on c.categoryid = r.categoryid
`

type ResourceSQLStore struct {
	rdb  *sql.DB
	rwdb *sql.DB
}

func NewResourceSQLStore(rdb, rwdb *sql.DB) *ResourceSQLStore {
	return &ResourceSQLStore{rdb, rwdb}
}

// ListVettedResources returns vetted resources grouped by category id with
// uncategorized resources last, then by name.
func (store *ResourceSQLStore) ListVettedResources(ctx context.Context) ([]*Resource, error) {
	resources := []*Resource{}
	err := sqlscan.Select(
		ctx, store.rdb, &resources,
		`select `+resourceColumns+resourceFrom+`
		where r.isvetted = $1
		order by
			case when r.categoryid is null then 1 else 0 end,
			r.categoryid,
			r.resourcename`,
		true,
	)
	return resources, err
}

// ListVettedResourcesByID is the admin listing, ordered by resource id.
func (store *ResourceSQLStore) ListVettedResourcesByID(ctx context.Context) ([]*Resource, error) {
	resources := []*Resource{}
	err := sqlscan.Select(
		ctx, store.rdb, &resources,
		`select `+resourceColumns+resourceFrom+`
		where r.isvetted = $1
		order by r.resourceid`,
		true,
	)
	return resources, err
}

func (store *ResourceSQLStore) ListResourcesSubmittedBy(
	ctx context.Context,
	userID int64,
) ([]*Resource, error) {
	resources := []*Resource{}
	err := sqlscan.Select(
		ctx, store.rdb, &resources,
		`select `+resourceColumns+resourceFrom+`
		where r.submittedby_userid = $1
		order by r.resourcename`,
		userID,
	)
	return resources, err
}

func (store *ResourceSQLStore) ListPinnedResourceIDs(
	ctx context.Context,
	userID int64,
) ([]int64, error) {
	ids := []int64{}
	err := sqlscan.Select(
		ctx, store.rdb, &ids,
		`select resourceid from user_resource
		where userid = $1 and favoritestatus = $2`,
		userID, true,
	)
	return ids, err
}

func (store *ResourceSQLStore) ReadResourceByID(
	ctx context.Context,
	resourceID int64,
) (*Resource, error) {
	r := new(Resource)
	if err := sqlscan.Get(
		ctx, store.rdb, r,
		`select `+resourceColumns+resourceFrom+`
		where r.resourceid = $1`,
		resourceID,
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (store *ResourceSQLStore) ReadUserResource(
	ctx context.Context,
	userID, resourceID int64,
) (*UserResource, error) {
	ur := new(UserResource)
	if err := sqlscan.Get(
		ctx, store.rdb, ur,
		`select userid, resourceid, numviewed, favoritestatus, rating
		from user_resource
		where userid = $1 and resourceid = $2`,
		userID, resourceID,
	); err != nil {
		return nil, err
	}
	return ur, nil
}

// TogglePin flips the favourite status of the user's association row,
// creating it pinned when absent, and returns the resulting status.
func (store *ResourceSQLStore) TogglePin(
	ctx context.Context,
	userID, resourceID int64,
) (bool, error) {
	var pinned bool
	err := sqlscan.Get(
		ctx, store.rwdb, &pinned,
		`insert into user_resource (userid, resourceid, numviewed, favoritestatus, rating)
		values ($1, $2, 0, $3, null)
		on conflict (userid, resourceid)
		do update set favoritestatus = not user_resource.favoritestatus
		returning favoritestatus`,
		userID, resourceID, true,
	)
	return pinned, err
}

// CreateCustomResource stores an unvetted resource owned by userID and pins
// it for that user in one transaction.
func (store *ResourceSQLStore) CreateCustomResource(
	ctx context.Context,
	userID int64,
	name, url, desc string,
) (*Resource, error) {
	r := &Resource{
		ResourceName:      name,
		ResourceURL:       &url,
		ResourceDesc:      desc,
		SubmittedByUserID: &userID,
	}
	err := withTx(ctx, store.rwdb, func(tx *sql.Tx) error {
		if err := sqlscan.Get(
			ctx, tx, &r.ResourceID,
			`insert into resources (
				resourcename,
				resourceurl,
				resourcedesc,
				isvetted,
				submittedby_userid
			)
			values ($1, $2, $3, $4, $5)
			returning resourceid`,
			name, url, desc, false, userID,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(
			ctx,
			`insert into user_resource (userid, resourceid, numviewed, favoritestatus, rating)
			values ($1, $2, 0, $3, null)`,
			userID, r.ResourceID, true,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateCustomResource updates a non-vetted resource submitted by userID and
// reports whether a row matched.
func (store *ResourceSQLStore) UpdateCustomResource(
	ctx context.Context,
	userID, resourceID int64,
	name, url, desc string,
) (bool, error) {
	res, err := store.rwdb.ExecContext(
		ctx,
		`update resources
		set resourcename = $1,
			resourceurl = $2,
			resourcedesc = $3
		where resourceid = $4
			and submittedby_userid = $5
			and isvetted = $6`,
		name, url, desc, resourceID, userID, false,
	)
	return rowsMatched(res, err)
}

func (store *ResourceSQLStore) DeleteCustomResource(
	ctx context.Context,
	userID, resourceID int64,
) (bool, error) {
	res, err := store.rwdb.ExecContext(
		ctx,
		`delete from resources
		where resourceid = $1
			and submittedby_userid = $2
			and isvetted = $3`,
		resourceID, userID, false,
	)
	return rowsMatched(res, err)
}

func (store *ResourceSQLStore) CreateVettedResource(
	ctx context.Context,
	r *Resource,
) (*Resource, error) {
	created := *r
	created.IsVetted = true
	created.SubmittedByUserID = nil
	if err := sqlscan.Get(
		ctx, store.rwdb, &created.ResourceID,
		`insert into resources (
			resourcename,
			resourceurl,
			resourcephone,
			resourcedesc,
			categoryid,
			isvetted,
			submittedby_userid
		)
		values ($1, $2, $3, $4, $5, $6, null)
		returning resourceid`,
		created.ResourceName,
		created.ResourceURL,
		created.ResourcePhone,
		created.ResourceDesc,
		created.CategoryID,
		true,
	); err != nil {
		return nil, err
	}
	return &created, nil
}

func (store *ResourceSQLStore) UpdateVettedResource(
	ctx context.Context,
	r *Resource,
) (bool, error) {
	res, err := store.rwdb.ExecContext(
		ctx,
		`update resources
		set resourcename = $1,
			resourceurl = $2,
			resourcephone = $3,
			resourcedesc = $4,
			categoryid = $5
		where resourceid = $6 and isvetted = $7`,
		r.ResourceName,
		r.ResourceURL,
		r.ResourcePhone,
		r.ResourceDesc,
		r.CategoryID,
		r.ResourceID,
		true,
	)
	return rowsMatched(res, err)
}

func (store *ResourceSQLStore) DeleteVettedResource(
	ctx context.Context,
	resourceID int64,
) (bool, error) {
	res, err := store.rwdb.ExecContext(
		ctx,
		`delete from resources where resourceid = $1 and isvetted = $2`,
		resourceID, true,
	)
	return rowsMatched(res, err)
}

func (store *ResourceSQLStore) CreateCategory(
	ctx context.Context,
	name, description string,
) (*Category, error) {
	c := &Category{CategoryName: name, CategoryDescription: description}
	if err := sqlscan.Get(
		ctx, store.rwdb, &c.CategoryID,
		`insert into categories (categoryname, categorydescription)
		values ($1, $2)
		returning categoryid`,
		name, description,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func (store *ResourceSQLStore) ListCategories(ctx context.Context) ([]*Category, error) {
	categories := []*Category{}
	err := sqlscan.Select(
		ctx, store.rdb, &categories,
		`select categoryid, categoryname, categorydescription
		from categories
		order by categoryid`,
	)
	return categories, err
}

func (store *ResourceSQLStore) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := sqlscan.Get(ctx, store.rdb, &count, `select count(*) from categories`)
	return count, err
}

func rowsMatched(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
