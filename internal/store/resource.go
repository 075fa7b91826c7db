package store

const Uncategorized = "Uncategorized"

type Category struct {
	CategoryID          int64  `db:"categoryid"          json:"categoryId"`
	CategoryName        string `db:"categoryname"        json:"categoryName"`
	CategoryDescription string `db:"categorydescription" json:"categoryDescription"`
}

type Resource struct {
	ResourceID        int64   `db:"resourceid"         json:"resourceId"`
	ResourceName      string  `db:"resourcename"       json:"resourceName"`
	ResourceURL       *string `db:"resourceurl"        json:"resourceUrl"`
	ResourcePhone     *string `db:"resourcephone"      json:"resourcePhone"`
	ResourceDesc      string  `db:"resourcedesc"       json:"resourceDesc"`
	CategoryID        *int64  `db:"categoryid"         json:"categoryId"`
	IsVetted          bool    `db:"isvetted"           json:"isVetted"`
	SubmittedByUserID *int64  `db:"submittedby_userid" json:"submittedByUserId"`

	// from the categories join
	CategoryName        *string `db:"categoryname"        json:"categoryName"`
	CategoryDescription *string `db:"categorydescription" json:"categoryDescription"`
}

func (r *Resource) CategoryLabel() string {
	if r.CategoryName == nil || *r.CategoryName == "" {
		return Uncategorized
	}
	return *r.CategoryName
}

func (r *Resource) IsSubmittedBy(userID int64) bool {
	return r.SubmittedByUserID != nil && *r.SubmittedByUserID == userID
}

type UserResource struct {
	UserID         int64  `db:"userid"`
	ResourceID     int64  `db:"resourceid"`
	NumViewed      int64  `db:"numviewed"`
	FavoriteStatus bool   `db:"favoritestatus"`
	Rating         *int64 `db:"rating"`
}
