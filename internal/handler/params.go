package handler

type LoginParams struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type RegisterParams struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Email    string `form:"email"    json:"email"`
	Level    string `form:"level"    json:"level"`
	Phone    string `form:"phone"    json:"phone"`
}

type ProfileParams struct {
	Email string `form:"email" json:"email"`
	Phone string `form:"phone" json:"phone"`
}

type ResourceParams struct {
	ResourceID    int64  `form:"resourceId"    json:"resourceId"`
	ResourceName  string `form:"resourceName"  json:"resourceName"`
	ResourceURL   string `form:"resourceUrl"   json:"resourceUrl"`
	ResourcePhone string `form:"resourcePhone" json:"resourcePhone"`
	ResourceDesc  string `form:"resourceDesc"  json:"resourceDesc"`
	CategoryID    int64  `form:"categoryId"    json:"categoryId"`
}

type UpdateRoleParams struct {
	UserID int64  `form:"userId" json:"userId"`
	Level  string `form:"level"  json:"level"`
	RoleID int64  `form:"roleId" json:"roleId"`
}

type successResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResourceID int64  `json:"resourceId,omitempty"`
}

type togglePinResponse struct {
	Success  bool `json:"success"`
	IsPinned bool `json:"isPinned"`
}
