package rbac

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Code        string   `json:"code" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Priority    int      `json:"priority"`
}

type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
	Priority    *int     `json:"priority"`
}

type AssignRoleRequest struct {
	UserID       string  `json:"user_id" binding:"required,uuid"`
	RoleID       string  `json:"role_id" binding:"required,uuid"`
	DepartmentID *string `json:"department_id"`
	ValidFrom    *string `json:"valid_from"`
	ValidUntil   *string `json:"valid_until"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Priority    int      `json:"priority"`
}

type AssignmentResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	RoleID       string  `json:"role_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	ValidFrom    *string `json:"valid_from,omitempty"`
	ValidUntil   *string `json:"valid_until,omitempty"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Module   string `json:"module"`
	Action   string `json:"action"`
	IsActive bool   `json:"is_active"`
}
