package identity

import (
	"context"

	"github.com/google/uuid"
)

// PermissionSnapshot is the pre-resolved permission state for one caller.
// Implementations must be pure: no I/O inside Allows.
type PermissionSnapshot interface {
	Allows(code string) bool
	AllowsInDepartment(code string, departmentID string) bool
	MaxPriority() int
}

// CallerContext carries the resolved identity and authorization facts for
// one request. It is built once per request by the resolver middleware,
// passed explicitly to every layer that needs it, and discarded at request
// end. It must never be cached across requests.
type CallerContext struct {
	UserID       uuid.UUID
	EmployeeID   *uuid.UUID
	TenantID     *uuid.UUID // nil iff super admin
	IsSuperAdmin bool
	RoleCodes    []string
	DepartmentID *uuid.UUID // optional scope for department-bound roles
	Permissions  PermissionSnapshot
}

// Authorize reports whether the caller holds the permission code.
// Super admins authorize trivially without a snapshot.
func (c CallerContext) Authorize(code string) bool {
	if c.IsSuperAdmin {
		return true
	}
	if c.Permissions == nil {
		return false
	}
	return c.Permissions.Allows(code)
}

// AuthorizeInDepartment is Authorize for operations constrained to one
// department: department-scoped role grants only count for that department.
func (c CallerContext) AuthorizeInDepartment(code string, departmentID string) bool {
	if c.IsSuperAdmin {
		return true
	}
	if c.Permissions == nil {
		return false
	}
	return c.Permissions.AllowsInDepartment(code, departmentID)
}

// Tenant returns the tenant id as string, empty for super admins.
func (c CallerContext) Tenant() string {
	if c.TenantID == nil {
		return ""
	}
	return c.TenantID.String()
}

type callerKey struct{}

// WithCaller threads the caller through a request context.
func WithCaller(ctx context.Context, caller CallerContext) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom extracts the caller; ok is false when no caller was resolved
// (public endpoints).
func CallerFrom(ctx context.Context) (CallerContext, bool) {
	caller, ok := ctx.Value(callerKey{}).(CallerContext)
	return caller, ok
}
