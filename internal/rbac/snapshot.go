package rbac

import (
	"time"

	"github.com/google/uuid"
)

// Grant is one role assignment joined with its role definition, as loaded
// by the repository for snapshot construction.
type Grant struct {
	RoleCode     string
	Priority     int
	Permissions  []string
	DepartmentID *uuid.UUID
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

func (g Grant) isValidOn(day time.Time) bool {
	a := UserRoleAssignment{ValidFrom: g.ValidFrom, ValidUntil: g.ValidUntil}
	return a.IsValidOn(day)
}

// Snapshot is the effective permission state for one caller, computed once
// at CallerContext construction. All checks are pure map lookups.
type Snapshot struct {
	global      map[string]struct{}
	byDept      map[uuid.UUID]map[string]struct{}
	roleCodes   []string
	maxPriority int
}

// BuildSnapshot unions permission codes over all grants valid on the given
// day. Grants without a department scope go to the global set; scoped
// grants only count inside their department. Permissions are additive.
func BuildSnapshot(grants []Grant, day time.Time) *Snapshot {
	s := &Snapshot{
		global: make(map[string]struct{}),
		byDept: make(map[uuid.UUID]map[string]struct{}),
	}

	first := true
	for _, g := range grants {
		if !g.isValidOn(day) {
			continue
		}

		s.roleCodes = append(s.roleCodes, g.RoleCode)
		if first || g.Priority > s.maxPriority {
			s.maxPriority = g.Priority
			first = false
		}

		target := s.global
		if g.DepartmentID != nil {
			dept := *g.DepartmentID
			if s.byDept[dept] == nil {
				s.byDept[dept] = make(map[string]struct{})
			}
			target = s.byDept[dept]
		}
		for _, code := range g.Permissions {
			target[code] = struct{}{}
		}
	}

	return s
}

// Allows reports whether the caller holds the permission code without a
// department constraint. Department-scoped grants do not apply here.
func (s *Snapshot) Allows(code string) bool {
	_, ok := s.global[code]
	return ok
}

// AllowsInDepartment checks a department-constrained operation: global
// grants always apply, scoped grants only for the matching department.
func (s *Snapshot) AllowsInDepartment(code string, departmentID string) bool {
	if s.Allows(code) {
		return true
	}
	dept, err := uuid.Parse(departmentID)
	if err != nil {
		return false
	}
	perms, ok := s.byDept[dept]
	if !ok {
		return false
	}
	_, ok = perms[code]
	return ok
}

// MaxPriority is the highest priority over valid assignments, exposed for
// business-rule ordering ("most senior role"). Zero when no valid grant.
func (s *Snapshot) MaxPriority() int {
	return s.maxPriority
}

// RoleCodes lists the codes of roles with at least one valid assignment.
func (s *Snapshot) RoleCodes() []string {
	return s.roleCodes
}
