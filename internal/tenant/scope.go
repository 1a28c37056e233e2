package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant. Every tenant-scoped repository
// must apply it; queries without it are reserved for super-admin paths.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
