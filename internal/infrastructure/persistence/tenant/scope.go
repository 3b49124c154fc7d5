// Package tenant provides multi-tenant database scoping for GORM.
//
// Isolation is enforced at the persistence layer: every tenant-owned table
// carries a tenant_id column and every repository query goes through Scope,
// so a record written under one tenant can never surface under another.
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope restricts a query to rows belonging to the given tenant
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
