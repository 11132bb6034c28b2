// file: internals/helpers/gorm_lock.go
package helper

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate adds FOR UPDATE on dialects that support it. SQLite (used by
// the test suites) serializes writers on its own and rejects the clause.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
