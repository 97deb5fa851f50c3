package db

import (
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// softDeleteField is the struct field that marks a model as soft-deletable.
const softDeleteField = "IsDeleted"

// ErrPhysicalDelete is returned when a soft-deletable row is deleted without Unscoped.
var ErrPhysicalDelete = errors.New("physical delete of soft-deletable record is not allowed")

// ErrDeletedRecord is returned when Save targets a soft-deleted row. Only Unscoped().Save can restore one.
var ErrDeletedRecord = errors.New("record is soft-deleted")

// RegisterSoftDelete installs callbacks that hide soft-deleted rows from every statement
// issued through db. Models opt in by having an IsDeleted field (see shared/base.Entity).
//
//   - queries (First/Find/Count/Pluck/...) and row lookups get "is_deleted = false"
//   - updates with a WHERE clause or a model carrying its primary key get the same
//     predicate, so a deleted row can't be modified or deleted twice
//   - Save of a deleted row fails with ErrDeletedRecord instead of resurrecting it
//   - Delete is rejected; callers flip the flag instead
//
// Unscoped() bypasses all of them.
func RegisterSoftDelete(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").
		Register("softdelete:query", filterDeleted); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").
		Register("softdelete:row", filterDeleted); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").
		Register("softdelete:update", filterDeletedOnUpdate); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").
		Register("softdelete:delete", rejectPhysicalDelete)
}

func softDeleteColumn(db *gorm.DB) (string, bool) {
	stmt := db.Statement
	if stmt.Schema == nil || stmt.Unscoped || stmt.SQL.Len() > 0 {
		return "", false
	}
	field := stmt.Schema.LookUpField(softDeleteField)
	if field == nil {
		return "", false
	}
	return field.DBName, true
}

func filterDeleted(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	if column, ok := softDeleteColumn(db); ok {
		addNotDeleted(db.Statement, column)
	}
}

func filterDeletedOnUpdate(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	column, ok := softDeleteColumn(db)
	if !ok {
		return
	}
	stmt := db.Statement
	if _, hasWhere := stmt.Clauses["WHERE"]; hasWhere || stmt.AllowGlobalUpdate {
		addNotDeleted(stmt, column)
		return
	}

	// gorm:update adds the primary key condition itself. Without one it refuses the update
	// (ErrMissingWhereClause); adding ours first would defeat that guard.
	pk, pkValue, ok := primaryKeyOf(stmt)
	if !ok {
		return
	}
	if isSave(stmt) {
		// Save falls back to an upsert when the update matches nothing, which would
		// overwrite the deleted row with is_deleted = false.
		deleted, err := isDeleted(db, column, pk, pkValue)
		if err != nil {
			_ = db.AddError(err)
			return
		}
		if deleted {
			_ = db.AddError(ErrDeletedRecord)
			return
		}
	}
	addNotDeleted(stmt, column)
}

func primaryKeyOf(stmt *gorm.Statement) (*schema.Field, any, bool) {
	pk := stmt.Schema.PrioritizedPrimaryField
	if pk == nil || stmt.ReflectValue.Kind() != reflect.Struct {
		return nil, nil, false
	}
	value, zero := pk.ValueOf(stmt.Context, stmt.ReflectValue)
	if zero {
		return nil, nil, false
	}
	return pk, value, true
}

// isSave reports a full-row update as issued by db.Save.
func isSave(stmt *gorm.Statement) bool {
	for _, s := range stmt.Selects {
		if s == "*" {
			return true
		}
	}
	return false
}

func isDeleted(db *gorm.DB, column string, pk *schema.Field, pkValue any) (bool, error) {
	var flags []bool
	err := db.Session(&gorm.Session{NewDB: true}).Unscoped().
		Model(reflect.New(db.Statement.Schema.ModelType).Interface()).
		Where(clause.Eq{Column: clause.Column{Name: pk.DBName}, Value: pkValue}).
		Pluck(column, &flags).Error
	if err != nil {
		return false, fmt.Errorf("failed to check soft-delete state: %w", err)
	}
	return len(flags) > 0 && flags[0], nil
}

func rejectPhysicalDelete(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	if _, ok := softDeleteColumn(db); ok {
		_ = db.AddError(ErrPhysicalDelete)
	}
}

func addNotDeleted(stmt *gorm.Statement, column string) {
	if _, applied := stmt.Settings.Load("softdelete:applied"); applied {
		return
	}
	stmt.Settings.Store("softdelete:applied", true)

	// A lone OR condition would otherwise swallow the predicate: "a OR b AND NOT deleted".
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok && len(where.Exprs) >= 1 {
			for _, expr := range where.Exprs {
				if orCond, ok := expr.(clause.OrConditions); ok && len(orCond.Exprs) == 1 {
					where.Exprs = []clause.Expression{clause.And(where.Exprs...)}
					c.Expression = where
					stmt.Clauses["WHERE"] = c
					break
				}
			}
		}
	}

	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: false},
	}})
}
