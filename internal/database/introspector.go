package database

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
)

var log = logging.GetPackageLogger("database")

const introspectionTag = "schooldb:introspect"

// Introspector answers read-only questions about the live schema. Catalog errors
// are logged and answered as false. Nothing is cached; every call queries.
type Introspector struct {
	db     *gorm.DB
	schema string
	log    *zap.SugaredLogger
}

// NewIntrospector scopes queries to schemaName, or to the connection's active
// schema when schemaName is empty. sqlite ignores the schema.
func NewIntrospector(db *gorm.DB, schemaName string) *Introspector {
	return &Introspector{db: db, schema: schemaName, log: log}
}

// TableExists reports whether a base table named table exists. Views do not count.
func (i *Introspector) TableExists(ctx context.Context, table string) bool {
	var n int64
	var err error

	if i.dialect() == "sqlite" {
		err = i.query(ctx).
			Table("sqlite_master").
			Where("type = ? AND name = ?", "table", table).
			Count(&n).Error
	} else {
		scope, args := i.scope()
		err = i.query(ctx).
			Table("information_schema.tables").
			Where(scope+" AND table_name = ? AND table_type = ?", append(args, table, "BASE TABLE")...).
			Count(&n).Error
	}

	if err != nil {
		i.fail("Table lookup failed", err, "table", table)
		return false
	}
	return n > 0
}

// ColumnExists reports whether table has a column named column.
func (i *Introspector) ColumnExists(ctx context.Context, table, column string) bool {
	var n int64
	var err error

	if i.dialect() == "sqlite" {
		err = i.query(ctx).
			Table("pragma_table_info(?)", table).
			Where("name = ?", column).
			Count(&n).Error
	} else {
		scope, args := i.scope()
		err = i.query(ctx).
			Table("information_schema.columns").
			Where(scope+" AND table_name = ? AND column_name = ?", append(args, table, column)...).
			Count(&n).Error
	}

	if err != nil {
		i.fail("Column lookup failed", err, "table", table, "column", column)
		return false
	}
	return n > 0
}

// Columns lists the column names of table in ordinal order. A missing table or a
// failed lookup yields nil.
func (i *Introspector) Columns(ctx context.Context, table string) []string {
	var cols []string
	var err error

	if i.dialect() == "sqlite" {
		err = i.query(ctx).
			Table("pragma_table_info(?)", table).
			Order("cid").
			Pluck("name", &cols).Error
	} else {
		scope, args := i.scope()
		err = i.query(ctx).
			Table("information_schema.columns").
			Where(scope+" AND table_name = ?", append(args, table)...).
			Order("ordinal_position").
			Pluck("column_name", &cols).Error
	}

	if err != nil {
		i.fail("Column listing failed", err, "table", table)
		return nil
	}
	return cols
}

// Tables lists the base tables in scope, sorted by name.
func (i *Introspector) Tables(ctx context.Context) []string {
	var tables []string
	var err error

	if i.dialect() == "sqlite" {
		err = i.query(ctx).
			Table("sqlite_master").
			Where("type = ? AND name NOT LIKE ?", "table", "sqlite_%").
			Order("name").
			Pluck("name", &tables).Error
	} else {
		scope, args := i.scope()
		err = i.query(ctx).
			Table("information_schema.tables").
			Where(scope+" AND table_type = ?", append(args, "BASE TABLE")...).
			Order("table_name").
			Pluck("table_name", &tables).Error
	}

	if err != nil {
		i.fail("Table listing failed", err)
		return nil
	}
	return tables
}

func (i *Introspector) query(ctx context.Context) *gorm.DB {
	return i.db.WithContext(ctx).Clauses(hints.CommentBefore("select", introspectionTag))
}

func (i *Introspector) dialect() string {
	return i.db.Dialector.Name()
}

// scope returns the table_schema condition for the configured or active schema.
func (i *Introspector) scope() (string, []interface{}) {
	if i.schema != "" {
		return "table_schema = ?", []interface{}{i.schema}
	}
	switch i.dialect() {
	case "mysql":
		return "table_schema = DATABASE()", nil
	case "sqlserver":
		return "table_schema = SCHEMA_NAME()", nil
	default:
		return "table_schema = CURRENT_SCHEMA()", nil
	}
}

func (i *Introspector) fail(msg string, err error, keysAndValues ...interface{}) {
	fields := append([]interface{}{"dialect", i.dialect(), "code", errorCode(err), "error", err}, keysAndValues...)
	i.log.Errorw(msg, fields...)
}
