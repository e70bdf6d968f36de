package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Attributes is a free-form JSON object column. It wraps datatypes.JSONMap so the
// column type can be chosen per dialect.
type Attributes struct {
	datatypes.JSONMap
}

// NewAttributes wraps m.
func NewAttributes(m map[string]interface{}) Attributes {
	return Attributes{JSONMap: datatypes.JSONMap(m)}
}

// Value promotes the embedded map's Value method
func (a Attributes) Value() (driver.Value, error) {
	return a.JSONMap.Value()
}

// Scan promotes the embedded map's Scan method
func (a *Attributes) Scan(value interface{}) error {
	return a.JSONMap.Scan(value)
}

// Lookup returns the value stored under key.
func (a Attributes) Lookup(key string) (interface{}, bool) {
	v, ok := a.JSONMap[key]
	return v, ok
}

// GormDBDataType picks a JSON-capable column type for each driver. SQL Server has
// no json type.
func (Attributes) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
