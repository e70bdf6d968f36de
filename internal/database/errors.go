package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
)

// SyncError reports an entity whose table could not be synchronized. Code holds
// the driver error code when the failure came from the database.
type SyncError struct {
	Entity string
	Table  string
	Code   string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed to sync %s (table %s, code %s): %v", e.Entity, e.Table, e.Code, e.Err)
	}
	return fmt.Sprintf("failed to sync %s (table %s): %v", e.Entity, e.Table, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(t EntityType, table string, err error) *SyncError {
	return &SyncError{Entity: t.Name, Table: table, Code: errorCode(err), Err: err}
}

// errorCode extracts the vendor error code from a driver error.
func errorCode(err error) string {
	if err == nil {
		return ""
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return strconv.Itoa(int(msErr.Number))
	}

	return ""
}
