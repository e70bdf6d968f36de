// Package data embeds SQL fixtures that reproduce schema drift seen in deployed
// databases. The statements use ANSI quoting (postgres, sqlite).
package data

import (
	_ "embed"
)

//go:embed drift/001-legacy-join-tables.sql
var DriftLegacyJoinTables string

//go:embed drift/002-malformed-join-table.sql
var DriftMalformedJoinTable string

//go:embed drift/003-join-table-view.sql
var DriftJoinTableView string

//go:embed drift/004-base-table-view.sql
var DriftBaseTableView string
