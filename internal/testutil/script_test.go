package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgadza/mn-school-db-v2-sub003/data"
)

func TestExcludeComment(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"SELECT 1; -- trailing", "SELECT 1; "},
		{"-- whole line", ""},
		{`SELECT '--not a comment' AS x`, `SELECT '--not a comment' AS x`},
		{`SELECT "a--b" FROM t -- comment`, `SELECT "a--b" FROM t `},
		{`SELECT 'it''s' -- two quotes`, `SELECT 'it''s' `},
		{`SELECT 'unterminated -- still in`, `SELECT 'unterminated -- still in`},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, excludeComment(tc.in), tc.in)
	}
}

func TestExecScriptRunsDriftFixtures(t *testing.T) {
	db := NewSQLiteDB(t)

	require.NoError(t, ExecScript(db, data.DriftLegacyJoinTables))
	require.NoError(t, ExecScript(db, data.DriftMalformedJoinTable))

	var count int64
	require.NoError(t, db.Table("role_permissions").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.True(t, db.Migrator().HasTable("RolePermissions"))
	assert.True(t, db.Migrator().HasTable("UserRoles"))
}

func TestExecScriptReportsFailingStatement(t *testing.T) {
	db := NewSQLiteDB(t)

	err := ExecScript(db, "CREATE TABLE a (id int);\nCREATE TABLE a (id int);")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "when executing > CREATE TABLE a (id int)")
}
