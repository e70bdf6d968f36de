package relations

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindText(t *testing.T) {
	def := NewManyToMany("Role", "Permission", ManyToManyOptions{Through: "RolePermission"})
	out, err := json.Marshal(def)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"ManyToMany"`)

	var back Definition
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, ManyToMany, back.Kind)
	assert.Equal(t, "permissionId", back.OtherKey)

	var k Kind
	assert.ErrorContains(t, k.UnmarshalText([]byte("HasMany")), `unknown relationship kind "HasMany"`)
}
