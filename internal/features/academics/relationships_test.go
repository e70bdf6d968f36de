package academics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
)

func TestDescribeRelationships(t *testing.T) {
	defs := DescribeRelationships()
	require.Len(t, defs, 10)
	assert.Equal(t, defs, DescribeRelationships())

	for _, def := range defs {
		assert.Equal(t, ModuleName, def.OwningModule, def.Key().String())
		assert.NotEqual(t, relations.ManyToMany, def.Kind)
	}

	periods := defs[8]
	assert.Equal(t, "SchoolYear->Period.periods", periods.Key().String())
	assert.Equal(t, "position ASC", periods.OrderBy())
	assert.Equal(t, relations.Cascade, periods.Referential().OnDelete)
}
