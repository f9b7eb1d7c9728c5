package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dupescan/internal/entities"
)

func TestRankGroupsFiltersAndSorts(t *testing.T) {
	groups := []entities.DuplicateGroup{
		{Digest: 1, Size: 100, Paths: []string{"a", "b"}},
		{Digest: 2, Size: 0, Paths: []string{"v1", "v2"}},
		{Digest: 3, Size: 500, Paths: []string{"c", "d"}},
		{Digest: 4, Size: 100, Paths: []string{"e", "f"}},
		{Digest: 5, Size: 900, Paths: []string{"huerfano"}},
	}

	ranked := rankGroups(groups)

	// Fuera los de tamaño cero y los de menos de dos miembros; el resto
	// de mayor a menor y los empates en su orden de inserción.
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(500), ranked[0].Size)
	assert.Equal(t, uint64(1), ranked[1].Digest)
	assert.Equal(t, uint64(4), ranked[2].Digest)
}

func TestRankGroupsEmpty(t *testing.T) {
	assert.Empty(t, rankGroups(nil))
	assert.Empty(t, rankGroups([]entities.DuplicateGroup{
		{Digest: 9, Size: 0, Paths: []string{"x", "y"}},
	}))
}
