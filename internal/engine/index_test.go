package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dupescan/internal/entities"
)

func rec(p string, size int64) entities.FileRecord {
	return entities.FileRecord{Path: p, RelPath: p, Size: size}
}

func TestCandidateIndexKeepsInsertionOrder(t *testing.T) {
	ix := newCandidateIndex()
	ix.insert(7, rec("a", 10))
	ix.insert(9, rec("b", 20))
	ix.insert(7, rec("c", 10))
	ix.insert(5, rec("solitario", 30))
	ix.insert(9, rec("d", 20))

	cands := ix.candidates()
	require.Len(t, cands, 2)

	// Las cubetas salen en orden de primera aparición del digest y los
	// miembros en orden de inserción. La cubeta de un solo miembro no sale.
	assert.Equal(t, []entities.FileRecord{rec("a", 10), rec("c", 10)}, cands[0])
	assert.Equal(t, []entities.FileRecord{rec("b", 20), rec("d", 20)}, cands[1])
}

func TestCandidateIndexEmpty(t *testing.T) {
	ix := newCandidateIndex()
	assert.Empty(t, ix.candidates())

	ix.insert(1, rec("solo", 1))
	assert.Empty(t, ix.candidates())
}
