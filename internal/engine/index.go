package engine

import (
	"sync"

	"github.com/soyunomas/dupescan/internal/entities"
)

// candidateIndex agrupa registros por su hash de prefijo. Crece durante
// la pasada de hashing y se consume una sola vez en la confirmación; no
// hay desalojo.
type candidateIndex struct {
	mu      sync.Mutex
	buckets map[uint64][]entities.FileRecord
	order   []uint64 // digests en orden de primera aparición
}

func newCandidateIndex() *candidateIndex {
	return &candidateIndex{buckets: make(map[uint64][]entities.FileRecord)}
}

// insert añade un registro a la cubeta de su digest. La primera
// inserción de un digest fija la posición de su cubeta en la salida.
func (ix *candidateIndex) insert(digest uint64, rec entities.FileRecord) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, seen := ix.buckets[digest]; !seen {
		ix.order = append(ix.order, digest)
	}
	ix.buckets[digest] = append(ix.buckets[digest], rec)
}

// candidates devuelve las cubetas con 2 o más miembros, en orden de
// primera inserción. Las de un solo miembro no necesitan confirmación.
func (ix *candidateIndex) candidates() [][]entities.FileRecord {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var out [][]entities.FileRecord
	for _, d := range ix.order {
		if b := ix.buckets[d]; len(b) >= 2 {
			out = append(out, b)
		}
	}
	return out
}
