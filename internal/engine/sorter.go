package engine

import (
	"sort"

	"github.com/soyunomas/dupescan/internal/entities"
)

// rankGroups prepara los grupos confirmados para su presentación:
// descarta los de tamaño cero (aquí muere la cubeta degenerada de los
// archivos vacíos) y los de menos de dos miembros, y ordena el resto por
// tamaño descendente. El orden es estable: los empates de tamaño
// conservan el orden de inserción.
func rankGroups(groups []entities.DuplicateGroup) []entities.DuplicateGroup {
	ranked := make([]entities.DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		if g.Size == 0 || len(g.Paths) < 2 {
			continue
		}
		ranked = append(ranked, g)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Size > ranked[j].Size
	})

	return ranked
}
