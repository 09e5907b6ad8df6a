package inventory

import (
	"sort"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// lockParts bloquea todas las partes referenciadas por un lote de líneas
// antes de aplicar cualquier mutación. Los ids se deduplican y se ordenan
// ascendente: dos completados concurrentes que compartan partes adquieren
// los candados en el mismo orden y no pueden formar espera circular.
func lockParts(r TxRepos, partIDs []string) (map[string]*entity.Part, error) {
	seen := make(map[string]struct{}, len(partIDs))
	unique := make([]string, 0, len(partIDs))
	for _, id := range partIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	locked, err := r.Parts.ListForUpdate(unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Part, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}
	return byID, nil
}
