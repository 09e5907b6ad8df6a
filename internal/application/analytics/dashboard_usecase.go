package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/partes-api/internal/application/dto"
)

// StatsRepository puerto de agregación para el dashboard.
type StatsRepository interface {
	Collect() (*dto.DashboardStats, error)
}

// DashboardUseCase sirve las estadísticas del dashboard detrás de una caché
// explícita con TTL acotado (reemplaza la caché global implícita del sistema
// original). Las stats son una lectura incidental: servir datos de hasta
// unos segundos de antigüedad es aceptable.
type DashboardUseCase struct {
	repo StatsRepository
	ttl  time.Duration

	mu        sync.Mutex
	cached    *dto.DashboardStats
	fetchedAt time.Time
}

// NewDashboardUseCase construye el caso de uso. ttl <= 0 desactiva la caché.
func NewDashboardUseCase(repo StatsRepository, ttl time.Duration) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, ttl: ttl}
}

// Stats devuelve los agregados, desde caché si aún no expira el TTL.
func (uc *DashboardUseCase) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.cached != nil && uc.ttl > 0 && time.Since(uc.fetchedAt) < uc.ttl {
		return uc.cached, nil
	}
	stats, err := uc.repo.Collect()
	if err != nil {
		return nil, err
	}
	uc.cached = stats
	uc.fetchedAt = time.Now()
	return stats, nil
}
