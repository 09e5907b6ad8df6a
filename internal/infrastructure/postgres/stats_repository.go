package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/partes-api/internal/application/analytics"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

var _ analytics.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agrega los contadores del dashboard en una sola pasada por
// tabla con FILTER, sin bloquear filas.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de agregación.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// Collect ejecuta las cuatro agregaciones y arma la respuesta.
func (r *StatsRepo) Collect() (*dto.DashboardStats, error) {
	ctx := context.Background()
	var stats dto.DashboardStats

	err := r.q.QueryRow(ctx, fmt.Sprintf(`
		SELECT count(*),
			count(*) FILTER (WHERE is_active),
			count(*) FILTER (WHERE stock > 0 AND stock <= %d),
			count(*) FILTER (WHERE stock <= 0)
		FROM parts WHERE deleted_at IS NULL`, entity.LowStockThreshold)).Scan(
		&stats.Parts.Total, &stats.Parts.Active, &stats.Parts.LowStock, &stats.Parts.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("collect part stats: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE status = $1),
			count(*) FILTER (WHERE status = $2),
			count(*) FILTER (WHERE status = $2 AND is_gr = FALSE)
		FROM receivings WHERE deleted_at IS NULL`,
		entity.StatusDraft, entity.StatusCompleted).Scan(
		&stats.Receivings.Total, &stats.Receivings.Draft, &stats.Receivings.Completed, &stats.Receivings.PendingConfirm)
	if err != nil {
		return nil, fmt.Errorf("collect receiving stats: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE status = $1),
			count(*) FILTER (WHERE status = $2),
			count(*) FILTER (WHERE status = $2 AND is_gi = FALSE)
		FROM outgoings WHERE deleted_at IS NULL`,
		entity.StatusDraft, entity.StatusCompleted).Scan(
		&stats.Outgoings.Total, &stats.Outgoings.Draft, &stats.Outgoings.Completed, &stats.Outgoings.PendingConfirm)
	if err != nil {
		return nil, fmt.Errorf("collect outgoing stats: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE status = $1),
			count(*) FILTER (WHERE status = $2),
			(SELECT count(*) FROM request_lists rl
				JOIN requests rq ON rq.id = rl.request_id
				WHERE rq.deleted_at IS NULL AND rq.status = $2 AND rl.is_supplied = FALSE)
		FROM requests WHERE deleted_at IS NULL`,
		entity.StatusDraft, entity.StatusCompleted).Scan(
		&stats.Requests.Total, &stats.Requests.Draft, &stats.Requests.Completed, &stats.Requests.PendingItems)
	if err != nil {
		return nil, fmt.Errorf("collect request stats: %w", err)
	}

	return &stats, nil
}
