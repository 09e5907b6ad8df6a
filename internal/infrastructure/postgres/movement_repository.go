package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger append-only sobre PostgreSQL.
// Solo INSERT y SELECT: la tabla part_movements no se actualiza ni se borra.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta una entrada del ledger.
func (r *MovementRepo) Create(movement *entity.PartMovement) error {
	query := `
		INSERT INTO part_movements (id, part_id, stock_before, type, qty, stock_after, reference_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.PartID, movement.StockBefore, movement.Type, movement.Qty,
		movement.StockAfter, movement.ReferenceType, movement.ReferenceID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

const movementColumns = `id, part_id, stock_before, type, qty, stock_after, reference_type, reference_id, created_at`

// List consulta el ledger con filtros y paginación. Descendente por fecha
// por defecto; ascendente para la sincronización a hoja de cálculo.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.PartMovement, int, error) {
	where := " WHERE TRUE"
	args := []any{}
	pos := 1

	if filter.PartID != "" {
		where += fmt.Sprintf(" AND part_id = $%d", pos)
		args = append(args, filter.PartID)
		pos++
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.ReferenceType != "" {
		where += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, filter.ReferenceType)
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM part_movements"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	order := " ORDER BY created_at DESC, id DESC"
	if filter.Ascending {
		order = " ORDER BY created_at ASC, id ASC"
	}
	query := "SELECT " + movementColumns + " FROM part_movements" + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.PartMovement
	for rows.Next() {
		var m entity.PartMovement
		if err := rows.Scan(&m.ID, &m.PartID, &m.StockBefore, &m.Type, &m.Qty, &m.StockAfter,
			&m.ReferenceType, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, total, rows.Err()
}

// ListByReference devuelve los movimientos generados por un documento
// concreto, en orden de inserción.
func (r *MovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.PartMovement, error) {
	rows, err := r.q.Query(context.Background(),
		"SELECT "+movementColumns+` FROM part_movements
		 WHERE reference_type = $1 AND reference_id = $2 ORDER BY created_at, id`,
		referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()

	var movements []*entity.PartMovement
	for rows.Next() {
		var m entity.PartMovement
		if err := rows.Scan(&m.ID, &m.PartID, &m.StockBefore, &m.Type, &m.Qty, &m.StockAfter,
			&m.ReferenceType, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
