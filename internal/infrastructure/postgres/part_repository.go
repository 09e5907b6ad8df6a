package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, part_number, part_name, customer_code, supplier_code, model, variant,
	standard_packing, stock, address, is_active, created_at, updated_at, deleted_at`

// PartRepo implementación de PartRepository sobre PostgreSQL (usable con
// pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(
		&p.ID, &p.PartNumber, &p.PartName, &p.CustomerCode, &p.SupplierCode, &p.Model, &p.Variant,
		&p.StandardPacking, &p.Stock, &p.Address, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una nueva parte.
func (r *PartRepo) Create(part *entity.Part) error {
	query := `
		INSERT INTO parts (id, part_number, part_name, customer_code, supplier_code, model, variant,
			standard_packing, stock, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.PartNumber, part.PartName, part.CustomerCode, part.SupplierCode, part.Model,
		part.Variant, part.StandardPacking, part.Stock, part.Address, part.IsActive,
		part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene una parte viva por ID. Nil si no existe o está borrada.
func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPart(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene la parte y bloquea su fila (SELECT FOR UPDATE).
func (r *PartRepo) GetForUpdate(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	p, err := scanPart(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part for update: %w", err)
	}
	return p, nil
}

// ListForUpdate bloquea todas las partes indicadas en orden ascendente de id
// (orden fijo para evitar deadlocks entre completados concurrentes).
// ErrNotFound si alguna no existe o está soft-deleted.
func (r *PartRepo) ListForUpdate(ids []string) ([]*entity.Part, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + partColumns + `
		FROM parts WHERE id = ANY($1) AND deleted_at IS NULL
		ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock parts: %w", err)
	}
	defer rows.Close()

	var parts []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(parts) != len(ids) {
		return nil, fmt.Errorf("%w: alguna parte del lote no existe o está borrada", domain.ErrNotFound)
	}
	return parts, nil
}

// Update modifica los campos maestros (el stock va por UpdateStock).
func (r *PartRepo) Update(part *entity.Part) error {
	query := `
		UPDATE parts SET part_number = $2, part_name = $3, customer_code = $4, supplier_code = $5,
			model = $6, variant = $7, standard_packing = $8, address = $9, is_active = $10,
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query,
		part.ID, part.PartNumber, part.PartName, part.CustomerCode, part.SupplierCode,
		part.Model, part.Variant, part.StandardPacking, part.Address, part.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe el contador de stock. Reservado al Stock Ledger; el
// llamador sostiene el candado de fila dentro de la misma transacción.
func (r *PartRepo) UpdateStock(id string, stock int) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE parts SET stock = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca la parte como borrada; los movimientos históricos siguen
// apuntándola.
func (r *PartRepo) SoftDelete(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE parts SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista partes vivas con búsqueda y filtro de estado, paginadas.
func (r *PartRepo) List(filter repository.PartFilter) ([]*entity.Part, int, error) {
	where := " WHERE deleted_at IS NULL"
	args := []any{}
	pos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(` AND (part_number ILIKE $%d OR part_name ILIKE $%d OR customer_code ILIKE $%d OR supplier_code ILIKE $%d OR model ILIKE $%d)`,
			pos, pos, pos, pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	switch filter.StockStatus {
	case "active":
		where += " AND is_active"
	case "inactive":
		where += " AND NOT is_active"
	case entity.StockStatusIn:
		where += fmt.Sprintf(" AND stock > %d", entity.LowStockThreshold)
	case entity.StockStatusLow:
		where += fmt.Sprintf(" AND stock > 0 AND stock <= %d", entity.LowStockThreshold)
	case entity.StockStatusOut:
		where += " AND stock <= 0"
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM parts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count parts: %w", err)
	}

	query := "SELECT " + partColumns + " FROM parts" + where +
		fmt.Sprintf(" ORDER BY part_number LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var parts []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, total, rows.Err()
}

// HasTransactions indica si la parte aparece en líneas de recepción o salida.
func (r *PartRepo) HasTransactions(id string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (SELECT 1 FROM receiving_items WHERE part_id = $1)
			OR EXISTS (SELECT 1 FROM outgoing_items WHERE part_id = $1)`
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("part has transactions: %w", err)
	}
	return exists, nil
}
