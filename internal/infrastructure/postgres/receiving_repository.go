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

var _ repository.ReceivingRepository = (*ReceivingRepo)(nil)

// ReceivingRepo implementación de ReceivingRepository sobre PostgreSQL.
type ReceivingRepo struct {
	q Querier
}

// NewReceivingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivingRepository(q Querier) *ReceivingRepo {
	return &ReceivingRepo{q: q}
}

// Create persiste el documento y sus líneas.
func (r *ReceivingRepo) Create(receiving *entity.Receiving) error {
	query := `
		INSERT INTO receivings (id, doc_number, received_by, received_at, status, notes, is_gr, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		receiving.ID, receiving.DocNumber, receiving.ReceivedBy, receiving.ReceivedAt,
		receiving.Status, receiving.Notes, receiving.IsGR, receiving.CreatedAt, receiving.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert receiving: %w", err)
	}
	return r.insertItems(receiving.ID, receiving.Items)
}

func (r *ReceivingRepo) insertItems(receivingID string, items []entity.ReceivingItem) error {
	for i := range items {
		it := &items[i]
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO receiving_items (id, receiving_id, part_id, qty, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			it.ID, receivingID, it.PartID, it.Qty,
		)
		if err != nil {
			return fmt.Errorf("insert receiving item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el documento con sus líneas cargadas. Nil si no existe.
func (r *ReceivingRepo) GetByID(id string) (*entity.Receiving, error) {
	var rec entity.Receiving
	err := r.q.QueryRow(context.Background(), `
		SELECT id, doc_number, received_by, received_at, status, notes, is_gr, created_at, updated_at, deleted_at
		FROM receivings WHERE id = $1 AND deleted_at IS NULL`, id).Scan(
		&rec.ID, &rec.DocNumber, &rec.ReceivedBy, &rec.ReceivedAt, &rec.Status, &rec.Notes,
		&rec.IsGR, &rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiving: %w", err)
	}

	items, err := r.loadItems(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return &rec, nil
}

func (r *ReceivingRepo) loadItems(receivingID string) ([]entity.ReceivingItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, receiving_id, part_id, qty, created_at, updated_at
		FROM receiving_items WHERE receiving_id = $1 ORDER BY created_at, id`, receivingID)
	if err != nil {
		return nil, fmt.Errorf("load receiving items: %w", err)
	}
	defer rows.Close()

	var items []entity.ReceivingItem
	for rows.Next() {
		var it entity.ReceivingItem
		if err := rows.Scan(&it.ID, &it.ReceivingID, &it.PartID, &it.Qty, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan receiving item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update modifica la cabecera del documento, incluido el doc_number.
func (r *ReceivingRepo) Update(receiving *entity.Receiving) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE receivings SET doc_number = $2, received_by = $3, received_at = $4, notes = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		receiving.ID, receiving.DocNumber, receiving.ReceivedBy, receiving.ReceivedAt, receiving.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update receiving: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra la colección vigente y la sustituye completa.
func (r *ReceivingRepo) ReplaceItems(receivingID string, items []entity.ReceivingItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM receiving_items WHERE receiving_id = $1`, receivingID); err != nil {
		return fmt.Errorf("delete receiving items: %w", err)
	}
	return r.insertItems(receivingID, items)
}

// UpdateStatus cambia el estado del documento.
func (r *ReceivingRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE receivings SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update receiving status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetGR marca la confirmación Goods Receipt (transición única false -> true).
func (r *ReceivingRepo) SetGR(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE receivings SET is_gr = TRUE, updated_at = now() WHERE id = $1 AND deleted_at IS NULL AND is_gr = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set receiving gr: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// SoftDelete marca el documento como borrado.
func (r *ReceivingRepo) SoftDelete(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE receivings SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete receiving: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista documentos vivos filtrados, más recientes primero, con líneas.
func (r *ReceivingRepo) List(filter repository.DocumentFilter) ([]*entity.Receiving, int, error) {
	where := " WHERE deleted_at IS NULL"
	args := []any{}
	pos := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.PendingConfirm {
		where += fmt.Sprintf(" AND status = '%s' AND is_gr = FALSE", entity.StatusCompleted)
	}
	if filter.DocNumberSearch != "" {
		where += fmt.Sprintf(" AND doc_number ILIKE $%d", pos)
		args = append(args, "%"+filter.DocNumberSearch+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM receivings"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count receivings: %w", err)
	}

	query := `SELECT id, doc_number, received_by, received_at, status, notes, is_gr, created_at, updated_at, deleted_at
		FROM receivings` + where + fmt.Sprintf(" ORDER BY received_at DESC, doc_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receivings: %w", err)
	}
	defer rows.Close()

	var receivings []*entity.Receiving
	for rows.Next() {
		var rec entity.Receiving
		if err := rows.Scan(&rec.ID, &rec.DocNumber, &rec.ReceivedBy, &rec.ReceivedAt, &rec.Status,
			&rec.Notes, &rec.IsGR, &rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan receiving: %w", err)
		}
		receivings = append(receivings, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, rec := range receivings {
		items, err := r.loadItems(rec.ID)
		if err != nil {
			return nil, 0, err
		}
		rec.Items = items
	}
	return receivings, total, nil
}

// LastDocNumberForDay devuelve el doc_number más alto del día (incluye
// borrados: los números no se reutilizan), o "" si no hay ninguno. El orden
// lexicográfico solo por doc_number fallaría al pasar la secuencia de 9999
// (el sufijo se ensancha a 5 dígitos); la longitud decide primero.
func (r *ReceivingRepo) LastDocNumberForDay(pattern string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT doc_number FROM receivings WHERE doc_number LIKE $1
		ORDER BY length(doc_number) DESC, doc_number DESC LIMIT 1`,
		pattern,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last receiving number: %w", err)
	}
	return last, nil
}
