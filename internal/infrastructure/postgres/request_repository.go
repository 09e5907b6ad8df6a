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

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de RequestRepository sobre PostgreSQL. Las
// líneas viven en la tabla request_lists.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste la solicitud y sus líneas.
func (r *RequestRepo) Create(request *entity.Request) error {
	query := `
		INSERT INTO requests (id, request_number, requested_by, requested_at, destination, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.RequestNumber, request.RequestedBy, request.RequestedAt,
		request.Destination, request.Status, request.Notes, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return r.insertItems(request.ID, request.Items)
}

func (r *RequestRepo) insertItems(requestID string, items []entity.RequestItem) error {
	for i := range items {
		it := &items[i]
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO request_lists (id, request_id, part_id, qty, is_urgent, is_supplied, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
			it.ID, requestID, it.PartID, it.Qty, it.IsUrgent, it.IsSupplied,
		)
		if err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la solicitud con sus líneas cargadas. Nil si no existe.
func (r *RequestRepo) GetByID(id string) (*entity.Request, error) {
	var req entity.Request
	err := r.q.QueryRow(context.Background(), `
		SELECT id, request_number, requested_by, requested_at, destination, status, notes, created_at, updated_at, deleted_at
		FROM requests WHERE id = $1 AND deleted_at IS NULL`, id).Scan(
		&req.ID, &req.RequestNumber, &req.RequestedBy, &req.RequestedAt, &req.Destination,
		&req.Status, &req.Notes, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}

	items, err := r.loadItems(req.ID)
	if err != nil {
		return nil, err
	}
	req.Items = items
	return &req, nil
}

func (r *RequestRepo) loadItems(requestID string) ([]entity.RequestItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, request_id, part_id, qty, is_urgent, is_supplied, created_at, updated_at
		FROM request_lists WHERE request_id = $1 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request items: %w", err)
	}
	defer rows.Close()

	var items []entity.RequestItem
	for rows.Next() {
		var it entity.RequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.PartID, &it.Qty, &it.IsUrgent, &it.IsSupplied,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem obtiene una línea suelta por ID. Nil si no existe.
func (r *RequestRepo) GetItem(itemID string) (*entity.RequestItem, error) {
	var it entity.RequestItem
	err := r.q.QueryRow(context.Background(), `
		SELECT id, request_id, part_id, qty, is_urgent, is_supplied, created_at, updated_at
		FROM request_lists WHERE id = $1`, itemID).Scan(
		&it.ID, &it.RequestID, &it.PartID, &it.Qty, &it.IsUrgent, &it.IsSupplied,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request item: %w", err)
	}
	return &it, nil
}

// MarkItemSupplied marca la línea como suministrada fijando la cantidad
// efectiva. El WHERE sobre is_supplied hace la transición única: una segunda
// llamada no toca filas y devuelve ErrAlreadySupplied.
func (r *RequestRepo) MarkItemSupplied(itemID string, qty int) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE request_lists SET is_supplied = TRUE, qty = $2, updated_at = now()
		WHERE id = $1 AND is_supplied = FALSE`,
		itemID, qty,
	)
	if err != nil {
		return fmt.Errorf("mark item supplied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadySupplied
	}
	return nil
}

// Update modifica la cabecera de la solicitud, incluido el request_number.
func (r *RequestRepo) Update(request *entity.Request) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE requests SET request_number = $2, requested_by = $3, requested_at = $4, destination = $5, notes = $6, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		request.ID, request.RequestNumber, request.RequestedBy, request.RequestedAt, request.Destination, request.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra la colección vigente y la sustituye completa.
func (r *RequestRepo) ReplaceItems(requestID string, items []entity.RequestItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM request_lists WHERE request_id = $1`, requestID); err != nil {
		return fmt.Errorf("delete request items: %w", err)
	}
	return r.insertItems(requestID, items)
}

// UpdateStatus cambia el estado de la solicitud.
func (r *RequestRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE requests SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca la solicitud como borrada.
func (r *RequestRepo) SoftDelete(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE requests SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes vivas filtradas, más recientes primero, con líneas.
func (r *RequestRepo) List(filter repository.DocumentFilter) ([]*entity.Request, int, error) {
	where := " WHERE deleted_at IS NULL"
	args := []any{}
	pos := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.PendingConfirm {
		// solicitudes completadas con alguna línea aún sin suministrar
		where += fmt.Sprintf(` AND status = '%s' AND EXISTS (
			SELECT 1 FROM request_lists rl WHERE rl.request_id = requests.id AND rl.is_supplied = FALSE)`,
			entity.StatusCompleted)
	}
	if filter.DocNumberSearch != "" {
		where += fmt.Sprintf(" AND request_number ILIKE $%d", pos)
		args = append(args, "%"+filter.DocNumberSearch+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := `SELECT id, request_number, requested_by, requested_at, destination, status, notes, created_at, updated_at, deleted_at
		FROM requests` + where + fmt.Sprintf(" ORDER BY requested_at DESC, request_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		var req entity.Request
		if err := rows.Scan(&req.ID, &req.RequestNumber, &req.RequestedBy, &req.RequestedAt,
			&req.Destination, &req.Status, &req.Notes, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, req := range requests {
		items, err := r.loadItems(req.ID)
		if err != nil {
			return nil, 0, err
		}
		req.Items = items
	}
	return requests, total, nil
}

// LastDocNumberForDay devuelve el request_number más alto del día, o "" si
// no hay ninguno. La longitud ordena primero para que un sufijo de 5
// dígitos gane a 9999.
func (r *RequestRepo) LastDocNumberForDay(pattern string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT request_number FROM requests WHERE request_number LIKE $1
		ORDER BY length(request_number) DESC, request_number DESC LIMIT 1`,
		pattern,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last request number: %w", err)
	}
	return last, nil
}
