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

var _ repository.OutgoingRepository = (*OutgoingRepo)(nil)

// OutgoingRepo implementación de OutgoingRepository sobre PostgreSQL.
type OutgoingRepo struct {
	q Querier
}

// NewOutgoingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutgoingRepository(q Querier) *OutgoingRepo {
	return &OutgoingRepo{q: q}
}

// Create persiste el documento y sus líneas.
func (r *OutgoingRepo) Create(outgoing *entity.Outgoing) error {
	query := `
		INSERT INTO outgoings (id, doc_number, issued_by, issued_at, status, notes, is_gi, request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		outgoing.ID, outgoing.DocNumber, outgoing.IssuedBy, outgoing.IssuedAt,
		outgoing.Status, outgoing.Notes, outgoing.IsGI, outgoing.RequestID,
		outgoing.CreatedAt, outgoing.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert outgoing: %w", err)
	}
	return r.insertItems(outgoing.ID, outgoing.Items)
}

func (r *OutgoingRepo) insertItems(outgoingID string, items []entity.OutgoingItem) error {
	for i := range items {
		it := &items[i]
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO outgoing_items (id, outgoing_id, part_id, qty, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			it.ID, outgoingID, it.PartID, it.Qty,
		)
		if err != nil {
			return fmt.Errorf("insert outgoing item: %w", err)
		}
	}
	return nil
}

// AddItem añade una línea suelta (coordinador de suministro sobre un
// borrador ya existente).
func (r *OutgoingRepo) AddItem(item *entity.OutgoingItem) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO outgoing_items (id, outgoing_id, part_id, qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		item.ID, item.OutgoingID, item.PartID, item.Qty,
	)
	if err != nil {
		return fmt.Errorf("add outgoing item: %w", err)
	}
	return nil
}

const outgoingColumns = `id, doc_number, issued_by, issued_at, status, notes, is_gi,
	COALESCE(request_id, ''), created_at, updated_at, deleted_at`

func scanOutgoing(row pgx.Row) (*entity.Outgoing, error) {
	var o entity.Outgoing
	err := row.Scan(&o.ID, &o.DocNumber, &o.IssuedBy, &o.IssuedAt, &o.Status, &o.Notes,
		&o.IsGI, &o.RequestID, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID obtiene el documento con sus líneas cargadas. Nil si no existe.
func (r *OutgoingRepo) GetByID(id string) (*entity.Outgoing, error) {
	o, err := scanOutgoing(r.q.QueryRow(context.Background(),
		`SELECT `+outgoingColumns+` FROM outgoings WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outgoing: %w", err)
	}

	items, err := r.loadItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// FindDraftByRequestID localiza el borrador correlacionado a la solicitud.
// El llamador sostiene el candado de la parte, que serializa los suministros
// concurrentes de una misma solicitud.
func (r *OutgoingRepo) FindDraftByRequestID(requestID string) (*entity.Outgoing, error) {
	o, err := scanOutgoing(r.q.QueryRow(context.Background(),
		`SELECT `+outgoingColumns+` FROM outgoings
		 WHERE request_id = $1 AND status = $2 AND deleted_at IS NULL
		 ORDER BY created_at LIMIT 1`,
		requestID, entity.StatusDraft))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find draft outgoing by request: %w", err)
	}

	items, err := r.loadItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OutgoingRepo) loadItems(outgoingID string) ([]entity.OutgoingItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, outgoing_id, part_id, qty, created_at, updated_at
		FROM outgoing_items WHERE outgoing_id = $1 ORDER BY created_at, id`, outgoingID)
	if err != nil {
		return nil, fmt.Errorf("load outgoing items: %w", err)
	}
	defer rows.Close()

	var items []entity.OutgoingItem
	for rows.Next() {
		var it entity.OutgoingItem
		if err := rows.Scan(&it.ID, &it.OutgoingID, &it.PartID, &it.Qty, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outgoing item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update modifica la cabecera del documento, incluido el doc_number.
func (r *OutgoingRepo) Update(outgoing *entity.Outgoing) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE outgoings SET doc_number = $2, issued_by = $3, issued_at = $4, notes = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		outgoing.ID, outgoing.DocNumber, outgoing.IssuedBy, outgoing.IssuedAt, outgoing.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update outgoing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra la colección vigente y la sustituye completa.
func (r *OutgoingRepo) ReplaceItems(outgoingID string, items []entity.OutgoingItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM outgoing_items WHERE outgoing_id = $1`, outgoingID); err != nil {
		return fmt.Errorf("delete outgoing items: %w", err)
	}
	return r.insertItems(outgoingID, items)
}

// UpdateStatus cambia el estado del documento.
func (r *OutgoingRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE outgoings SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update outgoing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetGI marca la confirmación Goods Issue (transición única false -> true).
func (r *OutgoingRepo) SetGI(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE outgoings SET is_gi = TRUE, updated_at = now() WHERE id = $1 AND deleted_at IS NULL AND is_gi = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set outgoing gi: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// SoftDelete marca el documento como borrado.
func (r *OutgoingRepo) SoftDelete(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE outgoings SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete outgoing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista documentos vivos filtrados, más recientes primero, con líneas.
func (r *OutgoingRepo) List(filter repository.DocumentFilter) ([]*entity.Outgoing, int, error) {
	where := " WHERE deleted_at IS NULL"
	args := []any{}
	pos := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.PendingConfirm {
		where += fmt.Sprintf(" AND status = '%s' AND is_gi = FALSE", entity.StatusCompleted)
	}
	if filter.DocNumberSearch != "" {
		where += fmt.Sprintf(" AND doc_number ILIKE $%d", pos)
		args = append(args, "%"+filter.DocNumberSearch+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM outgoings"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count outgoings: %w", err)
	}

	query := "SELECT " + outgoingColumns + " FROM outgoings" + where +
		fmt.Sprintf(" ORDER BY issued_at DESC, doc_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list outgoings: %w", err)
	}
	defer rows.Close()

	var outgoings []*entity.Outgoing
	for rows.Next() {
		o, err := scanOutgoing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan outgoing: %w", err)
		}
		outgoings = append(outgoings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range outgoings {
		items, err := r.loadItems(o.ID)
		if err != nil {
			return nil, 0, err
		}
		o.Items = items
	}
	return outgoings, total, nil
}

// LastDocNumberForDay devuelve el doc_number más alto del día (incluye
// borrados: los números no se reutilizan), o "" si no hay ninguno. La
// longitud ordena primero para que un sufijo de 5 dígitos gane a 9999.
func (r *OutgoingRepo) LastDocNumberForDay(pattern string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT doc_number FROM outgoings WHERE doc_number LIKE $1
		ORDER BY length(doc_number) DESC, doc_number DESC LIMIT 1`,
		pattern,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last outgoing number: %w", err)
	}
	return last, nil
}
