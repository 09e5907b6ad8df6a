package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/docnumber"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// Reintentos ante colisión del numerador diario (índice único en doc_number).
// La transacción completa se repite: en PostgreSQL una violación de unicidad
// aborta la tx en curso, no se puede reintentar dentro de ella.
const maxNumberRetries = 3

// ReceivingUseCase gestiona el ciclo de vida de los documentos de recepción:
// draft -> completed -> completed(GR), draft|completed -> cancelled.
// El completado ejecuta el Stock Ledger (dirección in) por línea, todo dentro
// de una sola transacción con candado de filas.
type ReceivingUseCase struct {
	tx         TxRunner
	receivings repository.ReceivingRepository
	ledger     *StockLedger
	now        func() time.Time
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(tx TxRunner, receivings repository.ReceivingRepository) *ReceivingUseCase {
	return &ReceivingUseCase{
		tx:         tx,
		receivings: receivings,
		ledger:     NewStockLedger(),
		now:        time.Now,
	}
}

func validateItems(items []dto.ItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: el documento requiere al menos una línea", domain.ErrValidation)
	}
	for _, it := range items {
		if it.PartID == "" {
			return fmt.Errorf("%w: línea sin part_id", domain.ErrValidation)
		}
		if it.Qty <= 0 {
			return fmt.Errorf("%w: la cantidad debe ser positiva (qty=%d)", domain.ErrValidation, it.Qty)
		}
	}
	return nil
}

// Create crea un Receiving en borrador, sin efecto sobre el ledger.
// DocNumber vacío asigna RCV-DDMMYY-NNNN dentro de la misma transacción del
// insert, con reintento acotado si otro proceso ganó el mismo número.
func (uc *ReceivingUseCase) Create(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*entity.Receiving, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	receivedAt := uc.now()
	if in.IssuedAt != nil {
		receivedAt = *in.IssuedAt
	}
	autoNumber := in.DocNumber == ""

	var created *entity.Receiving
	for attempt := 0; ; attempt++ {
		err := uc.tx.Run(ctx, func(r TxRepos) error {
			docNumber := in.DocNumber
			if autoNumber {
				last, err := r.Receivings.LastDocNumberForDay(docnumber.DayPattern(docnumber.PrefixReceiving, receivedAt))
				if err != nil {
					return err
				}
				docNumber = docnumber.Next(docnumber.PrefixReceiving, receivedAt, last)
			}
			rec := &entity.Receiving{
				ID:         uuid.New().String(),
				DocNumber:  docNumber,
				ReceivedBy: userID,
				ReceivedAt: receivedAt,
				Status:     entity.StatusDraft,
				Notes:      in.Notes,
			}
			for _, it := range in.Items {
				rec.Items = append(rec.Items, entity.ReceivingItem{
					ID:          uuid.New().String(),
					ReceivingID: rec.ID,
					PartID:      it.PartID,
					Qty:         it.Qty,
				})
			}
			if err := r.Receivings.Create(rec); err != nil {
				return err
			}
			created = rec
			return nil
		})
		if err == nil {
			return created, nil
		}
		if autoNumber && errors.Is(err, domain.ErrDuplicate) && attempt+1 < maxNumberRetries {
			continue
		}
		return nil, err
	}
}

// GetByID devuelve el documento con líneas anidadas.
func (uc *ReceivingUseCase) GetByID(ctx context.Context, id string) (*entity.Receiving, error) {
	rec, err := uc.receivings.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// List lista documentos con filtros y paginación.
func (uc *ReceivingUseCase) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Receiving, int, error) {
	return uc.receivings.List(filter)
}

// Update modifica campos escalares y, si in.Items no es nil, reemplaza la
// colección de líneas completa. Solo documentos editables; el reemplazo de
// líneas exige además estado draft (un completado ya movió stock).
func (uc *ReceivingUseCase) Update(ctx context.Context, id string, in dto.UpdateDocumentRequest) (*entity.Receiving, error) {
	rec, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsEditable() {
		return nil, fmt.Errorf("%w: receiving %s (GR confirmado o cancelado)", domain.ErrNotEditable, rec.DocNumber)
	}
	if in.Items != nil {
		if rec.Status != entity.StatusDraft {
			return nil, fmt.Errorf("%w: las líneas solo se reemplazan en borrador", domain.ErrInvalidState)
		}
		if err := validateItems(in.Items); err != nil {
			return nil, err
		}
	}

	if in.DocNumber != nil {
		rec.DocNumber = *in.DocNumber
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if err := uc.receivings.Update(rec); err != nil {
		return nil, err
	}

	if in.Items != nil {
		items := make([]entity.ReceivingItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, entity.ReceivingItem{
				ID:          uuid.New().String(),
				ReceivingID: rec.ID,
				PartID:      it.PartID,
				Qty:         it.Qty,
			})
		}
		if err := uc.receivings.ReplaceItems(rec.ID, items); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, id)
}

// Complete transiciona draft -> completed y acredita el stock de cada línea.
// Bloquea todas las partes referenciadas (orden ascendente por id) antes de
// mutar, y todo ocurre en una sola transacción: o todas las líneas quedan
// acreditadas con su movimiento, o ninguna.
func (uc *ReceivingUseCase) Complete(ctx context.Context, id string) (*entity.Receiving, error) {
	var completed *entity.Receiving
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		rec, err := r.Receivings.GetByID(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != entity.StatusDraft {
			return fmt.Errorf("%w: receiving %s en estado %s no puede completarse", domain.ErrInvalidState, rec.DocNumber, rec.Status)
		}

		partIDs := make([]string, 0, len(rec.Items))
		for _, it := range rec.Items {
			partIDs = append(partIDs, it.PartID)
		}
		parts, err := lockParts(r, partIDs)
		if err != nil {
			return err
		}

		for _, it := range rec.Items {
			part := parts[it.PartID]
			if _, err := uc.ledger.Apply(r, part, entity.MovementTypeIn, it.Qty, entity.ReferenceTypeReceivings, rec.ID); err != nil {
				return err
			}
		}

		if err := r.Receivings.UpdateStatus(rec.ID, entity.StatusCompleted); err != nil {
			return err
		}
		rec.Status = entity.StatusCompleted
		completed = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Cancel transiciona a cancelled desde cualquier estado no terminal. No
// revierte movimientos: cancelar un completado deja su efecto de stock
// intacto (comportamiento heredado, ver DESIGN.md).
func (uc *ReceivingUseCase) Cancel(ctx context.Context, id string) (*entity.Receiving, error) {
	rec, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == entity.StatusCancelled {
		return nil, fmt.Errorf("%w: receiving %s ya está cancelado", domain.ErrInvalidState, rec.DocNumber)
	}
	if err := uc.receivings.UpdateStatus(rec.ID, entity.StatusCancelled); err != nil {
		return nil, err
	}
	rec.Status = entity.StatusCancelled
	return rec, nil
}

// ConfirmGR marca el Goods Receipt de un documento completado. El flag es
// monótono: confirmar dos veces falla y el flag permanece en true.
func (uc *ReceivingUseCase) ConfirmGR(ctx context.Context, id string) (*entity.Receiving, error) {
	rec, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.CanConfirmGR() {
		return nil, fmt.Errorf("%w: receiving %s no admite confirmación GR (estado=%s, is_gr=%t)",
			domain.ErrInvalidState, rec.DocNumber, rec.Status, rec.IsGR)
	}
	if err := uc.receivings.SetGR(rec.ID); err != nil {
		return nil, err
	}
	rec.IsGR = true
	return rec, nil
}

// Delete marca el documento como borrado (soft delete).
func (uc *ReceivingUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.receivings.SoftDelete(id)
}
