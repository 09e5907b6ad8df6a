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

// OutgoingUseCase gestiona el ciclo de vida de los documentos de salida.
// El completado valida suficiencia de TODAS las líneas contra el stock
// bloqueado antes de aplicar ninguna: nunca es visible una aplicación parcial.
type OutgoingUseCase struct {
	tx        TxRunner
	outgoings repository.OutgoingRepository
	ledger    *StockLedger
	now       func() time.Time
}

// NewOutgoingUseCase construye el caso de uso.
func NewOutgoingUseCase(tx TxRunner, outgoings repository.OutgoingRepository) *OutgoingUseCase {
	return &OutgoingUseCase{
		tx:        tx,
		outgoings: outgoings,
		ledger:    NewStockLedger(),
		now:       time.Now,
	}
}

// Create crea un Outgoing en borrador, sin efecto sobre el ledger.
func (uc *OutgoingUseCase) Create(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*entity.Outgoing, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	issuedAt := uc.now()
	if in.IssuedAt != nil {
		issuedAt = *in.IssuedAt
	}
	autoNumber := in.DocNumber == ""

	var created *entity.Outgoing
	for attempt := 0; ; attempt++ {
		err := uc.tx.Run(ctx, func(r TxRepos) error {
			docNumber := in.DocNumber
			if autoNumber {
				last, err := r.Outgoings.LastDocNumberForDay(docnumber.DayPattern(docnumber.PrefixOutgoing, issuedAt))
				if err != nil {
					return err
				}
				docNumber = docnumber.Next(docnumber.PrefixOutgoing, issuedAt, last)
			}
			out := &entity.Outgoing{
				ID:        uuid.New().String(),
				DocNumber: docNumber,
				IssuedBy:  userID,
				IssuedAt:  issuedAt,
				Status:    entity.StatusDraft,
				Notes:     in.Notes,
			}
			for _, it := range in.Items {
				out.Items = append(out.Items, entity.OutgoingItem{
					ID:         uuid.New().String(),
					OutgoingID: out.ID,
					PartID:     it.PartID,
					Qty:        it.Qty,
				})
			}
			if err := r.Outgoings.Create(out); err != nil {
				return err
			}
			created = out
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
func (uc *OutgoingUseCase) GetByID(ctx context.Context, id string) (*entity.Outgoing, error) {
	out, err := uc.outgoings.GetByID(id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// List lista documentos con filtros y paginación.
func (uc *OutgoingUseCase) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Outgoing, int, error) {
	return uc.outgoings.List(filter)
}

// Update modifica campos escalares y, si in.Items no es nil, reemplaza la
// colección de líneas completa (solo en borrador).
func (uc *OutgoingUseCase) Update(ctx context.Context, id string, in dto.UpdateDocumentRequest) (*entity.Outgoing, error) {
	out, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !out.IsEditable() {
		return nil, fmt.Errorf("%w: outgoing %s (GI confirmado o cancelado)", domain.ErrNotEditable, out.DocNumber)
	}
	if in.Items != nil {
		if out.Status != entity.StatusDraft {
			return nil, fmt.Errorf("%w: las líneas solo se reemplazan en borrador", domain.ErrInvalidState)
		}
		if err := validateItems(in.Items); err != nil {
			return nil, err
		}
	}

	if in.DocNumber != nil {
		out.DocNumber = *in.DocNumber
	}
	if in.Notes != nil {
		out.Notes = *in.Notes
	}
	if err := uc.outgoings.Update(out); err != nil {
		return nil, err
	}

	if in.Items != nil {
		items := make([]entity.OutgoingItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, entity.OutgoingItem{
				ID:         uuid.New().String(),
				OutgoingID: out.ID,
				PartID:     it.PartID,
				Qty:        it.Qty,
			})
		}
		if err := uc.outgoings.ReplaceItems(out.ID, items); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, id)
}

// Complete transiciona draft -> completed y debita el stock de cada línea.
// Primero bloquea todas las partes en orden ascendente, luego valida que
// CADA línea quepa en el stock bloqueado, y solo entonces aplica el ledger.
// Cualquier fallo aborta la transacción completa: el stock queda intacto y
// no se crea ningún movimiento.
func (uc *OutgoingUseCase) Complete(ctx context.Context, id string) (*entity.Outgoing, error) {
	var completed *entity.Outgoing
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		out, err := r.Outgoings.GetByID(id)
		if err != nil {
			return err
		}
		if out == nil {
			return domain.ErrNotFound
		}
		if out.Status != entity.StatusDraft {
			return fmt.Errorf("%w: outgoing %s en estado %s no puede completarse", domain.ErrInvalidState, out.DocNumber, out.Status)
		}

		partIDs := make([]string, 0, len(out.Items))
		for _, it := range out.Items {
			partIDs = append(partIDs, it.PartID)
		}
		parts, err := lockParts(r, partIDs)
		if err != nil {
			return err
		}

		// Suficiencia del lote completo contra los valores bloqueados,
		// acumulando demanda cuando varias líneas tocan la misma parte.
		demand := make(map[string]int, len(parts))
		for _, it := range out.Items {
			demand[it.PartID] += it.Qty
			part := parts[it.PartID]
			if part.Stock < demand[it.PartID] {
				return fmt.Errorf("%w: parte %s disponible=%d solicitado=%d",
					domain.ErrInsufficientStock, part.PartNumber, part.Stock, demand[it.PartID])
			}
		}

		for _, it := range out.Items {
			part := parts[it.PartID]
			if _, err := uc.ledger.Apply(r, part, entity.MovementTypeOut, it.Qty, entity.ReferenceTypeOutgoings, out.ID); err != nil {
				return err
			}
		}

		if err := r.Outgoings.UpdateStatus(out.ID, entity.StatusCompleted); err != nil {
			return err
		}
		out.Status = entity.StatusCompleted
		completed = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Cancel transiciona a cancelled desde cualquier estado no terminal, sin
// reversión de movimientos.
func (uc *OutgoingUseCase) Cancel(ctx context.Context, id string) (*entity.Outgoing, error) {
	out, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if out.Status == entity.StatusCancelled {
		return nil, fmt.Errorf("%w: outgoing %s ya está cancelado", domain.ErrInvalidState, out.DocNumber)
	}
	if err := uc.outgoings.UpdateStatus(out.ID, entity.StatusCancelled); err != nil {
		return nil, err
	}
	out.Status = entity.StatusCancelled
	return out, nil
}

// ConfirmGI marca el Goods Issue de un documento completado (flag monótono).
func (uc *OutgoingUseCase) ConfirmGI(ctx context.Context, id string) (*entity.Outgoing, error) {
	out, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !out.CanConfirmGI() {
		return nil, fmt.Errorf("%w: outgoing %s no admite confirmación GI (estado=%s, is_gi=%t)",
			domain.ErrInvalidState, out.DocNumber, out.Status, out.IsGI)
	}
	if err := uc.outgoings.SetGI(out.ID); err != nil {
		return nil, err
	}
	out.IsGI = true
	return out, nil
}

// Delete marca el documento como borrado (soft delete).
func (uc *OutgoingUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.outgoings.SoftDelete(id)
}
