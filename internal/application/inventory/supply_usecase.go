package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/docnumber"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// SupplyUseCase convierte una línea de solicitud en una deducción real de
// stock: bloquea la parte, localiza (o crea) el Outgoing en borrador
// correlacionado a la solicitud, agrega la línea, aplica el ledger y marca
// la línea como suministrada. Todo en una sola transacción; la notificación
// SSE sale después del commit y nunca revierte el suministro.
type SupplyUseCase struct {
	tx       TxRunner
	requests repository.RequestRepository
	notifier Notifier
	ledger   *StockLedger
	now      func() time.Time
}

// NewSupplyUseCase construye el coordinador de suministro.
func NewSupplyUseCase(tx TxRunner, requests repository.RequestRepository, notifier Notifier) *SupplyUseCase {
	return &SupplyUseCase{
		tx:       tx,
		requests: requests,
		notifier: notifier,
		ledger:   NewStockLedger(),
		now:      time.Now,
	}
}

// Supply suministra una línea de solicitud. qtyOverride nil usa la cantidad
// solicitada; un valor explícito registra la cantidad realmente entregada
// (puede diferir de la pedida). La transición is_supplied ocurre una sola
// vez: repetir la operación falla con ErrAlreadySupplied.
func (uc *SupplyUseCase) Supply(ctx context.Context, itemID, userID string, qtyOverride *int) (*entity.Request, error) {
	var (
		suppliedPart *entity.Part
		suppliedQty  int
		requestID    string
	)

	run := func(r TxRepos) error {
		item, err := r.Requests.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: línea de solicitud %s", domain.ErrNotFound, itemID)
		}
		if item.IsSupplied {
			return fmt.Errorf("%w: línea %s", domain.ErrAlreadySupplied, itemID)
		}

		supplyQty := item.Qty
		if qtyOverride != nil {
			supplyQty = *qtyOverride
		}
		if supplyQty <= 0 {
			return fmt.Errorf("%w: la cantidad a suministrar debe ser positiva (qty=%d)", domain.ErrValidation, supplyQty)
		}

		// Candado de fila sobre la parte: stock_before se captura bajo el
		// candado, nunca desde una lectura obsoleta.
		part, err := r.Parts.GetForUpdate(item.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return fmt.Errorf("%w: parte %s", domain.ErrNotFound, item.PartID)
		}
		if part.Stock < supplyQty {
			return fmt.Errorf("%w: parte %s disponible=%d solicitado=%d",
				domain.ErrInsufficientStock, part.PartNumber, part.Stock, supplyQty)
		}

		outgoing, err := r.Outgoings.FindDraftByRequestID(item.RequestID)
		if err != nil {
			return err
		}
		if outgoing == nil {
			now := uc.now()
			last, err := r.Outgoings.LastDocNumberForDay(docnumber.DayPattern(docnumber.PrefixOutgoing, now))
			if err != nil {
				return err
			}
			outgoing = &entity.Outgoing{
				ID:        uuid.New().String(),
				DocNumber: docnumber.Next(docnumber.PrefixOutgoing, now, last),
				IssuedBy:  userID,
				IssuedAt:  now,
				Status:    entity.StatusDraft,
				RequestID: item.RequestID,
			}
			if err := r.Outgoings.Create(outgoing); err != nil {
				return err
			}
		}

		if err := r.Outgoings.AddItem(&entity.OutgoingItem{
			ID:         uuid.New().String(),
			OutgoingID: outgoing.ID,
			PartID:     part.ID,
			Qty:        supplyQty,
		}); err != nil {
			return err
		}

		if _, err := uc.ledger.Apply(r, part, entity.MovementTypeOut, supplyQty, entity.ReferenceTypeOutgoings, outgoing.ID); err != nil {
			return err
		}

		if err := r.Requests.MarkItemSupplied(item.ID, supplyQty); err != nil {
			return err
		}

		suppliedPart = part
		suppliedQty = supplyQty
		requestID = item.RequestID
		return nil
	}

	// La asignación del número OUT del día puede colisionar con otra
	// transacción; el índice único lo detecta y aquí se repite el intento
	// completo (la tx abortada no es recuperable por dentro).
	var err error
	for attempt := 0; ; attempt++ {
		err = uc.tx.Run(ctx, run)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicate) && attempt+1 < maxNumberRetries {
			continue
		}
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.Publish("request_item_supplied", map[string]any{
			"item_id":     itemID,
			"part_number": suppliedPart.PartNumber,
			"qty":         suppliedQty,
		})
	}

	req, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}
