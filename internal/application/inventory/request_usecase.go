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

// RequestUseCase gestiona las solicitudes internas de partes. Una solicitud
// no toca el ledger: el stock solo se mueve cuando el coordinador de
// suministro (SupplyUseCase) satisface sus líneas.
type RequestUseCase struct {
	tx       TxRunner
	requests repository.RequestRepository
	parts    repository.PartRepository
	notifier Notifier
	now      func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(tx TxRunner, requests repository.RequestRepository, parts repository.PartRepository, notifier Notifier) *RequestUseCase {
	return &RequestUseCase{
		tx:       tx,
		requests: requests,
		parts:    parts,
		notifier: notifier,
		now:      time.Now,
	}
}

func validateRequestItems(items []dto.RequestItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: la solicitud requiere al menos una línea", domain.ErrValidation)
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

// Create crea una solicitud en borrador. RequestNumber vacío asigna
// REQ-DDMMYY-NNNN con la misma disciplina del numerador de documentos.
func (uc *RequestUseCase) Create(ctx context.Context, userID string, in dto.CreateRequestRequest) (*entity.Request, error) {
	if err := validateRequestItems(in.Items); err != nil {
		return nil, err
	}
	requestedAt := uc.now()
	if in.RequestedAt != nil {
		requestedAt = *in.RequestedAt
	}
	autoNumber := in.RequestNumber == ""

	var created *entity.Request
	for attempt := 0; ; attempt++ {
		err := uc.tx.Run(ctx, func(r TxRepos) error {
			number := in.RequestNumber
			if autoNumber {
				last, err := r.Requests.LastDocNumberForDay(docnumber.DayPattern(docnumber.PrefixRequest, requestedAt))
				if err != nil {
					return err
				}
				number = docnumber.Next(docnumber.PrefixRequest, requestedAt, last)
			}
			req := &entity.Request{
				ID:            uuid.New().String(),
				RequestNumber: number,
				RequestedBy:   userID,
				RequestedAt:   requestedAt,
				Destination:   in.Destination,
				Status:        entity.StatusDraft,
				Notes:         in.Notes,
			}
			for _, it := range in.Items {
				req.Items = append(req.Items, entity.RequestItem{
					ID:        uuid.New().String(),
					RequestID: req.ID,
					PartID:    it.PartID,
					Qty:       it.Qty,
					IsUrgent:  it.IsUrgent,
				})
			}
			if err := r.Requests.Create(req); err != nil {
				return err
			}
			created = req
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

// GetByID devuelve la solicitud con líneas anidadas.
func (uc *RequestUseCase) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	req, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// List lista solicitudes con filtros y paginación.
func (uc *RequestUseCase) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Request, int, error) {
	return uc.requests.List(filter)
}

// Update modifica una solicitud en borrador; Items no-nil reemplaza las líneas.
func (uc *RequestUseCase) Update(ctx context.Context, id string, in dto.UpdateRequestRequest) (*entity.Request, error) {
	req, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusDraft {
		return nil, fmt.Errorf("%w: la solicitud %s no está en borrador", domain.ErrInvalidState, req.RequestNumber)
	}
	if in.Items != nil {
		if err := validateRequestItems(in.Items); err != nil {
			return nil, err
		}
	}

	if in.RequestNumber != nil {
		req.RequestNumber = *in.RequestNumber
	}
	if in.Destination != nil {
		req.Destination = *in.Destination
	}
	if in.Notes != nil {
		req.Notes = *in.Notes
	}
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}

	if in.Items != nil {
		items := make([]entity.RequestItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, entity.RequestItem{
				ID:        uuid.New().String(),
				RequestID: req.ID,
				PartID:    it.PartID,
				Qty:       it.Qty,
				IsUrgent:  it.IsUrgent,
			})
		}
		if err := uc.requests.ReplaceItems(req.ID, items); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, id)
}

// Complete transiciona draft -> completed y publica cada línea pendiente en
// el canal de eventos para la cola de suministro. El broadcast es posterior
// al commit y best-effort.
func (uc *RequestUseCase) Complete(ctx context.Context, id string) (*entity.Request, error) {
	req, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusDraft {
		return nil, fmt.Errorf("%w: solicitud %s en estado %s no puede completarse", domain.ErrInvalidState, req.RequestNumber, req.Status)
	}
	if err := uc.requests.UpdateStatus(req.ID, entity.StatusCompleted); err != nil {
		return nil, err
	}
	req.Status = entity.StatusCompleted

	if uc.notifier != nil {
		for _, it := range req.Items {
			if it.IsSupplied {
				continue
			}
			payload := map[string]any{
				"id":             it.ID,
				"part_id":        it.PartID,
				"qty":            it.Qty,
				"is_urgent":      it.IsUrgent,
				"request_id":     req.ID,
				"request_number": req.RequestNumber,
				"destination":    req.Destination,
			}
			if part, err := uc.parts.GetByID(it.PartID); err == nil && part != nil {
				payload["part_number"] = part.PartNumber
				payload["part_name"] = part.PartName
				payload["stock"] = part.Stock
				payload["address"] = part.Address
			}
			uc.notifier.Publish("request_item_created", payload)
		}
	}
	return req, nil
}

// Cancel transiciona a cancelled desde cualquier estado no terminal.
func (uc *RequestUseCase) Cancel(ctx context.Context, id string) (*entity.Request, error) {
	req, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == entity.StatusCancelled {
		return nil, fmt.Errorf("%w: solicitud %s ya está cancelada", domain.ErrInvalidState, req.RequestNumber)
	}
	if err := uc.requests.UpdateStatus(req.ID, entity.StatusCancelled); err != nil {
		return nil, err
	}
	req.Status = entity.StatusCancelled
	return req, nil
}

// Delete marca la solicitud como borrada (soft delete).
func (uc *RequestUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.requests.SoftDelete(id)
}
